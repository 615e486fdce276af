package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/remap/internal/compiler"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/ports"
)

// Report collects everything found while validating a pipeline.
// Errors make the pipeline unusable; warnings flag stages that will never run.
type Report struct {
	Chain    []string
	Errors   []string
	Warnings []string
}

// Err returns nil when the report has no errors.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrMalformedInput, len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidatePipeline checks every stage the loader lists and walks the chain from start.
// Unlike BuildPipeline, which stops at the first problem and tolerates missing stages
// until evaluation, it reports every broken link, malformed stage and cycle at once.
func ValidatePipeline(loader ports.StageLoader, parser *compiler.Parser, start, terminal string) (*Report, error) {
	ids, err := loader.ListStages()
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}

	report := &Report{}
	if start == "" || terminal == "" {
		report.Errors = append(report.Errors, "start and terminal stages are required")
		return report, nil
	}
	if start == terminal {
		report.Errors = append(report.Errors, fmt.Sprintf("start and terminal are both %q", start))
		return report, nil
	}

	stages := make(map[string]domain.Stage, len(ids))
	for _, id := range ids {
		if id == terminal {
			report.Errors = append(report.Errors, fmt.Sprintf("stage '%s' shadows the terminal domain", id))
			continue
		}
		raw, err := loader.GetStage(id)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Load error for '%s': %v", id, err))
			continue
		}
		block, err := parser.Parse(raw)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Parse error for '%s': %v", id, err))
			continue
		}
		stage, err := domain.NewStage(*block)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Invalid stage '%s': %v", id, stripSentinel(err)))
			continue
		}
		stages[id] = stage
	}

	// Walk the chain. Stages that failed to compile are skipped silently since they are already reported.
	visited := make(map[string]bool)
	current := start
	for current != terminal {
		if visited[current] {
			report.Errors = append(report.Errors, fmt.Sprintf("Cycle detected: %s -> %s", strings.Join(report.Chain, " -> "), current))
			break
		}
		visited[current] = true
		report.Chain = append(report.Chain, current)

		stage, ok := stages[current]
		if !ok {
			if !slices.Contains(ids, current) {
				report.Errors = append(report.Errors, fmt.Sprintf("Missing stage: '%s'", current))
			}
			break
		}
		current = stage.Next
	}

	for _, id := range ids {
		if _, ok := stages[id]; ok && !visited[id] {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Unreachable stage: '%s'", id))
		}
	}

	return report, nil
}

func stripSentinel(err error) string {
	msg := err.Error()
	prefix := domain.ErrMalformedInput.Error() + ": "
	if errors.Is(err, domain.ErrMalformedInput) && strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
