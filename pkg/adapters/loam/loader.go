package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/remap/pkg/domain"
)

// Loader adapts the Loam library to the StageLoader interface.
// Each stage lives in its own document (e.g. seed.md) whose frontmatter holds id, next and rules.
type Loader struct {
	Repo *loam.TypedRepository[StageMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StageMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// GetStage retrieves a stage from the Loam repository and re-encodes it as JSON.
func (l *Loader) GetStage(id string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if !l.has(id) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingStage, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	rawID := doc.Data.ID
	if rawID == "" {
		rawID = doc.ID
	}

	rules, err := convertRules(doc.Data.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: stage %s: %v", domain.ErrMalformedInput, id, err)
	}

	block := domain.StageBlock{
		ID:    trimExtension(rawID),
		Next:  doc.Data.Next,
		Rules: rules,
	}

	bytes, err := json.Marshal(block)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stage data: %w", err)
	}
	return bytes, nil
}

// ListStages lists all stages in the repository.
func (l *Loader) ListStages() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: collision detected: ID '%s' is defined in both '%s' and '%s'",
				domain.ErrMalformedInput, id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

// has reports whether id is among the listed stages.
func (l *Loader) has(id string) bool {
	ids, err := l.ListStages()
	if err != nil {
		return true
	}
	return slices.Contains(ids, id)
}

// Describe returns the free text attached to a stage, if any.
func (l *Loader) Describe(id string) (string, error) {
	doc, err := l.Repo.Get(context.Background(), id)
	if err != nil {
		return "", fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	if doc.Data.Description != "" {
		return doc.Data.Description, nil
	}
	return strings.TrimSpace(doc.Content), nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

func convertRules(raw []any) ([]domain.Rule, error) {
	rules := make([]domain.Rule, 0, len(raw))
	for i, item := range raw {
		var fields []any
		switch v := item.(type) {
		case string:
			for _, f := range strings.Fields(v) {
				fields = append(fields, f)
			}
		case []any:
			fields = v
		default:
			return nil, fmt.Errorf("rule %d: expected string or list, got %T", i, item)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("rule %d: expected 3 values, got %d", i, len(fields))
		}

		var nums [3]int64
		for j, f := range fields {
			n, err := toInt64(f)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			nums[j] = n
		}
		rules = append(rules, domain.Rule{Destination: nums[0], Source: nums[1], Length: nums[2]})
	}
	return rules, nil
}

// toInt64 normalizes the numeric types YAML and JSON decoders hand back.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
