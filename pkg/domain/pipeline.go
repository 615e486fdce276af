package domain

import (
	"fmt"
	"sort"
)

// Default stage identifiers used by the almanac format.
const (
	DefaultStartStage    = "seed"
	DefaultTerminalStage = "location"
)

// Pipeline is the frozen chain of stages from a start domain to a terminal domain.
// It is never mutated after BuildPipeline returns, so it can be shared across goroutines.
type Pipeline struct {
	stages   map[string]Stage
	start    string
	terminal string
}

// BuildPipeline compiles stage blocks into a Pipeline.
//
// Each block is validated by NewStage. Duplicate ids, a stage named after the terminal
// sentinel, and a cycle reachable from the start stage are reported as ErrMalformedInput.
// A next id without a stage is not checked here: evaluation reports it as ErrMissingStage.
func BuildPipeline(blocks []StageBlock, start, terminal string) (*Pipeline, error) {
	if start == "" || terminal == "" {
		return nil, fmt.Errorf("%w: start and terminal ids are required", ErrMalformedInput)
	}
	if start == terminal {
		return nil, fmt.Errorf("%w: start and terminal are both %q", ErrMalformedInput, start)
	}

	stages := make(map[string]Stage, len(blocks))
	for _, block := range blocks {
		stage, err := NewStage(block)
		if err != nil {
			return nil, err
		}
		if stage.ID == terminal {
			return nil, fmt.Errorf("%w: stage %q shadows the terminal id", ErrMalformedInput, stage.ID)
		}
		if _, exists := stages[stage.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate stage %q", ErrMalformedInput, stage.ID)
		}
		stages[stage.ID] = stage
	}

	p := &Pipeline{stages: stages, start: start, terminal: terminal}
	if err := p.checkCycle(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) checkCycle() error {
	visited := make(map[string]bool, len(p.stages))
	id := p.start
	for id != p.terminal {
		stage, ok := p.stages[id]
		if !ok {
			return nil
		}
		if visited[id] {
			return fmt.Errorf("%w: cycle through stage %q", ErrMalformedInput, id)
		}
		visited[id] = true
		id = stage.Next
	}
	return nil
}

// Start returns the id of the first stage.
func (p *Pipeline) Start() string { return p.start }

// Terminal returns the sentinel id that marks the final domain.
func (p *Pipeline) Terminal() string { return p.terminal }

// Stage looks up a stage by id. The returned value is a copy.
func (p *Pipeline) Stage(id string) (Stage, bool) {
	s, ok := p.stages[id]
	if !ok {
		return Stage{}, false
	}
	return s.Clone(), true
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Stages returns copies of every stage, sorted by id.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, 0, len(p.stages))
	for _, s := range p.stages {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Chain returns the stage ids in evaluation order, starting at the start stage.
// It stops at the terminal id or at the first missing stage, whose error is returned.
func (p *Pipeline) Chain() ([]string, error) {
	var chain []string
	for id := p.start; id != p.terminal; {
		stage, ok := p.stages[id]
		if !ok {
			return chain, fmt.Errorf("%w: %q", ErrMissingStage, id)
		}
		chain = append(chain, id)
		id = stage.Next
	}
	return chain, nil
}

// Locate maps a single integer through every stage, one rule lookup per stage.
// This scalar path is the reference the interval evaluator must agree with.
func (p *Pipeline) Locate(point int64) (int64, error) {
	val := point
	for id := p.start; id != p.terminal; {
		stage, ok := p.stages[id]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingStage, id)
		}
		val = stage.Apply(val)
		id = stage.Next
	}
	return val, nil
}
