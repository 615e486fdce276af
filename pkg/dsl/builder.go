package dsl

import (
	"fmt"

	"github.com/aretw0/remap/pkg/adapters/memory"
	"github.com/aretw0/remap/pkg/domain"
)

// Builder manages the pipeline construction.
type Builder struct {
	order  []string
	stages map[string]*StageBuilder
	seeds  []int64
}

// New creates a new pipeline builder.
func New() *Builder {
	return &Builder{
		stages: make(map[string]*StageBuilder),
	}
}

// Stage creates a new stage in the pipeline.
// If the stage already exists, it returns the existing builder.
func (b *Builder) Stage(id string) *StageBuilder {
	if sb, ok := b.stages[id]; ok {
		return sb
	}
	sb := &StageBuilder{
		block:   domain.StageBlock{ID: id},
		builder: b,
	}
	b.stages[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Seeds attaches seed values to the resulting loader.
func (b *Builder) Seeds(seeds ...int64) *Builder {
	b.seeds = append(b.seeds, seeds...)
	return b
}

// Blocks returns the stages in declaration order.
func (b *Builder) Blocks() []domain.StageBlock {
	blocks := make([]domain.StageBlock, 0, len(b.order))
	for _, id := range b.order {
		blocks = append(blocks, b.stages[id].block)
	}
	return blocks
}

// Build compiles the pipeline into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	for _, block := range b.Blocks() {
		if block.Next == "" {
			return nil, fmt.Errorf("%w: stage %q has no next stage", domain.ErrMalformedInput, block.ID)
		}
	}

	loader, err := memory.NewFromStages(b.Blocks()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}

	return loader.WithSeeds(b.seeds...), nil
}

// StageBuilder provides a fluent API for configuring a stage.
type StageBuilder struct {
	block   domain.StageBlock
	builder *Builder
}

// To sets the stage the output of this one feeds.
func (s *StageBuilder) To(next string) *StageBuilder {
	s.block.Next = next
	return s
}

// Rule maps length integers starting at src to the integers starting at dest.
func (s *StageBuilder) Rule(dest, src, length int64) *StageBuilder {
	s.block.Rules = append(s.block.Rules, domain.Rule{Destination: dest, Source: src, Length: length})
	return s
}

// Shift maps [start, start+length) by a constant offset.
func (s *StageBuilder) Shift(start, length, offset int64) *StageBuilder {
	return s.Rule(start+offset, start, length)
}

// Then starts the stage this one feeds, wiring To along the way.
func (s *StageBuilder) Then(next string) *StageBuilder {
	s.To(next)
	return s.builder.Stage(next)
}
