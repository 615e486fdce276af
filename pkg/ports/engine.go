package ports

import (
	"context"

	"github.com/aretw0/remap/pkg/domain"
)

// QueryEngine defines the read-only query surface of a built pipeline.
// This is the primary interface used by adapters (e.g., HTTP, MCP) that serve one pipeline per process.
type QueryEngine interface {
	// Evaluate pushes the seed ranges through the pipeline and returns the terminal ranges.
	Evaluate(ctx context.Context, seeds []domain.Range) ([]domain.Range, error)

	// Minimum returns the smallest terminal value reachable from the seeds.
	Minimum(ctx context.Context, seeds []domain.Range) (int64, error)

	// Locate maps a single integer through the pipeline one stage at a time.
	Locate(point int64) (int64, error)

	// Inspect returns the stages of the pipeline for introspection.
	Inspect() []domain.Stage
}
