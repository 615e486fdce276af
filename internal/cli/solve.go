package cli

import (
	"context"
	"time"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/internal/runtime"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/observability"
)

// Result is the outcome of one Solve call.
type Result struct {
	Mode     domain.SeedMode
	Seeds    []domain.Range
	Minimum  int64
	Duration time.Duration
	// Ranges holds the terminal ranges; it stays nil on the parallel path.
	Ranges []domain.Range
}

// Solve reads values according to mode and finds the lowest terminal value.
// With parallel set, every seed range is evaluated as its own query.
func Solve(ctx context.Context, engine *remap.Engine, values []int64, mode domain.SeedMode, parallel bool, metrics *observability.Metrics) (*Result, error) {
	seeds, err := domain.SeedRanges(values, mode)
	if err != nil {
		return nil, err
	}

	res := &Result{Mode: mode, Seeds: seeds}
	began := time.Now()

	if parallel {
		res.Minimum, err = engine.MinimumParallel(ctx, seeds)
	} else {
		res.Ranges, err = engine.Evaluate(ctx, seeds)
		if err == nil {
			res.Minimum, err = runtime.Minimum(res.Ranges)
		}
	}

	res.Duration = time.Since(began)
	if metrics != nil {
		metrics.ObserveQuery("minimum", res.Duration, err)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
