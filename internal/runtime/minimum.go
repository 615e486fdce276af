package runtime

import (
	"fmt"

	"github.com/aretw0/remap/pkg/domain"
)

// Minimum returns the smallest start in ranges.
// Ranges leaving the evaluator already carry their translated position as start,
// so this is the smallest reachable output value. Empty ranges are ignored.
func Minimum(ranges []domain.Range) (int64, error) {
	found := false
	var best int64
	for _, r := range ranges {
		if r.IsEmpty() {
			continue
		}
		start := r.Translate().Start
		if !found || start < best {
			best = start
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no ranges reached the terminal domain", domain.ErrEmptyResult)
	}
	return best, nil
}

// MinimumScalar locates every point one stage at a time and returns the smallest result.
// It is the reference the interval path is checked against.
func MinimumScalar(p *domain.Pipeline, points []int64) (int64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no points given", domain.ErrEmptyResult)
	}
	var best int64
	for i, point := range points {
		v, err := p.Locate(point)
		if err != nil {
			return 0, err
		}
		if i == 0 || v < best {
			best = v
		}
	}
	return best, nil
}
