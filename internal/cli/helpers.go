package cli

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/remap/internal/logging"
	"github.com/aretw0/remap/pkg/domain"
)

// CreateLogger configures the application logger on stderr.
// Trace forces Debug so stage transitions show up; an unknown level falls back to Info.
func CreateLogger(level string, trace bool) *slog.Logger {
	if trace {
		return logging.New(slog.LevelDebug)
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

// VisitCounter counts the ranges entering each stage across queries.
type VisitCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewVisitCounter returns an empty counter.
func NewVisitCounter() *VisitCounter {
	return &VisitCounter{counts: make(map[string]int)}
}

// Hooks returns lifecycle hooks feeding the counter.
func (v *VisitCounter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(_ context.Context, e *domain.StageEvent) {
			v.mu.Lock()
			v.counts[e.StageID] += e.Ranges
			v.mu.Unlock()
		},
	}
}

// Counts returns a copy of the counts.
func (v *VisitCounter) Counts() map[string]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]int, len(v.counts))
	for k, n := range v.counts {
		out[k] = n
	}
	return out
}
