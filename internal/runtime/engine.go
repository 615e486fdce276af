package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/remap/pkg/domain"
	"github.com/google/uuid"
)

// Engine drives worklists of ranges through a frozen Pipeline.
// It holds no per-query state, so a single Engine may serve concurrent queries.
type Engine struct {
	pipeline *domain.Pipeline
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers trace hooks. The zero value disables tracing.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine bound to the given pipeline.
func NewEngine(pipeline *domain.Pipeline, opts ...EngineOption) *Engine {
	e := &Engine{
		pipeline: pipeline,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pipeline returns the pipeline the engine evaluates.
func (e *Engine) Pipeline() *domain.Pipeline {
	return e.pipeline
}

// Evaluate pushes the seed ranges through every stage from start to terminal and
// returns the ranges of the terminal domain, offsets folded into their starts.
//
// Seeds that carry an offset are translated first; empty seeds are dropped and
// seeds that overflow int64 are rejected with domain.ErrMalformedInput.
// A next id with no stage aborts the query with domain.ErrMissingStage.
func (e *Engine) Evaluate(ctx context.Context, seeds []domain.Range) ([]domain.Range, error) {
	queryID := uuid.NewString()
	logger := e.logger.With("query_id", queryID)

	worklist := make([]domain.Range, 0, len(seeds))
	for i, s := range seeds {
		if s.IsEmpty() {
			continue
		}
		if !s.Translatable() {
			return nil, fmt.Errorf("%w: seed %d %s overflows", domain.ErrMalformedInput, i, s)
		}
		worklist = append(worklist, s.Translate())
	}

	for id := e.pipeline.Start(); id != e.pipeline.Terminal(); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stage, ok := e.pipeline.Stage(id)
		if !ok {
			logger.Error("stage lookup failed", "stage", id)
			return nil, fmt.Errorf("%w: %q", domain.ErrMissingStage, id)
		}

		e.fireStage(ctx, e.hooks.OnStageEnter, domain.EventStageEnter, queryID, stage, len(worklist))

		next := make([]domain.Range, 0, len(worklist))
		for _, r := range worklist {
			pieces := Partition(r, stage)
			if len(pieces) > 1 && e.hooks.OnSplit != nil {
				e.hooks.OnSplit(ctx, &domain.SplitEvent{
					EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSplit, QueryID: queryID},
					StageID:   stage.ID,
					Input:     r,
					Pieces:    append([]domain.Range(nil), pieces...),
				})
			}
			for _, p := range pieces {
				next = append(next, p.Translate())
			}
		}

		logger.Debug("stage evaluated", "stage", stage.ID, "next", stage.Next, "in", len(worklist), "out", len(next))
		e.fireStage(ctx, e.hooks.OnStageLeave, domain.EventStageLeave, queryID, stage, len(next))

		worklist = next
		id = stage.Next
	}

	return worklist, nil
}

// Minimum evaluates the seeds and returns the smallest reachable terminal value.
func (e *Engine) Minimum(ctx context.Context, seeds []domain.Range) (int64, error) {
	out, err := e.Evaluate(ctx, seeds)
	if err != nil {
		return 0, err
	}
	return Minimum(out)
}

func (e *Engine) fireStage(ctx context.Context, hook func(context.Context, *domain.StageEvent), typ domain.EventType, queryID string, stage domain.Stage, n int) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StageEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, QueryID: queryID},
		StageID:   stage.ID,
		Next:      stage.Next,
		Ranges:    n,
	})
}

// Evaluate runs a single query against p without tracing.
func Evaluate(ctx context.Context, p *domain.Pipeline, seeds []domain.Range) ([]domain.Range, error) {
	return NewEngine(p).Evaluate(ctx, seeds)
}
