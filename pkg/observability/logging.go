package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/remap/pkg/domain"
)

// LoggingHooks logs every stage transition at Debug and every split at the given trace level.
func LoggingHooks(logger *slog.Logger, splitLevel slog.Level) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			logger.DebugContext(ctx, "stage_enter",
				"query_id", e.QueryID,
				"stage", e.StageID,
				"ranges", e.Ranges,
			)
		},
		OnStageLeave: func(ctx context.Context, e *domain.StageEvent) {
			logger.DebugContext(ctx, "stage_leave",
				"query_id", e.QueryID,
				"stage", e.StageID,
				"next", e.Next,
				"ranges", e.Ranges,
			)
		},
		OnSplit: func(ctx context.Context, e *domain.SplitEvent) {
			logger.Log(ctx, splitLevel, "split",
				"query_id", e.QueryID,
				"stage", e.StageID,
				"input", e.Input.String(),
				"pieces", len(e.Pieces),
			)
		},
	}
}
