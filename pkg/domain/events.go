package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStageEnter EventType = "stage_enter"
	EventStageLeave EventType = "stage_leave"
	EventSplit      EventType = "split"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	QueryID   string    `json:"query_id"` // Correlates every event of one Evaluate call.
}

// StageEvent represents entry into or exit from a stage.
// On enter, Ranges is the size of the incoming worklist; on leave, the size of the outgoing one.
type StageEvent struct {
	EventBase
	StageID string `json:"stage_id"`
	Next    string `json:"next"`
	Ranges  int    `json:"ranges"`
}

// SplitEvent reports a range that was cut into more than one piece by a stage.
type SplitEvent struct {
	EventBase
	StageID string  `json:"stage_id"`
	Input   Range   `json:"input"`
	Pieces  []Range `json:"pieces"`
}

// LifecycleHooks defines optional trace callbacks for the evaluator.
// Nil callbacks are skipped, so the zero value disables tracing.
type LifecycleHooks struct {
	OnStageEnter func(context.Context, *StageEvent)
	OnStageLeave func(context.Context, *StageEvent)
	OnSplit      func(context.Context, *SplitEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStageEnter: chainStage(h.OnStageEnter, other.OnStageEnter),
		OnStageLeave: chainStage(h.OnStageLeave, other.OnStageLeave),
		OnSplit:      chainSplit(h.OnSplit, other.OnSplit),
	}
}

func chainStage(a, b func(context.Context, *StageEvent)) func(context.Context, *StageEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StageEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainSplit(a, b func(context.Context, *SplitEvent)) func(context.Context, *SplitEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *SplitEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
