package domain

import (
	"context"
	"time"
)

// StateEvent is emitted every time the runner enters a state.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Flow      string    `json:"flow"`
	RunID     string    `json:"run_id"`
	StateID   StateID   `json:"state_id"`
	Kind      string    `json:"kind"`
}

// HandlerEvent is emitted after a handler returns.
type HandlerEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Flow      string        `json:"flow"`
	RunID     string        `json:"run_id"`
	StateID   StateID       `json:"state_id"`
	Handler   string        `json:"handler"`
	Event     EventID       `json:"event,omitempty"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// TerminalEvent is emitted when a run stops on a terminal outcome.
type TerminalEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Flow      string    `json:"flow"`
	RunID     string    `json:"run_id"`
	StateID   StateID   `json:"state_id"`
	Terminal  Terminal  `json:"terminal"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStateEnter func(context.Context, *StateEvent)
	OnHandler    func(context.Context, *HandlerEvent)
	OnTerminal   func(context.Context, *TerminalEvent)
}

// Merge combines hooks so that both are invoked, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStateEnter: chain(h.OnStateEnter, other.OnStateEnter),
		OnHandler:    chain(h.OnHandler, other.OnHandler),
		OnTerminal:   chain(h.OnTerminal, other.OnTerminal),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
