package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/jobflow/pkg/domain"
)

// LogHooks logs lifecycle events at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_enter",
				"flow", e.Flow,
				"run_id", e.RunID,
				"state", e.StateID,
				"kind", e.Kind,
			)
		},
		OnHandler: func(ctx context.Context, e *domain.HandlerEvent) {
			attrs := []any{
				"flow", e.Flow,
				"run_id", e.RunID,
				"state", e.StateID,
				"handler", e.Handler,
				"event", e.Event,
				"duration", e.Duration,
			}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			logger.DebugContext(ctx, "handler", attrs...)
		},
		OnTerminal: func(ctx context.Context, e *domain.TerminalEvent) {
			logger.DebugContext(ctx, "terminal",
				"flow", e.Flow,
				"run_id", e.RunID,
				"state", e.StateID,
				"terminal", e.Terminal,
			)
		},
	}
}
