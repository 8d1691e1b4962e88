package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/ports"
	"github.com/aretw0/jobflow/pkg/registry"
)

// Runner interprets a flow definition against a handler registry and a
// prompt adapter. It keeps no state between Run calls.
type Runner[C any] struct {
	flow     *domain.Flow[C]
	handlers *registry.Registry[C]
	prompts  ports.PromptAdapter
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a Runner.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WithLogger sets a custom structured logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// NewRunner creates a runner for one flow.
func NewRunner[C any](flow *domain.Flow[C], handlers *registry.Registry[C], prompts ports.PromptAdapter, opts ...Option) *Runner[C] {
	s := settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&s)
	}
	return &Runner[C]{
		flow:     flow,
		handlers: handlers,
		prompts:  prompts,
		logger:   s.logger.With("flow", flow.ID),
		hooks:    s.hooks,
	}
}

// Flow returns the definition the runner interprets.
func (r *Runner[C]) Flow() *domain.Flow[C] {
	return r.flow
}

// Run executes the flow from start (or the initial state) until a terminal
// outcome is reached. c is mutated in place by handlers.
//
// Errors from handlers and the prompt adapter are returned wrapped; the
// runner never retries and never rolls the context back.
func (r *Runner[C]) Run(ctx context.Context, c C, start ...domain.StateID) (domain.Result[C], error) {
	currentID := r.flow.Initial
	if len(start) > 0 && start[0] != "" {
		currentID = start[0]
	}

	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.Debug("run started", "state", currentID)

	for {
		state, ok := r.flow.State(currentID)
		if !ok {
			return domain.Result[C]{}, &UnknownStateError{Flow: r.flow.ID, StateID: currentID}
		}
		r.emitStateEnter(ctx, runID, currentID, state)

		event, err := r.step(ctx, logger, runID, currentID, state, c)
		if err != nil {
			return domain.Result[C]{}, err
		}

		next, terminal, err := r.resolve(currentID, state, event)
		if err != nil {
			return domain.Result[C]{}, err
		}
		if terminal != "" {
			logger.Debug("terminal", "state", currentID, "event", event, "terminal", terminal)
			r.emitTerminal(ctx, runID, currentID, terminal)
			return domain.Result[C]{Terminal: terminal, StateID: currentID, Context: c}, nil
		}

		logger.Debug("transition", "from", currentID, "event", event, "to", next)
		currentID = next
	}
}

// step produces the event for a single state, either through its router
// handler or by rendering its prompt.
func (r *Runner[C]) step(ctx context.Context, logger *slog.Logger, runID string, id domain.StateID, state *domain.State[C], c C) (domain.EventID, error) {
	switch {
	case state.OnEnter != "":
		return r.callHandler(ctx, logger, runID, id, state.OnEnter, c, nil)

	case state.Prompt != nil:
		value, err := r.render(ctx, state.Prompt, c)
		if err != nil {
			return "", fmt.Errorf("flow %s: prompt in state %s: %w", r.flow.ID, id, err)
		}
		if r.prompts.IsCancel(value) {
			logger.Debug("prompt cancelled", "state", id)
			return domain.EventCancel, nil
		}
		if state.OnSelect != "" {
			return r.callHandler(ctx, logger, runID, id, state.OnSelect, c, value)
		}
		return defaultEvent(state.Prompt.Kind, value)
	}

	return "", &MalformedDefinitionError{
		Flow:     r.flow.ID,
		Problems: []string{fmt.Sprintf("state %s has neither prompt nor on_enter", id)},
	}
}

func (r *Runner[C]) callHandler(ctx context.Context, logger *slog.Logger, runID string, id domain.StateID, name string, c C, input any) (domain.EventID, error) {
	started := time.Now()
	event, err := r.handlers.Call(ctx, name, c, input)
	r.emitHandler(ctx, runID, id, name, event, time.Since(started), err)
	if err != nil {
		logger.Debug("handler failed", "state", id, "handler", name, "error", err)
		return "", fmt.Errorf("flow %s: handler %s in state %s: %w", r.flow.ID, name, id, err)
	}
	logger.Debug("handler", "state", id, "handler", name, "event", event)
	return event, nil
}

func (r *Runner[C]) emitStateEnter(ctx context.Context, runID string, id domain.StateID, state *domain.State[C]) {
	if r.hooks.OnStateEnter == nil {
		return
	}
	kind := domain.KindRouter
	if state.Prompt != nil {
		kind = string(state.Prompt.Kind)
	}
	r.hooks.OnStateEnter(ctx, &domain.StateEvent{
		Timestamp: time.Now(),
		Flow:      r.flow.ID,
		RunID:     runID,
		StateID:   id,
		Kind:      kind,
	})
}

func (r *Runner[C]) emitHandler(ctx context.Context, runID string, id domain.StateID, name string, event domain.EventID, d time.Duration, err error) {
	if r.hooks.OnHandler == nil {
		return
	}
	r.hooks.OnHandler(ctx, &domain.HandlerEvent{
		Timestamp: time.Now(),
		Flow:      r.flow.ID,
		RunID:     runID,
		StateID:   id,
		Handler:   name,
		Event:     event,
		Duration:  d,
		Err:       err,
	})
}

func (r *Runner[C]) emitTerminal(ctx context.Context, runID string, id domain.StateID, t domain.Terminal) {
	if r.hooks.OnTerminal == nil {
		return
	}
	r.hooks.OnTerminal(ctx, &domain.TerminalEvent{
		Timestamp: time.Now(),
		Flow:      r.flow.ID,
		RunID:     runID,
		StateID:   id,
		Terminal:  t,
	})
}
