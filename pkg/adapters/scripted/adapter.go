// Package scripted provides a PromptAdapter that answers from a queue.
// It is used to drive flows in tests and in non-interactive replays.
package scripted

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/ports"
)

// ErrExhausted is returned when a prompt is shown after every answer was consumed.
var ErrExhausted = errors.New("scripted adapter: no answers left")

// Cancel is the answer that simulates the user dismissing a prompt.
var Cancel = ports.Cancelled

// Call records one prompt shown through the adapter.
type Call struct {
	Kind        domain.PromptKind
	Message     string
	Options     []domain.Option
	Initial     any
	Placeholder string
}

// Adapter implements ports.PromptAdapter with queued answers.
// Safe for concurrent use.
type Adapter struct {
	mu      sync.Mutex
	answers []any
	calls   []Call
}

// New creates an adapter that returns answers in order.
// Select and Text answers must be strings, Confirm answers bools;
// Cancel is valid for any prompt.
func New(answers ...any) *Adapter {
	return &Adapter{answers: answers}
}

// Push queues more answers.
func (a *Adapter) Push(answers ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers = append(a.answers, answers...)
}

// Calls returns the prompts shown so far.
func (a *Adapter) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Call, len(a.calls))
	copy(out, a.calls)
	return out
}

// Remaining returns how many answers are still queued.
func (a *Adapter) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.answers)
}

func (a *Adapter) Select(ctx context.Context, message string, options []domain.Option) (any, error) {
	return a.next(ctx, Call{Kind: domain.PromptSelect, Message: message, Options: options})
}

func (a *Adapter) Confirm(ctx context.Context, message string, initial bool) (any, error) {
	return a.next(ctx, Call{Kind: domain.PromptConfirm, Message: message, Initial: initial})
}

func (a *Adapter) Text(ctx context.Context, message, placeholder, initial string) (any, error) {
	return a.next(ctx, Call{Kind: domain.PromptText, Message: message, Placeholder: placeholder, Initial: initial})
}

// IsCancel reports whether v is the Cancel answer.
func (a *Adapter) IsCancel(v any) bool {
	return ports.IsCancelled(v)
}

func (a *Adapter) next(ctx context.Context, call Call) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)

	if len(a.answers) == 0 {
		return nil, fmt.Errorf("%w (%s prompt %q)", ErrExhausted, call.Kind, call.Message)
	}
	answer := a.answers[0]
	a.answers = a.answers[1:]

	if ports.IsCancelled(answer) {
		return answer, nil
	}
	switch call.Kind {
	case domain.PromptConfirm:
		if _, ok := answer.(bool); !ok {
			return nil, fmt.Errorf("scripted adapter: confirm prompt %q got %T answer", call.Message, answer)
		}
	default:
		if _, ok := answer.(string); !ok {
			return nil, fmt.Errorf("scripted adapter: %s prompt %q got %T answer", call.Kind, call.Message, answer)
		}
	}
	return answer, nil
}
