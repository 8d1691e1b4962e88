package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/jobflow/pkg/domain"
)

// Builder manages the flow construction.
type Builder[C any] struct {
	id      string
	initial domain.StateID
	order   []domain.StateID
	states  map[domain.StateID]*StateBuilder[C]
	errs    []error
}

// New creates a new flow builder.
func New[C any](id string) *Builder[C] {
	return &Builder[C]{
		id:     id,
		states: make(map[domain.StateID]*StateBuilder[C]),
	}
}

// Initial sets the state a run starts from when no start state is given.
func (b *Builder[C]) Initial(id domain.StateID) *Builder[C] {
	b.initial = id
	return b
}

// Add creates a new state in the flow.
// If the state already exists, it returns the existing builder.
func (b *Builder[C]) Add(id domain.StateID) *StateBuilder[C] {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder[C]{
		id:      id,
		builder: b,
		state:   domain.State[C]{Transitions: make(domain.Transitions)},
	}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build compiles the states into an immutable flow definition.
func (b *Builder[C]) Build() (*domain.Flow[C], error) {
	errs := append([]error(nil), b.errs...)
	if b.id == "" {
		errs = append(errs, errors.New("flow id is required"))
	}
	if b.initial == "" {
		errs = append(errs, fmt.Errorf("flow %s: initial state is required", b.id))
	} else if _, ok := b.states[b.initial]; !ok {
		errs = append(errs, fmt.Errorf("flow %s: initial state %s was never added", b.id, b.initial))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	flow := &domain.Flow[C]{
		ID:      b.id,
		Initial: b.initial,
		States:  make(map[domain.StateID]*domain.State[C], len(b.states)),
		Order:   append([]domain.StateID(nil), b.order...),
	}
	for _, id := range b.order {
		state := b.states[id].state
		transitions := make(domain.Transitions, len(state.Transitions))
		for e, t := range state.Transitions {
			transitions[e] = t
		}
		state.Transitions = transitions
		flow.States[id] = &state
	}
	return flow, nil
}

// MustBuild is like Build but panics on error.
// It is meant for package-level flow definitions.
func (b *Builder[C]) MustBuild() *domain.Flow[C] {
	flow, err := b.Build()
	if err != nil {
		panic(err)
	}
	return flow
}

func (b *Builder[C]) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("flow %s: "+format, append([]any{b.id}, args...)...))
}
