package dsl

import "github.com/aretw0/jobflow/pkg/domain"

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder[C any] struct {
	id      domain.StateID
	state   domain.State[C]
	builder *Builder[C]
}

// Root marks the state as a resumption point.
func (s *StateBuilder[C]) Root() *StateBuilder[C] {
	s.state.Root = true
	return s
}

// Select makes the state a select prompt with static options.
func (s *StateBuilder[C]) Select(message string, options ...domain.Option) *StateBuilder[C] {
	return s.prompt(&domain.Prompt[C]{Kind: domain.PromptSelect, Message: message, Options: options})
}

// SelectFunc makes the state a select prompt whose options depend on the context.
func (s *StateBuilder[C]) SelectFunc(message string, options func(C) []domain.Option) *StateBuilder[C] {
	return s.prompt(&domain.Prompt[C]{Kind: domain.PromptSelect, Message: message, OptionsFunc: options})
}

// Confirm makes the state a yes/no prompt.
func (s *StateBuilder[C]) Confirm(message string, initial bool) *StateBuilder[C] {
	return s.prompt(&domain.Prompt[C]{Kind: domain.PromptConfirm, Message: message, Initial: initial})
}

// Text makes the state a free text prompt.
func (s *StateBuilder[C]) Text(message, placeholder string) *StateBuilder[C] {
	return s.prompt(&domain.Prompt[C]{Kind: domain.PromptText, Message: message, Placeholder: placeholder})
}

// Message computes the prompt message from the context.
// It must follow Select, Confirm or Text.
func (s *StateBuilder[C]) Message(fn func(C) string) *StateBuilder[C] {
	if s.state.Prompt == nil {
		s.builder.fail("state %s: Message requires a prompt", s.id)
		return s
	}
	s.state.Prompt.MessageFunc = fn
	return s
}

// InitialFunc computes the prompt's initial value from the context
// (a bool for confirm prompts, a string for text prompts).
func (s *StateBuilder[C]) InitialFunc(fn func(C) any) *StateBuilder[C] {
	if s.state.Prompt == nil {
		s.builder.fail("state %s: InitialFunc requires a prompt", s.id)
		return s
	}
	s.state.Prompt.InitialFunc = fn
	return s
}

// OnEnter makes the state a router resolved by the named handler.
func (s *StateBuilder[C]) OnEnter(handler string) *StateBuilder[C] {
	if s.state.Prompt != nil {
		s.builder.fail("state %s: cannot be both a prompt and a router", s.id)
	}
	s.state.OnEnter = handler
	return s
}

// OnSelect names the handler that turns the prompt answer into an event.
func (s *StateBuilder[C]) OnSelect(handler string) *StateBuilder[C] {
	s.state.OnSelect = handler
	return s
}

// Go adds a transition to another state.
func (s *StateBuilder[C]) Go(event domain.EventID, to domain.StateID) *StateBuilder[C] {
	return s.on(event, domain.To(to))
}

// End adds a transition to a terminal outcome.
func (s *StateBuilder[C]) End(event domain.EventID, t domain.Terminal) *StateBuilder[C] {
	return s.on(event, domain.End(t))
}

func (s *StateBuilder[C]) on(event domain.EventID, target domain.Target) *StateBuilder[C] {
	if _, dup := s.state.Transitions[event]; dup {
		s.builder.fail("state %s: event %s declared twice", s.id, event)
	}
	s.state.Transitions[event] = target
	return s
}

func (s *StateBuilder[C]) prompt(p *domain.Prompt[C]) *StateBuilder[C] {
	if s.state.OnEnter != "" {
		s.builder.fail("state %s: cannot be both a prompt and a router", s.id)
	}
	if s.state.Prompt != nil {
		s.builder.fail("state %s: prompt declared twice", s.id)
	}
	s.state.Prompt = p
	return s
}
