package domain

import "sort"

// State is a node of a Flow. A state is either a router (OnEnter set, no
// prompt) or interactive (Prompt set, optional OnSelect handler).
type State[C any] struct {
	// Root marks a valid resumption point after a Root outcome.
	Root bool

	Prompt *Prompt[C]

	// OnEnter names the handler of a router state.
	OnEnter string
	// OnSelect names the handler that turns a prompt answer into an event.
	OnSelect string

	Transitions Transitions
}

// IsRouter reports whether the state resolves without user interaction.
func (s *State[C]) IsRouter() bool {
	return s.OnEnter != ""
}

// Events returns the transition keys in lexical order.
func (s *State[C]) Events() []EventID {
	events := make([]EventID, 0, len(s.Transitions))
	for e := range s.Transitions {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
	return events
}

// Flow is an immutable declarative state machine for one interaction.
type Flow[C any] struct {
	ID      string
	Initial StateID
	States  map[StateID]*State[C]

	// Order lists the states in declaration order. Optional.
	Order []StateID
}

// State looks up a state by id.
func (f *Flow[C]) State(id StateID) (*State[C], bool) {
	s, ok := f.States[id]
	return s, ok
}

// StateIDs returns every state id in lexical order.
func (f *Flow[C]) StateIDs() []StateID {
	ids := make([]StateID, 0, len(f.States))
	for id := range f.States {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Roots returns the root-flagged states in declaration order, or in lexical
// order when the flow carries no Order.
func (f *Flow[C]) Roots() []StateID {
	ids := f.Order
	if len(ids) == 0 {
		ids = f.StateIDs()
	}
	var roots []StateID
	for _, id := range ids {
		if s, ok := f.States[id]; ok && s.Root {
			roots = append(roots, id)
		}
	}
	return roots
}

// Result is what a flow run hands back to the host command.
type Result[C any] struct {
	Terminal Terminal
	StateID  StateID
	Context  C
}
