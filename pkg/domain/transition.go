package domain

// Target is the right-hand side of a transition: either a StateID of the
// same flow or a Terminal literal. The two sets are disjoint.
type Target string

// To targets a state.
func To(id StateID) Target { return Target(id) }

// End targets a terminal outcome.
func End(t Terminal) Target { return Target(t) }

// Terminal returns the terminal outcome if the target is one.
func (t Target) Terminal() (Terminal, bool) {
	if IsTerminal(string(t)) {
		return Terminal(t), true
	}
	return "", false
}

// StateID returns the target as a state identifier.
func (t Target) StateID() StateID { return StateID(t) }

// Transitions maps events to targets for a single state.
type Transitions map[EventID]Target
