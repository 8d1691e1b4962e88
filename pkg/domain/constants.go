package domain

import "strings"

// StateID identifies a state inside a Flow.
type StateID string

// EventID is produced by a handler, a default-event convention or a cancellation.
// It is looked up in the current state's transition table.
type EventID string

// Terminal is a reserved end-of-run outcome.
type Terminal string

const (
	// ExitCommand aborts the whole interactive session.
	ExitCommand Terminal = "exit_command"
	// ReturnToCaller bubbles the result up to an outer flow.
	ReturnToCaller Terminal = "return_to_caller"
	// ReturnToCallerRoot bubbles up and asks the outer flow to resume at its root.
	ReturnToCallerRoot Terminal = "return_to_caller_root"
	// Repeat asks the host to restart the same flow fresh.
	Repeat Terminal = "repeat"
	// Root asks the host to resume the same flow at one of its root states.
	Root Terminal = "root"
	// Complete means every required input is resolved.
	Complete Terminal = "complete"
)

var terminals = []Terminal{ExitCommand, ReturnToCaller, ReturnToCallerRoot, Repeat, Root, Complete}

// Terminals returns the closed set of terminal outcomes.
func Terminals() []Terminal {
	out := make([]Terminal, len(terminals))
	copy(out, terminals)
	return out
}

// IsTerminal reports whether s is one of the reserved terminal literals.
func IsTerminal(s string) bool {
	for _, t := range terminals {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Reserved events synthesized by the runner.
const (
	// EventCancel is produced when the prompt adapter reports a cancellation.
	EventCancel EventID = "esc"
	// EventConfirmYes is the default event of an affirmative confirm prompt.
	EventConfirmYes EventID = "confirm:yes"
	// EventConfirmNo is the default event of a negative confirm prompt.
	EventConfirmNo EventID = "confirm:no"

	// SelectEventPrefix prefixes the default event of a select prompt.
	SelectEventPrefix = "select:"
)

// SelectEvent returns the default event for a select prompt answered with value.
func SelectEvent(value string) EventID {
	return EventID(SelectEventPrefix + value)
}

// IsSelectEvent reports whether e follows the select default-event convention.
func IsSelectEvent(e EventID) bool {
	return strings.HasPrefix(string(e), SelectEventPrefix)
}
