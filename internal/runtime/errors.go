package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/jobflow/pkg/domain"
)

// MalformedDefinitionError lists every structural problem found in a flow.
type MalformedDefinitionError struct {
	Flow     string
	Problems []string
}

func (e *MalformedDefinitionError) Error() string {
	return fmt.Sprintf("flow '%s' is malformed:\n- %s", e.Flow, strings.Join(e.Problems, "\n- "))
}

// UnhandledEventError is returned when an event has no transition in the current state.
type UnhandledEventError struct {
	Flow    string
	StateID domain.StateID
	Event   domain.EventID
}

func (e *UnhandledEventError) Error() string {
	return fmt.Sprintf("flow '%s': unhandled event '%s' in state '%s'", e.Flow, e.Event, e.StateID)
}

// UnknownStateError is returned when the runner is pointed at a state that does not exist.
type UnknownStateError struct {
	Flow    string
	StateID domain.StateID
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("flow '%s': unknown state '%s'", e.Flow, e.StateID)
}
