package runtime

import (
	"fmt"

	"github.com/aretw0/jobflow/pkg/domain"
)

// resolve looks the event up in the state's transition table.
// It returns either the next state id or a terminal outcome.
func (r *Runner[C]) resolve(id domain.StateID, state *domain.State[C], event domain.EventID) (domain.StateID, domain.Terminal, error) {
	target, ok := state.Transitions[event]
	if !ok {
		return "", "", &UnhandledEventError{Flow: r.flow.ID, StateID: id, Event: event}
	}
	if t, ok := target.Terminal(); ok {
		return "", t, nil
	}
	return target.StateID(), "", nil
}

// defaultEvent synthesizes an event for prompts without an OnSelect handler.
func defaultEvent(kind domain.PromptKind, value any) (domain.EventID, error) {
	switch kind {
	case domain.PromptConfirm:
		yes, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("confirm prompt answered with %T, want bool", value)
		}
		if yes {
			return domain.EventConfirmYes, nil
		}
		return domain.EventConfirmNo, nil
	case domain.PromptSelect:
		return domain.SelectEvent(fmt.Sprint(value)), nil
	}
	return "", fmt.Errorf("%s prompt requires an on_select handler", kind)
}
