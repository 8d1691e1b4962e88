package runtime

import (
	"fmt"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/registry"
)

// Validate checks a flow definition for structural soundness against the
// registry that will serve it. Every problem found is reported at once in a
// MalformedDefinitionError. A nil registry skips handler checks.
func Validate[C any](flow *domain.Flow[C], handlers *registry.Registry[C]) error {
	v := &validation[C]{flow: flow, handlers: handlers}

	if flow.Initial == "" {
		v.add("initial state is not set")
	} else if _, ok := flow.States[flow.Initial]; !ok {
		v.add("initial state %s does not exist", flow.Initial)
	}

	for _, id := range flow.StateIDs() {
		state := flow.States[id]
		if domain.IsTerminal(string(id)) {
			v.add("state id %s collides with a reserved terminal outcome", id)
		}
		if state == nil {
			v.add("state %s is nil", id)
			continue
		}

		v.checkTargets(id, state)

		switch {
		case state.OnEnter != "" && state.Prompt != nil:
			v.add("state %s has both prompt and on_enter", id)
		case state.OnEnter != "":
			if state.OnSelect != "" {
				v.add("router state %s cannot have on_select", id)
			}
			v.checkHandler(id, state, state.OnEnter)
		case state.Prompt != nil:
			v.checkPrompt(id, state)
		default:
			v.add("state %s has neither prompt nor on_enter", id)
		}
	}

	v.checkReachability()

	if len(v.problems) > 0 {
		return &MalformedDefinitionError{Flow: flow.ID, Problems: v.problems}
	}
	return nil
}

type validation[C any] struct {
	flow     *domain.Flow[C]
	handlers *registry.Registry[C]
	problems []string
}

func (v *validation[C]) add(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

// checkTargets verifies every target exists and that events spelled like a
// terminal literal lead to that very terminal.
func (v *validation[C]) checkTargets(id domain.StateID, state *domain.State[C]) {
	if len(state.Transitions) == 0 {
		v.add("state %s has no transitions", id)
	}
	for _, event := range state.Events() {
		target := state.Transitions[event]
		if event == "" {
			v.add("state %s has an empty event key", id)
		}
		if domain.IsTerminal(string(event)) && string(target) != string(event) {
			v.add("state %s maps reserved event %s to %s instead of the terminal of the same name", id, event, target)
		}
		if _, ok := target.Terminal(); ok {
			continue
		}
		if _, ok := v.flow.States[target.StateID()]; !ok {
			v.add("state %s: event %s targets unknown state %s", id, event, target)
		}
	}
}

// checkHandler verifies the handler exists and that every event it declares
// has a transition.
func (v *validation[C]) checkHandler(id domain.StateID, state *domain.State[C], name string) {
	if v.handlers == nil {
		return
	}
	entry, ok := v.handlers.Lookup(name)
	if !ok {
		v.add("state %s references unknown handler %s", id, name)
		return
	}
	if len(entry.Emits) == 0 {
		v.add("handler %s used by state %s declares no events", name, id)
	}
	for _, e := range entry.Emits {
		if _, ok := state.Transitions[e]; !ok {
			v.add("state %s does not handle event %s emitted by %s", id, e, name)
		}
	}
}

func (v *validation[C]) checkPrompt(id domain.StateID, state *domain.State[C]) {
	p := state.Prompt
	if _, ok := state.Transitions[domain.EventCancel]; !ok {
		v.add("prompt state %s has no %s transition", id, domain.EventCancel)
	}

	switch p.Kind {
	case domain.PromptSelect, domain.PromptConfirm, domain.PromptText:
	default:
		v.add("prompt state %s has unknown kind %q", id, p.Kind)
		return
	}

	if state.OnSelect != "" {
		v.checkHandler(id, state, state.OnSelect)
		return
	}

	switch p.Kind {
	case domain.PromptText:
		v.add("text prompt state %s requires on_select", id)
	case domain.PromptConfirm:
		for _, e := range []domain.EventID{domain.EventConfirmYes, domain.EventConfirmNo} {
			if _, ok := state.Transitions[e]; !ok {
				v.add("confirm state %s does not handle %s", id, e)
			}
		}
		for _, e := range state.Events() {
			if e != domain.EventConfirmYes && e != domain.EventConfirmNo && e != domain.EventCancel {
				v.add("confirm state %s without on_select uses non-default event %s", id, e)
			}
		}
	case domain.PromptSelect:
		for _, e := range state.Events() {
			if e != domain.EventCancel && !domain.IsSelectEvent(e) {
				v.add("select state %s without on_select uses non-default event %s", id, e)
			}
		}
		if p.OptionsFunc == nil {
			for _, o := range p.Options {
				if _, ok := state.Transitions[domain.SelectEvent(o.Value)]; !ok {
					v.add("select state %s does not handle option %s", id, o.Value)
				}
			}
		}
	}
}

// checkReachability reports states that cannot be reached from the initial
// state or any root state.
func (v *validation[C]) checkReachability() {
	seeds := append([]domain.StateID{v.flow.Initial}, v.flow.Roots()...)
	visited := make(map[domain.StateID]bool)
	queue := seeds

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		state, ok := v.flow.States[id]
		if !ok || state == nil {
			continue
		}
		visited[id] = true
		for _, target := range state.Transitions {
			if _, ok := target.Terminal(); ok {
				continue
			}
			if !visited[target.StateID()] {
				queue = append(queue, target.StateID())
			}
		}
	}

	for _, id := range v.flow.StateIDs() {
		if !visited[id] {
			v.add("state %s is unreachable", id)
		}
	}
}
