package domain

// Blueprint is a context-free description of a Flow, used for export and
// visualization. Dynamic prompt content is not evaluated.
type Blueprint struct {
	ID      string           `json:"id" yaml:"id"`
	Initial StateID          `json:"initial" yaml:"initial"`
	States  []StateBlueprint `json:"states" yaml:"states"`
}

// StateBlueprint describes one state.
type StateBlueprint struct {
	ID          StateID               `json:"id" yaml:"id"`
	Kind        string                `json:"kind" yaml:"kind"`
	Root        bool                  `json:"root,omitempty" yaml:"root,omitempty"`
	Message     string                `json:"message,omitempty" yaml:"message,omitempty"`
	OnEnter     string                `json:"on_enter,omitempty" yaml:"on_enter,omitempty"`
	OnSelect    string                `json:"on_select,omitempty" yaml:"on_select,omitempty"`
	Transitions []TransitionBlueprint `json:"transitions" yaml:"transitions"`
}

// TransitionBlueprint describes one transition.
type TransitionBlueprint struct {
	Event  EventID `json:"event" yaml:"event"`
	Target Target  `json:"target" yaml:"target"`
}

// KindRouter is the blueprint kind of states resolved by an OnEnter handler.
const KindRouter = "router"

// Blueprint describes the flow without evaluating context projections.
func (f *Flow[C]) Blueprint() Blueprint {
	bp := Blueprint{ID: f.ID, Initial: f.Initial}
	for _, id := range f.StateIDs() {
		s := f.States[id]
		sb := StateBlueprint{
			ID:       id,
			Root:     s.Root,
			OnEnter:  s.OnEnter,
			OnSelect: s.OnSelect,
		}
		switch {
		case s.IsRouter():
			sb.Kind = KindRouter
		case s.Prompt != nil:
			sb.Kind = string(s.Prompt.Kind)
			sb.Message = s.Prompt.Message
		}
		for _, e := range s.Events() {
			sb.Transitions = append(sb.Transitions, TransitionBlueprint{Event: e, Target: s.Transitions[e]})
		}
		bp.States = append(bp.States, sb)
	}
	return bp
}
