package runtime

import (
	"fmt"
	"reflect"

	"github.com/aretw0/jobflow/pkg/domain"
)

// CheckProjections evaluates every prompt projection of the flow twice
// against c and reports any projection that is not a pure read of the
// context: results must not diverge and snapshot(c) must not change.
//
// It is meant for tests; snapshot should copy the fields projections read.
func CheckProjections[C any](flow *domain.Flow[C], c C, snapshot func(C) any) error {
	before := snapshot(c)

	for _, id := range flow.StateIDs() {
		state := flow.States[id]
		if state == nil || state.Prompt == nil || !state.Prompt.IsDynamic() {
			continue
		}
		p := state.Prompt

		if m1, m2 := p.ResolveMessage(c), p.ResolveMessage(c); m1 != m2 {
			return fmt.Errorf("state %s: message projection diverged: %q != %q", id, m1, m2)
		}
		if o1, o2 := p.ResolveOptions(c), p.ResolveOptions(c); !reflect.DeepEqual(o1, o2) {
			return fmt.Errorf("state %s: options projection diverged", id)
		}
		if i1, i2 := p.ResolveInitial(c), p.ResolveInitial(c); !reflect.DeepEqual(i1, i2) {
			return fmt.Errorf("state %s: initial projection diverged: %v != %v", id, i1, i2)
		}
		if after := snapshot(c); !reflect.DeepEqual(before, after) {
			return fmt.Errorf("state %s: projection mutated the context", id)
		}
	}
	return nil
}
