package flows

import (
	"context"
	"fmt"

	"github.com/aretw0/jobflow/pkg/domain"
)

// Action is a follow-up operation on a job or a build.
type Action string

const (
	ActionBuild   Action = "build"
	ActionStatus  Action = "status"
	ActionRebuild Action = "rebuild"
	ActionWatch   Action = "watch"
	ActionLogs    Action = "logs"
	ActionCancel  Action = "cancel"
)

// ActionOutcome is what the host reports after running an action.
// Handlers use it directly as the next event.
type ActionOutcome string

const (
	OutcomeOK             ActionOutcome = "action_ok"
	OutcomeWatchCancelled ActionOutcome = "watch_cancelled"
	OutcomeError          ActionOutcome = "action_error"
	OutcomeRoot           ActionOutcome = "root"
	OutcomeExit           ActionOutcome = "exit"
)

// Event returns the outcome as a flow event.
func (o ActionOutcome) Event() domain.EventID { return domain.EventID(o) }

// Target identifies what an action applies to. A zero Build means the
// job's last build.
type Target struct {
	Job   string
	Build int
}

func (t Target) String() string {
	if t.Build == 0 {
		return t.Job
	}
	return fmt.Sprintf("%s #%d", t.Job, t.Build)
}

// ActionFunc performs an action on behalf of a flow.
// A returned error aborts the flow; recoverable failures are reported as
// OutcomeError.
type ActionFunc func(ctx context.Context, action Action, target Target) (ActionOutcome, error)

// outcomeEvents lists every event an action-running handler may emit.
var outcomeEvents = []domain.EventID{
	OutcomeOK.Event(),
	OutcomeWatchCancelled.Event(),
	OutcomeError.Event(),
	OutcomeRoot.Event(),
	OutcomeExit.Event(),
}

func runAction(ctx context.Context, do ActionFunc, action Action, target Target) (domain.EventID, error) {
	if do == nil {
		return "", fmt.Errorf("no action callback for %s", action)
	}
	outcome, err := do(ctx, action, target)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", action, target, err)
	}
	return outcome.Event(), nil
}

func answer(input any) string {
	s, _ := input.(string)
	return s
}
