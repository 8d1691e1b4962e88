package flows

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/dsl"
	"github.com/aretw0/jobflow/pkg/registry"
)

// PostStatusID identifies the follow-up flow after a status check.
const PostStatusID = "post_status"

// PostStatusContext describes the build whose status was shown.
type PostStatusContext struct {
	Job      string
	Build    int
	Building bool

	// ReturnToCaller makes finishing resume the caller at its root state.
	ReturnToCaller bool

	// Rebuild is set when the flow completes asking for a new build.
	Rebuild bool

	Do  ActionFunc
	Out io.Writer
}

var postStatusFlow = buildPostStatus()

// PostStatus returns the follow-up flow after a status check.
func PostStatus() *domain.Flow[*PostStatusContext] { return postStatusFlow }

func buildPostStatus() *domain.Flow[*PostStatusContext] {
	b := dsl.New[*PostStatusContext](PostStatusID).Initial("status_menu")

	b.Add("status_menu").Root().
		SelectFunc("", statusOptions).
		Message(func(c *PostStatusContext) string {
			return fmt.Sprintf("%s: what next?", Target{Job: c.Job, Build: c.Build})
		}).
		OnSelect("status_action").
		Go("done", "finish").
		End("rebuild", domain.Complete).
		Go("action_ok", "status_menu").
		Go("action_error", "status_menu").
		Go("watch_cancelled", "status_menu").
		End("root", domain.Root).
		End("exit", domain.ExitCommand).
		Go("esc", "finish")

	b.Add("finish").
		OnEnter("post_status_finish").
		End("return_root", domain.ReturnToCallerRoot).
		End("exit", domain.ExitCommand)

	return b.MustBuild()
}

func statusOptions(c *PostStatusContext) []domain.Option {
	var opts []domain.Option
	if c.Building {
		opts = append(opts,
			domain.Option{Value: string(ActionWatch), Label: "Watch build"},
			domain.Option{Value: string(ActionCancel), Label: "Cancel build"},
		)
	}
	return append(opts,
		domain.Option{Value: string(ActionLogs), Label: "Show logs"},
		domain.Option{Value: string(ActionRebuild), Label: "Rebuild"},
		domain.Option{Value: "done", Label: "Done"},
	)
}

// PostStatusHandlers returns the handlers of the post-status flow.
func PostStatusHandlers() *registry.Registry[*PostStatusContext] {
	r := registry.New[*PostStatusContext]()

	r.Register("status_action", func(ctx context.Context, c *PostStatusContext, input any) (domain.EventID, error) {
		switch a := Action(answer(input)); a {
		case ActionRebuild:
			c.Rebuild = true
			return "rebuild", nil
		case ActionWatch, ActionLogs, ActionCancel:
			return runAction(ctx, c.Do, a, Target{Job: c.Job, Build: c.Build})
		}
		return "done", nil
	}, append([]domain.EventID{"done", "rebuild"}, outcomeEvents...)...)

	r.Register("post_status_finish", func(_ context.Context, c *PostStatusContext, _ any) (domain.EventID, error) {
		if c.ReturnToCaller {
			return "return_root", nil
		}
		return "exit", nil
	}, "return_root", "exit")

	return r
}
