package flows

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/dsl"
	"github.com/aretw0/jobflow/pkg/registry"
)

// PostBuildID identifies the follow-up flow after a build was triggered.
const PostBuildID = "post_build"

// PostBuildContext describes the build that was just triggered.
type PostBuildContext struct {
	Job   string
	Build int

	// ReturnToCaller is set when the flow runs nested in another command;
	// finishing then hands control back instead of offering a repeat.
	ReturnToCaller bool

	Do  ActionFunc
	Out io.Writer
}

var postBuildFlow = buildPostBuild()

// PostBuild returns the follow-up flow after a build.
func PostBuild() *domain.Flow[*PostBuildContext] { return postBuildFlow }

func buildPostBuild() *domain.Flow[*PostBuildContext] {
	b := dsl.New[*PostBuildContext](PostBuildID).Initial("action_menu")

	b.Add("action_menu").
		Select("",
			domain.Option{Value: string(ActionWatch), Label: "Watch build"},
			domain.Option{Value: string(ActionLogs), Label: "Show logs"},
			domain.Option{Value: string(ActionCancel), Label: "Cancel build"},
			domain.Option{Value: "done", Label: "Done"},
		).
		Message(func(c *PostBuildContext) string {
			return fmt.Sprintf("%s started. What next?", Target{Job: c.Job, Build: c.Build})
		}).
		OnSelect("post_build_action").
		Go("done", "finish").
		Go("action_ok", "action_menu").
		Go("action_error", "action_menu").
		Go("watch_cancelled", "action_menu").
		End("root", domain.Root).
		End("exit", domain.ExitCommand).
		Go("esc", "finish")

	// finish is the resumption point after root so a nested run still
	// returns to its caller.
	b.Add("finish").Root().
		OnEnter("post_build_finish").
		Go("ask_repeat", "ask_repeat").
		End("return", domain.ReturnToCaller)

	b.Add("ask_repeat").Root().
		Confirm("Run another build?", false).
		End("confirm:yes", domain.Repeat).
		End("confirm:no", domain.ExitCommand).
		End("esc", domain.ExitCommand)

	return b.MustBuild()
}

// PostBuildHandlers returns the handlers of the post-build flow.
func PostBuildHandlers() *registry.Registry[*PostBuildContext] {
	r := registry.New[*PostBuildContext]()

	r.Register("post_build_action", func(ctx context.Context, c *PostBuildContext, input any) (domain.EventID, error) {
		switch a := Action(answer(input)); a {
		case ActionWatch, ActionLogs, ActionCancel:
			return runAction(ctx, c.Do, a, Target{Job: c.Job, Build: c.Build})
		}
		return "done", nil
	}, append([]domain.EventID{"done"}, outcomeEvents...)...)

	r.Register("post_build_finish", func(_ context.Context, c *PostBuildContext, _ any) (domain.EventID, error) {
		if c.ReturnToCaller {
			return "return", nil
		}
		return "ask_repeat", nil
	}, "ask_repeat", "return")

	return r
}
