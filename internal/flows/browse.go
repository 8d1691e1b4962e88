package flows

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/jobflow/internal/presentation/tui"
	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/dsl"
	"github.com/aretw0/jobflow/pkg/registry"
)

// BrowseID identifies the job browsing flow.
const BrowseID = "browse"

// BrowseContext accumulates a job browsing session.
type BrowseContext struct {
	Jobs []string

	// Job and Action are set when the flow completes.
	Job    string
	Action Action

	Do  ActionFunc
	Out io.Writer
}

var browseFlow = buildBrowse()

// Browse returns the job browsing flow.
func Browse() *domain.Flow[*BrowseContext] { return browseFlow }

func buildBrowse() *domain.Flow[*BrowseContext] {
	b := dsl.New[*BrowseContext](BrowseID).Initial("entry")

	b.Add("entry").
		OnEnter("browse_entry").
		Go("has_jobs", "select_job").
		End("empty", domain.ExitCommand)

	b.Add("select_job").Root().
		SelectFunc("Select a job", jobOptions).
		OnSelect("choose_job").
		Go("job_selected", "select_action").
		End("esc", domain.ExitCommand)

	b.Add("select_action").
		Select("",
			domain.Option{Value: string(ActionBuild), Label: "Build"},
			domain.Option{Value: string(ActionStatus), Label: "Status"},
			domain.Option{Value: string(ActionWatch), Label: "Watch last build"},
			domain.Option{Value: string(ActionLogs), Label: "Show logs"},
			domain.Option{Value: string(ActionCancel), Label: "Cancel running build"},
			domain.Option{Value: "back", Label: "Back"},
		).
		Message(func(c *BrowseContext) string { return fmt.Sprintf("What do you want to do with %s?", c.Job) }).
		OnSelect("browse_action").
		End("build", domain.Complete).
		End("status", domain.Complete).
		Go("back", "select_job").
		Go("action_ok", "select_action").
		Go("action_error", "select_action").
		End("watch_cancelled", domain.Root).
		End("root", domain.Root).
		End("exit", domain.ExitCommand).
		Go("esc", "select_job")

	return b.MustBuild()
}

func jobOptions(c *BrowseContext) []domain.Option {
	opts := make([]domain.Option, len(c.Jobs))
	for i, j := range c.Jobs {
		opts[i] = domain.Option{Value: j, Label: j}
	}
	return opts
}

// BrowseHandlers returns the handlers of the browse flow.
func BrowseHandlers() *registry.Registry[*BrowseContext] {
	r := registry.New[*BrowseContext]()

	r.Register("browse_entry", func(_ context.Context, c *BrowseContext, _ any) (domain.EventID, error) {
		if len(c.Jobs) == 0 {
			tui.Warn(c.Out, "no jobs found")
			return "empty", nil
		}
		return "has_jobs", nil
	}, "has_jobs", "empty")

	r.Register("choose_job", func(_ context.Context, c *BrowseContext, input any) (domain.EventID, error) {
		c.Job = answer(input)
		c.Action = ""
		return "job_selected", nil
	}, "job_selected")

	r.Register("browse_action", func(ctx context.Context, c *BrowseContext, input any) (domain.EventID, error) {
		switch a := Action(answer(input)); a {
		case ActionBuild, ActionStatus:
			c.Action = a
			return domain.EventID(a), nil
		case ActionWatch, ActionLogs, ActionCancel:
			return runAction(ctx, c.Do, a, Target{Job: c.Job})
		}
		return "back", nil
	}, append([]domain.EventID{"build", "status", "back"}, outcomeEvents...)...)

	return r
}
