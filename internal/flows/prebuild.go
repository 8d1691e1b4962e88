package flows

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/jobflow/internal/presentation/tui"
	"github.com/aretw0/jobflow/internal/search"
	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/dsl"
	"github.com/aretw0/jobflow/pkg/ports"
	"github.com/aretw0/jobflow/pkg/registry"
)

// PreBuildID identifies the flow collecting build inputs.
const PreBuildID = "pre_build"

// DefaultBranchParam is the build parameter carrying the branch.
const DefaultBranchParam = "BRANCH"

// Option values that are not job or branch names. Job names on the build
// server cannot contain ':'.
const (
	optSearch       = ":search"
	optBrowse       = ":browse"
	optNewBranch    = ":new"
	optRemoveBranch = ":remove"
	optStart        = ":start"
	optAddParam     = ":add"
	optClearParams  = ":clear"
)

// Param is a custom build parameter.
type Param struct {
	Name  string
	Value string
}

// PreBuildContext accumulates the inputs of a build.
type PreBuildContext struct {
	// Job may be preset by the caller to skip job selection.
	Job    string
	Branch string
	Params []Param

	// BranchParam names the parameter carrying Branch; DefaultBranchParam if empty.
	BranchParam string

	Recent   []string
	Jobs     []string
	Branches []string
	Results  []search.Match

	Cache ports.CacheStore
	Out   io.Writer

	pendingParam string
}

// Parameters returns the build parameters, branch first.
func (c *PreBuildContext) Parameters() map[string]string {
	params := make(map[string]string, len(c.Params)+1)
	if c.Branch != "" {
		params[c.branchParam()] = c.Branch
	}
	for _, p := range c.Params {
		params[p.Name] = p.Value
	}
	return params
}

func (c *PreBuildContext) branchParam() string {
	if c.BranchParam == "" {
		return DefaultBranchParam
	}
	return c.BranchParam
}

func (c *PreBuildContext) hasParam(name string) bool {
	if strings.EqualFold(name, c.branchParam()) {
		return true
	}
	for _, p := range c.Params {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

var preBuildFlow = buildPreBuild()

// PreBuild returns the flow collecting job, branch and parameters.
func PreBuild() *domain.Flow[*PreBuildContext] { return preBuildFlow }

func buildPreBuild() *domain.Flow[*PreBuildContext] {
	b := dsl.New[*PreBuildContext](PreBuildID).Initial("entry")

	b.Add("entry").
		OnEnter("pre_entry").
		Go("job_known", "branch_entry").
		Go("has_recent", "recent_menu").
		Go("no_recent", "search_prompt")

	b.Add("recent_menu").Root().
		SelectFunc("Recent jobs", recentOptions).
		OnSelect("pick_recent").
		Go("job_selected", "branch_entry").
		Go("search", "search_prompt").
		Go("browse", "job_list").
		Go("no_jobs", "recent_menu").
		End("esc", domain.ExitCommand)

	b.Add("search_prompt").
		Text("Search job", "name or part of it").
		OnSelect("run_search").
		Go("search:auto", "branch_entry").
		Go("search:results", "search_results").
		Go("search_retry", "search_prompt").
		Go("esc", "back")

	b.Add("search_results").
		SelectFunc("Matching jobs", resultOptions).
		OnSelect("pick_result").
		Go("job_selected", "branch_entry").
		Go("esc", "search_prompt")

	b.Add("job_list").
		SelectFunc("All jobs", allJobOptions).
		OnSelect("pick_job").
		Go("job_selected", "branch_entry").
		Go("esc", "back")

	b.Add("back").
		OnEnter("pre_back").
		Go("has_recent", "recent_menu").
		End("no_recent", domain.ExitCommand)

	b.Add("branch_entry").
		OnEnter("branch_entry").
		Go("has_branches", "branch_menu").
		Go("no_branches", "branch_input")

	b.Add("branch_menu").
		SelectFunc("Branch", branchOptions).
		Message(func(c *PreBuildContext) string { return fmt.Sprintf("Branch for %s", c.Job) }).
		OnSelect("pick_branch").
		Go("branch_selected", "params_menu").
		Go("new_branch", "branch_input").
		Go("remove_branch", "branch_remove").
		Go("esc", "back")

	b.Add("branch_remove").
		SelectFunc("Forget which branch?", cachedBranchOptions).
		OnSelect("remove_branch").
		Go("branch_removed", "branch_entry").
		Go("esc", "branch_menu")

	b.Add("branch_input").
		Text("Branch name", "main").
		OnSelect("set_branch").
		Go("branch_set", "params_menu").
		Go("branch_retry", "branch_input").
		Go("esc", "back")

	b.Add("params_menu").
		SelectFunc("Parameters", paramOptions).
		OnSelect("params_action").
		End("params_done", domain.Complete).
		Go("add_param", "param_name").
		Go("params_cleared", "params_menu").
		Go("esc", "branch_entry")

	b.Add("param_name").
		Text("Parameter name", "NAME").
		OnSelect("set_param_name").
		Go("param_named", "param_value").
		Go("param_name_retry", "param_name").
		Go("esc", "params_menu")

	b.Add("param_value").
		Text("Parameter value", "").
		Message(func(c *PreBuildContext) string { return fmt.Sprintf("Value for %s", c.pendingParam) }).
		OnSelect("set_param_value").
		Go("param_added", "params_menu").
		Go("esc", "params_menu")

	return b.MustBuild()
}

func recentOptions(c *PreBuildContext) []domain.Option {
	opts := make([]domain.Option, 0, len(c.Recent)+2)
	for _, j := range c.Recent {
		opts = append(opts, domain.Option{Value: j, Label: j})
	}
	return append(opts,
		domain.Option{Value: optSearch, Label: "Search jobs..."},
		domain.Option{Value: optBrowse, Label: "Browse all jobs..."},
	)
}

func resultOptions(c *PreBuildContext) []domain.Option {
	opts := make([]domain.Option, len(c.Results))
	for i, m := range c.Results {
		opts[i] = domain.Option{Value: m.Name, Label: m.Name}
	}
	return opts
}

func allJobOptions(c *PreBuildContext) []domain.Option {
	opts := make([]domain.Option, len(c.Jobs))
	for i, j := range c.Jobs {
		opts[i] = domain.Option{Value: j, Label: j}
	}
	return opts
}

func cachedBranchOptions(c *PreBuildContext) []domain.Option {
	opts := make([]domain.Option, len(c.Branches))
	for i, br := range c.Branches {
		opts[i] = domain.Option{Value: br, Label: br}
	}
	return opts
}

func branchOptions(c *PreBuildContext) []domain.Option {
	return append(cachedBranchOptions(c),
		domain.Option{Value: optNewBranch, Label: "New branch..."},
		domain.Option{Value: optRemoveBranch, Label: "Forget a branch..."},
	)
}

func paramOptions(c *PreBuildContext) []domain.Option {
	var summary []string
	if c.Branch != "" {
		summary = append(summary, c.branchParam()+"="+c.Branch)
	}
	for _, p := range c.Params {
		summary = append(summary, p.Name+"="+p.Value)
	}
	start := "Start build"
	if len(summary) > 0 {
		start += " (" + strings.Join(summary, ", ") + ")"
	}

	opts := []domain.Option{
		{Value: optStart, Label: start},
		{Value: optAddParam, Label: "Add parameter..."},
	}
	if len(c.Params) > 0 {
		opts = append(opts, domain.Option{Value: optClearParams, Label: "Clear parameters"})
	}
	return opts
}

// PreBuildHandlers returns the handlers of the pre-build flow.
func PreBuildHandlers() *registry.Registry[*PreBuildContext] {
	r := registry.New[*PreBuildContext]()

	r.Register("pre_entry", func(ctx context.Context, c *PreBuildContext, _ any) (domain.EventID, error) {
		if c.Job != "" {
			return "job_known", nil
		}
		if err := loadRecent(ctx, c); err != nil {
			return "", err
		}
		if len(c.Recent) > 0 {
			return "has_recent", nil
		}
		return "no_recent", nil
	}, "job_known", "has_recent", "no_recent")

	r.Register("pick_recent", func(ctx context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		switch v := answer(input); v {
		case optSearch:
			return "search", nil
		case optBrowse:
			if err := loadJobs(ctx, c); err != nil {
				return "", err
			}
			if len(c.Jobs) == 0 {
				tui.Warn(c.Out, "no jobs available")
				return "no_jobs", nil
			}
			return "browse", nil
		default:
			c.Job = v
			return "job_selected", nil
		}
	}, "job_selected", "search", "browse", "no_jobs")

	r.Register("run_search", func(ctx context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		query := strings.TrimSpace(answer(input))
		if query == "" {
			tui.Warn(c.Out, "search query is required")
			return "search_retry", nil
		}
		if err := loadJobs(ctx, c); err != nil {
			return "", err
		}
		matches := search.Rank(query, c.Jobs)
		if len(matches) == 0 {
			tui.Warn(c.Out, "no job matches %q", query)
			return "search_retry", nil
		}
		if job, ok := search.Unique(query, matches); ok {
			c.Job = job
			c.Results = nil
			return "search:auto", nil
		}
		c.Results = matches
		return "search:results", nil
	}, "search:auto", "search:results", "search_retry")

	r.Register("pick_result", func(_ context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		c.Job = answer(input)
		return "job_selected", nil
	}, "job_selected")

	r.Register("pick_job", func(_ context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		c.Job = answer(input)
		return "job_selected", nil
	}, "job_selected")

	r.Register("pre_back", func(ctx context.Context, c *PreBuildContext, _ any) (domain.EventID, error) {
		c.Job = ""
		if err := loadRecent(ctx, c); err != nil {
			return "", err
		}
		if len(c.Recent) > 0 {
			return "has_recent", nil
		}
		return "no_recent", nil
	}, "has_recent", "no_recent")

	r.Register("branch_entry", func(ctx context.Context, c *PreBuildContext, _ any) (domain.EventID, error) {
		if c.Cache != nil {
			branches, err := c.Cache.LoadBranches(ctx, c.Job)
			if err != nil {
				return "", fmt.Errorf("load branches of %s: %w", c.Job, err)
			}
			c.Branches = branches
		}
		if len(c.Branches) > 0 {
			return "has_branches", nil
		}
		return "no_branches", nil
	}, "has_branches", "no_branches")

	r.Register("pick_branch", func(_ context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		switch v := answer(input); v {
		case optNewBranch:
			return "new_branch", nil
		case optRemoveBranch:
			return "remove_branch", nil
		default:
			c.Branch = v
			return "branch_selected", nil
		}
	}, "branch_selected", "new_branch", "remove_branch")

	r.Register("remove_branch", func(ctx context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		branch := answer(input)
		if c.Cache != nil {
			if err := c.Cache.RemoveBranch(ctx, c.Job, branch); err != nil {
				return "", fmt.Errorf("remove branch %s of %s: %w", branch, c.Job, err)
			}
		}
		c.Branches = ports.Without(c.Branches, branch)
		if c.Branch == branch {
			c.Branch = ""
		}
		return "branch_removed", nil
	}, "branch_removed")

	r.Register("set_branch", func(ctx context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		branch := strings.TrimSpace(answer(input))
		if branch == "" {
			tui.Warn(c.Out, "branch is required")
			return "branch_retry", nil
		}
		if c.Cache != nil {
			if err := c.Cache.SaveBranch(ctx, c.Job, branch); err != nil {
				return "", fmt.Errorf("save branch %s of %s: %w", branch, c.Job, err)
			}
		}
		c.Branch = branch
		c.Branches = ports.AppendUnique(c.Branches, branch)
		return "branch_set", nil
	}, "branch_set", "branch_retry")

	r.Register("params_action", func(_ context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		switch answer(input) {
		case optAddParam:
			return "add_param", nil
		case optClearParams:
			c.Params = nil
			return "params_cleared", nil
		}
		return "params_done", nil
	}, "params_done", "add_param", "params_cleared")

	r.Register("set_param_name", func(_ context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		name := strings.TrimSpace(answer(input))
		if name == "" {
			tui.Warn(c.Out, "parameter name is required")
			return "param_name_retry", nil
		}
		if c.hasParam(name) {
			tui.Warn(c.Out, "parameter name already set")
			return "param_name_retry", nil
		}
		c.pendingParam = name
		return "param_named", nil
	}, "param_named", "param_name_retry")

	r.Register("set_param_value", func(_ context.Context, c *PreBuildContext, input any) (domain.EventID, error) {
		c.Params = append(c.Params, Param{Name: c.pendingParam, Value: answer(input)})
		c.pendingParam = ""
		return "param_added", nil
	}, "param_added")

	return r
}

func loadRecent(ctx context.Context, c *PreBuildContext) error {
	if c.Cache == nil {
		return nil
	}
	recent, err := c.Cache.LoadRecentJobs(ctx)
	if err != nil {
		return fmt.Errorf("load recent jobs: %w", err)
	}
	c.Recent = recent
	return nil
}

func loadJobs(ctx context.Context, c *PreBuildContext) error {
	if len(c.Jobs) > 0 || c.Cache == nil {
		return nil
	}
	jobs, err := c.Cache.LoadJobs(ctx)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	c.Jobs = jobs
	return nil
}
