package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/presentation/tui"
	"github.com/aretw0/jobflow/internal/runtime"
	"github.com/aretw0/jobflow/internal/search"
	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/ports"
	"github.com/aretw0/jobflow/pkg/registry"
)

// Session holds the collaborators shared by the interactive commands.
// A Session runs one command at a time.
type Session struct {
	Server     Server
	Cache      ports.CacheStore
	Prompts    ports.PromptAdapter
	Out        io.Writer
	Logger     *slog.Logger
	Hooks      domain.LifecycleHooks
	Interrupts Interceptor
	Render     func(string) string

	jobs []string
}

// UnexpectedTerminalError is returned when a flow ends on an outcome its
// host command does not handle.
type UnexpectedTerminalError struct {
	Flow     string
	Terminal domain.Terminal
}

func (e *UnexpectedTerminalError) Error() string {
	return fmt.Sprintf("flow %s ended with unexpected outcome %s", e.Flow, e.Terminal)
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Session) actions() *Actions {
	return &Actions{
		Server:     s.Server,
		Out:        s.Out,
		Interrupts: s.Interrupts,
		Render:     s.Render,
		Logger:     s.logger(),
	}
}

func newRunner[C any](s *Session, flow *domain.Flow[C], handlers *registry.Registry[C]) *runtime.Runner[C] {
	return runtime.NewRunner(flow, handlers, s.Prompts,
		runtime.WithLogger(s.logger()),
		runtime.WithLifecycleHooks(s.Hooks),
	)
}

// drive runs the flow and keeps resuming it at its first root state while
// it ends on root. onRoot runs before each resume.
func drive[C any](ctx context.Context, r *runtime.Runner[C], c C, onRoot func(context.Context) error) (domain.Result[C], error) {
	var start domain.StateID
	for {
		res, err := r.Run(ctx, c, start)
		if err != nil {
			return res, err
		}
		if res.Terminal != domain.Root {
			return res, nil
		}
		root := firstRoot(r.Flow())
		if root == "" {
			return res, &UnexpectedTerminalError{Flow: r.Flow().ID, Terminal: res.Terminal}
		}
		if onRoot != nil {
			if err := onRoot(ctx); err != nil {
				return res, err
			}
		}
		start = root
	}
}

// Jobs lists the server's jobs once per session and refreshes the cache.
// When the server is unreachable the cached list is used.
func (s *Session) Jobs(ctx context.Context) ([]string, error) {
	if s.jobs != nil {
		return s.jobs, nil
	}

	jobs, err := s.Server.ListJobs(ctx)
	if err != nil {
		if ctx.Err() != nil || s.Cache == nil {
			return nil, err
		}
		cached, cerr := s.Cache.LoadJobs(ctx)
		if cerr != nil || len(cached) == 0 {
			return nil, err
		}
		tui.Warn(s.Out, "using cached job list: %v", err)
		s.jobs = cached
		return cached, nil
	}

	if s.Cache != nil {
		if err := s.Cache.SaveJobs(ctx, jobs); err != nil {
			s.logger().Warn("failed to cache job list", "error", err)
		}
	}
	s.jobs = jobs
	return jobs, nil
}

// ResolveJob maps a job argument to a job name. Exact names win; otherwise
// the argument must fuzzy-match exactly one job.
func (s *Session) ResolveJob(ctx context.Context, arg string) (string, error) {
	jobs, err := s.Jobs(ctx)
	if err != nil {
		return "", err
	}
	for _, j := range jobs {
		if j == arg {
			return j, nil
		}
	}

	matches := search.Rank(arg, jobs)
	if job, ok := search.Unique(arg, matches); ok {
		return job, nil
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no job matches %q: %w", arg, domain.ErrNotFound)
	}
	names := search.Names(matches)
	if len(names) > 5 {
		names = append(names[:5], "...")
	}
	return "", fmt.Errorf("%q matches several jobs: %s", arg, strings.Join(names, ", "))
}

// Browse runs the job browser, dispatching to the build and status
// commands when the user picks one of them.
func (s *Session) Browse(ctx context.Context) error {
	jobs, err := s.Jobs(ctx)
	if err != nil {
		return err
	}

	c := &flows.BrowseContext{Jobs: jobs, Do: s.actions().Do, Out: s.Out}
	r := newRunner(s, flows.Browse(), flows.BrowseHandlers())
	root := firstRoot(r.Flow())

	var start domain.StateID
	for {
		res, err := r.Run(ctx, c, start)
		if err != nil {
			return err
		}

		switch res.Terminal {
		case domain.ExitCommand:
			return nil
		case domain.Root:
			start = root
			continue
		case domain.Repeat:
			c.Job, c.Action = "", ""
			start = ""
			continue
		case domain.Complete:
		default:
			return &UnexpectedTerminalError{Flow: flows.BrowseID, Terminal: res.Terminal}
		}

		var nested domain.Terminal
		switch c.Action {
		case flows.ActionBuild:
			nested, err = s.build(ctx, c.Job, true)
		case flows.ActionStatus:
			nested, err = s.status(ctx, c.Job, true)
		default:
			return fmt.Errorf("browse completed without an action for %s", c.Job)
		}
		if err != nil {
			return err
		}
		if nested == domain.ExitCommand {
			return nil
		}

		// return_to_caller and return_to_caller_root both land on the job list.
		c.Job, c.Action = "", ""
		start = root
	}
}

func firstRoot[C any](flow *domain.Flow[C]) domain.StateID {
	if roots := flow.Roots(); len(roots) > 0 {
		return roots[0]
	}
	return ""
}
