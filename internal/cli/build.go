package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/presentation/tui"
	"github.com/aretw0/jobflow/pkg/domain"
)

// Build collects the inputs of a build, triggers it and offers follow-up
// actions until the user is done. arg may be empty or a partial job name.
func (s *Session) Build(ctx context.Context, arg string) error {
	job := ""
	if arg != "" {
		var err error
		if job, err = s.ResolveJob(ctx, arg); err != nil {
			return err
		}
	}
	_, err := s.build(ctx, job, false)
	return err
}

// build runs pre_build then post_build. Nested runs end on return_to_caller
// instead of offering a repeat.
func (s *Session) build(ctx context.Context, job string, nested bool) (domain.Terminal, error) {
	pre := newRunner(s, flows.PreBuild(), flows.PreBuildHandlers())

	for {
		jobs, err := s.Jobs(ctx)
		if err != nil {
			return "", err
		}
		pc := &flows.PreBuildContext{Job: job, Jobs: jobs, Cache: s.Cache, Out: s.Out}

		res, err := drive(ctx, pre, pc, nil)
		if err != nil {
			return "", err
		}
		switch res.Terminal {
		case domain.Complete:
		case domain.ExitCommand:
			return domain.ExitCommand, nil
		default:
			return "", &UnexpectedTerminalError{Flow: flows.PreBuildID, Terminal: res.Terminal}
		}

		terminal, err := s.triggerAndFollow(ctx, pc.Job, pc.Parameters(), nested)
		if err != nil {
			return "", err
		}
		if terminal != domain.Repeat {
			return terminal, nil
		}
	}
}

// triggerAndFollow starts a build and runs post_build for it. It returns
// repeat, exit_command or return_to_caller.
func (s *Session) triggerAndFollow(ctx context.Context, job string, params map[string]string, nested bool) (domain.Terminal, error) {
	number, err := s.trigger(ctx, job, params)
	if err != nil {
		return "", err
	}

	bc := &flows.PostBuildContext{
		Job:            job,
		Build:          number,
		ReturnToCaller: nested,
		Do:             s.actions().Do,
		Out:            s.Out,
	}
	r := newRunner(s, flows.PostBuild(), flows.PostBuildHandlers())
	res, err := drive(ctx, r, bc, nil)
	if err != nil {
		return "", err
	}
	switch res.Terminal {
	case domain.Repeat, domain.ExitCommand, domain.ReturnToCaller:
		return res.Terminal, nil
	}
	return "", &UnexpectedTerminalError{Flow: flows.PostBuildID, Terminal: res.Terminal}
}

func (s *Session) trigger(ctx context.Context, job string, params map[string]string) (int, error) {
	if s.Cache != nil {
		if err := s.Cache.TouchRecentJob(ctx, job); err != nil {
			s.logger().Warn("failed to remember recent job", "job", job, "error", err)
		}
	}

	queueID, err := s.Server.Trigger(ctx, job, params)
	if err != nil {
		return 0, fmt.Errorf("trigger %s: %w", job, err)
	}
	tui.Info(s.Out, "%s queued", job)
	s.logger().Debug("build queued", "job", job, "queue_id", queueID, "params", len(params))

	number, err := s.Server.WaitForBuild(ctx, queueID)
	if err != nil {
		return 0, fmt.Errorf("wait for %s: %w", job, err)
	}
	tui.Success(s.Out, "%s #%d started", job, number)
	return number, nil
}
