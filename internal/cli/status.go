package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/presentation/tui"
	"github.com/aretw0/jobflow/pkg/domain"
)

// Status shows the last build of a job and offers follow-up actions.
// Without a job it falls back to the job browser.
func (s *Session) Status(ctx context.Context, arg string) error {
	if arg == "" {
		return s.Browse(ctx)
	}
	job, err := s.ResolveJob(ctx, arg)
	if err != nil {
		return err
	}
	_, err = s.status(ctx, job, false)
	return err
}

// status runs post_status for the last build of job. A rebuild triggers the
// job again with the same parameters and continues in post_build; repeating
// from there rebuilds once more.
func (s *Session) status(ctx context.Context, job string, nested bool) (domain.Terminal, error) {
	r := newRunner(s, flows.PostStatus(), flows.PostStatusHandlers())
	actions := s.actions()

	done := domain.ExitCommand
	if nested {
		done = domain.ReturnToCallerRoot
	}

	b, err := s.Server.Build(ctx, job, 0)
	if errors.Is(err, domain.ErrNotFound) {
		tui.Warn(s.Out, "%s has no builds yet", job)
		return done, nil
	}
	if err != nil {
		return "", fmt.Errorf("status of %s: %w", job, err)
	}
	actions.report(b)

	c := &flows.PostStatusContext{
		Job:            job,
		Build:          b.Number,
		Building:       b.Building,
		ReturnToCaller: nested,
		Do:             actions.Do,
		Out:            s.Out,
	}
	refresh := func(ctx context.Context) error {
		latest, err := s.Server.Build(ctx, job, c.Build)
		if err != nil {
			return fmt.Errorf("status of %s: %w", job, err)
		}
		actions.report(latest)
		c.Building = latest.Building
		return nil
	}

	res, err := drive(ctx, r, c, refresh)
	if err != nil {
		return "", err
	}
	switch res.Terminal {
	case domain.ExitCommand, domain.ReturnToCallerRoot:
		return res.Terminal, nil
	case domain.Complete:
	default:
		return "", &UnexpectedTerminalError{Flow: flows.PostStatusID, Terminal: res.Terminal}
	}

	terminal := domain.Repeat
	for terminal == domain.Repeat {
		if terminal, err = s.triggerAndFollow(ctx, job, b.Parameters, nested); err != nil {
			return "", err
		}
	}
	if terminal == domain.ReturnToCaller {
		return domain.ReturnToCallerRoot, nil
	}
	return terminal, nil
}
