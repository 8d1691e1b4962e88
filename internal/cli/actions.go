package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/jobflow/internal/buildserver"
	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/presentation/tui"
)

// Actions runs the side effects flows ask for through their action callback.
type Actions struct {
	Server     Server
	Out        io.Writer
	Interrupts Interceptor
	Render     func(string) string
	Logger     *slog.Logger
}

// Do implements flows.ActionFunc. Build server failures are reported to the
// user and turned into flows.OutcomeError; only a cancelled session aborts.
func (a *Actions) Do(ctx context.Context, action flows.Action, target flows.Target) (flows.ActionOutcome, error) {
	var (
		outcome flows.ActionOutcome
		err     error
	)
	switch action {
	case flows.ActionWatch:
		outcome, err = a.watch(ctx, target)
	case flows.ActionLogs:
		outcome, err = a.logs(ctx, target)
	case flows.ActionCancel:
		outcome, err = a.cancel(ctx, target)
	default:
		return "", fmt.Errorf("action %s is handled by the command, not the callback", action)
	}

	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		a.logger().Debug("action failed", "action", action, "target", target.String(), "error", err)
		tui.Warn(a.Out, "%s %s: %v", action, target, err)
		return flows.OutcomeError, nil
	}
	return outcome, nil
}

func (a *Actions) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func (a *Actions) resolve(ctx context.Context, target flows.Target) (buildserver.Build, error) {
	return a.Server.Build(ctx, target.Job, target.Build)
}

func (a *Actions) watch(ctx context.Context, target flows.Target) (flows.ActionOutcome, error) {
	b, err := a.resolve(ctx, target)
	if err != nil {
		return "", err
	}
	tui.Info(a.Out, "Watching %s #%d (Ctrl+C to stop)", b.Job, b.Number)

	stream := func(ctx context.Context) error {
		return a.Server.StreamLog(ctx, b.Job, b.Number, a.Out)
	}

	interrupted := false
	if a.Interrupts != nil {
		interrupted, err = a.Interrupts.Intercept(stream)
	} else {
		err = stream(ctx)
	}
	if err != nil {
		return "", err
	}
	if interrupted {
		tui.Warn(a.Out, "stopped watching %s #%d", b.Job, b.Number)
		return flows.OutcomeWatchCancelled, nil
	}

	final, err := a.Server.Build(ctx, b.Job, b.Number)
	if err != nil {
		return "", err
	}
	a.report(final)
	return flows.OutcomeOK, nil
}

func (a *Actions) logs(ctx context.Context, target flows.Target) (flows.ActionOutcome, error) {
	b, err := a.resolve(ctx, target)
	if err != nil {
		return "", err
	}
	chunk, err := a.Server.Log(ctx, b.Job, b.Number, 0)
	if err != nil {
		return "", err
	}
	if a.Out != nil {
		io.WriteString(a.Out, chunk.Text)
		if chunk.Text != "" && !strings.HasSuffix(chunk.Text, "\n") {
			io.WriteString(a.Out, "\n")
		}
	}
	if chunk.More {
		tui.Info(a.Out, "%s #%d is still running; choose watch to follow it", b.Job, b.Number)
	}
	return flows.OutcomeOK, nil
}

func (a *Actions) cancel(ctx context.Context, target flows.Target) (flows.ActionOutcome, error) {
	b, err := a.resolve(ctx, target)
	if err != nil {
		return "", err
	}
	if !b.Building {
		tui.Warn(a.Out, "%s #%d is not running (%s)", b.Job, b.Number, b.Status())
		return flows.OutcomeOK, nil
	}
	if err := a.Server.Cancel(ctx, b.Job, b.Number); err != nil {
		return "", err
	}
	tui.Success(a.Out, "cancel requested for %s #%d", b.Job, b.Number)
	return flows.OutcomeOK, nil
}

func (a *Actions) report(b buildserver.Build) {
	if a.Out == nil {
		return
	}
	md := StatusReport(b)
	if a.Render != nil {
		md = a.Render(md)
	}
	fmt.Fprintln(a.Out, strings.TrimRight(md, "\n"))
}
