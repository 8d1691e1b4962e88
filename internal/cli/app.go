package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/jobflow/internal/buildserver"
	"github.com/aretw0/jobflow/internal/config"
	"github.com/aretw0/jobflow/internal/presentation/tui"
	"github.com/aretw0/jobflow/pkg/observability"
)

// Options are the command-line switches that shape a session.
type Options struct {
	Plain bool

	In  *os.File
	Out *os.File
}

// Open assembles a Session from the configuration. The returned close
// function releases the cache and the prompt reader and stops the metrics
// endpoint.
func Open(ctx *SignalContext, cfg *config.Config, logger *slog.Logger, opts Options) (*Session, func() error, error) {
	if err := cfg.RequireServer(); err != nil {
		return nil, nil, err
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	client, err := buildserver.New(cfg.Server.URL, cfg.Server.User, cfg.Server.Token,
		buildserver.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	cache, closeCache, err := OpenCache(cfg)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.LogHooks(logger)
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	if cfg.Metrics.Addr != "" {
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		hooks = hooks.Merge(metrics.Hooks())
		go func() {
			if err := metrics.Serve(metricsCtx, cfg.Metrics.Addr, logger); err != nil {
				logger.Warn("metrics endpoint stopped", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
	}

	s := &Session{
		Server:     client,
		Cache:      cache,
		Prompts:    NewPrompts(opts.In, opts.Out, opts.Plain),
		Out:        opts.Out,
		Logger:     logger,
		Hooks:      hooks,
		Interrupts: ctx,
		Render:     tui.NewRenderer(TerminalWidth(opts.Out)),
	}

	closer := func() error {
		stopMetrics()
		if c, ok := s.Prompts.(io.Closer); ok {
			c.Close()
		}
		return closeCache()
	}
	return s, closer, nil
}

// Exit maps a command error to the process outcome: interruptions and
// exit_command end quietly, everything else is reported.
func Exit(w io.Writer, err error) int {
	if err == nil || IsInterrupted(err) {
		return 0
	}
	tui.Warn(w, "%v", err)
	var missing *config.MissingKeyError
	if errors.As(err, &missing) {
		return 2
	}
	return 1
}
