package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/jobflow/pkg/domain"
)

// Metrics holds the flow collectors.
type Metrics struct {
	StateVisits     *prometheus.CounterVec
	Terminals       *prometheus.CounterVec
	HandlerDuration *prometheus.HistogramVec
	HandlerErrors   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		StateVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobflow_state_visits_total",
				Help: "Total number of state visits",
			},
			[]string{"flow", "state"},
		),
		Terminals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobflow_terminal_total",
				Help: "Flow runs by terminal outcome",
			},
			[]string{"flow", "outcome"},
		),
		HandlerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobflow_handler_duration_seconds",
				Help:    "Duration of handler executions",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"flow", "handler"},
		),
		HandlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobflow_handler_errors_total",
				Help: "Handler executions that returned an error",
			},
			[]string{"flow", "handler"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.StateVisits, m.Terminals, m.HandlerDuration, m.HandlerErrors)
	return m
}

// Hooks records every lifecycle event in the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.StateVisits.WithLabelValues(e.Flow, string(e.StateID)).Inc()
		},
		OnHandler: func(_ context.Context, e *domain.HandlerEvent) {
			m.HandlerDuration.WithLabelValues(e.Flow, e.Handler).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.HandlerErrors.WithLabelValues(e.Flow, e.Handler).Inc()
			}
		},
		OnTerminal: func(_ context.Context, e *domain.TerminalEvent) {
			m.Terminals.WithLabelValues(e.Flow, string(e.Terminal)).Inc()
		},
	}
}

// Handler exposes the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Debug("metrics server listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
