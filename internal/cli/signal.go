package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// SignalContext wraps a context that is cancelled on SIGINT or SIGTERM and
// remembers the signal that cancelled it.
//
// While Intercept runs, SIGINT only cancels the intercepted call.
type SignalContext struct {
	context.Context
	Cancel func()

	sigCh  chan os.Signal
	mu     sync.Mutex
	sigVal os.Signal
	detour func()
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) *SignalContext {
	sc := newSignalContext(parent)
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go sc.loop(true)
	return sc
}

func newSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	return &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
}

func (sc *SignalContext) loop(notify bool) {
	if notify {
		defer signal.Stop(sc.sigCh)
	}
	for {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			if sc.detour != nil && sig == os.Interrupt {
				sc.detour()
				sc.mu.Unlock()
				continue
			}
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
			return
		case <-sc.Done():
			return
		}
	}
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Intercept runs fn with a child context that an interrupt cancels without
// cancelling sc. It reports whether fn was interrupted; the cancellation
// error of an interrupted fn is swallowed.
func (sc *SignalContext) Intercept(fn func(ctx context.Context) error) (bool, error) {
	ctx, cancel := context.WithCancel(sc.Context)
	defer cancel()

	var hit atomic.Bool
	sc.mu.Lock()
	sc.detour = func() {
		hit.Store(true)
		cancel()
	}
	sc.mu.Unlock()
	defer func() {
		sc.mu.Lock()
		sc.detour = nil
		sc.mu.Unlock()
	}()

	err := fn(ctx)
	if hit.Load() && (err == nil || errors.Is(err, context.Canceled)) {
		return true, nil
	}
	return false, err
}

// Interceptor runs a call that the user may interrupt.
type Interceptor interface {
	Intercept(fn func(ctx context.Context) error) (bool, error)
}

// IsInterrupted reports whether err comes from a cancelled session.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
