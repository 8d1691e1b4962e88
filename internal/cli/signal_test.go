package cli

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalContext(t *testing.T) {
	t.Run("Signal Cancels Session", func(t *testing.T) {
		sc := newSignalContext(context.Background())
		go sc.loop(false)

		sc.sigCh <- syscall.SIGTERM

		select {
		case <-sc.Done():
		case <-time.After(time.Second):
			t.Fatal("context was not cancelled")
		}
		assert.Equal(t, syscall.SIGTERM, sc.Signal())
	})

	t.Run("Intercept Absorbs Interrupt", func(t *testing.T) {
		sc := newSignalContext(context.Background())
		defer sc.Cancel()
		go sc.loop(false)

		started := make(chan struct{})
		interrupted, err := func() (bool, error) {
			go func() {
				<-started
				sc.sigCh <- os.Interrupt
			}()
			return sc.Intercept(func(ctx context.Context) error {
				close(started)
				<-ctx.Done()
				return ctx.Err()
			})
		}()

		require.NoError(t, err)
		assert.True(t, interrupted)
		assert.NoError(t, sc.Err())
		assert.Nil(t, sc.Signal())
	})

	t.Run("Intercept Passes Errors", func(t *testing.T) {
		sc := newSignalContext(context.Background())
		defer sc.Cancel()

		boom := errors.New("boom")
		interrupted, err := sc.Intercept(func(context.Context) error { return boom })
		assert.False(t, interrupted)
		assert.ErrorIs(t, err, boom)
	})
}

func TestIsInterrupted(t *testing.T) {
	assert.True(t, IsInterrupted(context.Canceled))
	assert.False(t, IsInterrupted(errors.New("other")))
	assert.False(t, IsInterrupted(nil))
}
