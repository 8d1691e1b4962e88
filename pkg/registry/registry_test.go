package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/registry"
)

type counter struct{ n int }

func TestRegistry_Call(t *testing.T) {
	reg := registry.New[*counter]()
	reg.Register("inc", func(ctx context.Context, c *counter, input any) (domain.EventID, error) {
		c.n++
		return "done", nil
	}, "done")

	c := &counter{}
	event, err := reg.Call(context.Background(), "inc", c, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EventID("done"), event)
	assert.Equal(t, 1, c.n)

	entry, ok := reg.Lookup("inc")
	require.True(t, ok)
	assert.Equal(t, []domain.EventID{"done"}, entry.Emits)
}

func TestRegistry_UnknownHandler(t *testing.T) {
	reg := registry.New[*counter]()
	_, err := reg.Call(context.Background(), "missing", &counter{}, nil)
	assert.EqualError(t, err, "handler not found: missing")
}

func TestRegistry_ErrorPassthrough(t *testing.T) {
	boom := errors.New("boom")
	reg := registry.New[*counter]()
	reg.Register("fail", func(ctx context.Context, c *counter, input any) (domain.EventID, error) {
		return "", boom
	})

	_, err := reg.Call(context.Background(), "fail", &counter{}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_Names(t *testing.T) {
	reg := registry.New[*counter]()
	noop := func(ctx context.Context, c *counter, input any) (domain.EventID, error) { return "", nil }
	reg.Register("b", noop)
	reg.Register("a", noop)
	reg.Register("b", noop)

	assert.Equal(t, []string{"a", "b"}, reg.Names())
}
