package scripted_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/pkg/adapters/scripted"
	"github.com/aretw0/jobflow/pkg/domain"
)

func TestAdapter_AnswersInOrder(t *testing.T) {
	ctx := context.Background()
	a := scripted.New("job-a", true, scripted.Cancel)

	v, err := a.Select(ctx, "Pick", []domain.Option{{Value: "job-a", Label: "A"}})
	require.NoError(t, err)
	assert.Equal(t, "job-a", v)

	v, err = a.Confirm(ctx, "Sure?", false)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = a.Text(ctx, "Name", "placeholder", "")
	require.NoError(t, err)
	assert.True(t, a.IsCancel(v))

	_, err = a.Select(ctx, "Again", nil)
	assert.ErrorIs(t, err, scripted.ErrExhausted)

	calls := a.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, domain.PromptConfirm, calls[1].Kind)
	assert.Equal(t, "placeholder", calls[2].Placeholder)
}

func TestAdapter_TypeMismatch(t *testing.T) {
	a := scripted.New("yes")
	_, err := a.Confirm(context.Background(), "Sure?", false)
	assert.Error(t, err)
}

func TestAdapter_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := scripted.New("x")
	_, err := a.Text(ctx, "Name", "", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, a.Remaining())
}
