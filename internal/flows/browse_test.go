package flows_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/runtime"
	"github.com/aretw0/jobflow/pkg/adapters/scripted"
	"github.com/aretw0/jobflow/pkg/domain"
)

func TestBrowse(t *testing.T) {
	t.Run("Watch Cancelled Returns To Root", func(t *testing.T) {
		rec := &recorder{outcome: flows.OutcomeWatchCancelled}
		c := &flows.BrowseContext{Jobs: []string{"U1"}, Do: rec.do}

		res, _ := run(t, flows.Browse(), flows.BrowseHandlers(), c, "U1", "watch")
		assert.Equal(t, domain.Root, res.Terminal)
		assert.Equal(t, "U1", c.Job)
		assert.Equal(t, []string{"watch"}, rec.calls)
		assert.Equal(t, flows.Target{Job: "U1"}, rec.targets[0])
	})

	t.Run("Build Completes With Action", func(t *testing.T) {
		c := &flows.BrowseContext{Jobs: []string{"api", "web"}}
		res, prompts := run(t, flows.Browse(), flows.BrowseHandlers(), c, "web", "build")

		assert.Equal(t, domain.Complete, res.Terminal)
		assert.Equal(t, "web", c.Job)
		assert.Equal(t, flows.ActionBuild, c.Action)

		calls := prompts.Calls()
		require.Len(t, calls, 2)
		assert.Len(t, calls[0].Options, 2)
		assert.Equal(t, "What do you want to do with web?", calls[1].Message)
	})

	t.Run("Status Completes With Action", func(t *testing.T) {
		c := &flows.BrowseContext{Jobs: []string{"api"}}
		res, _ := run(t, flows.Browse(), flows.BrowseHandlers(), c, "api", "status")
		assert.Equal(t, domain.Complete, res.Terminal)
		assert.Equal(t, flows.ActionStatus, c.Action)
	})

	t.Run("No Jobs Exits Without Prompting", func(t *testing.T) {
		var out bytes.Buffer
		c := &flows.BrowseContext{Out: &out}
		res, prompts := run(t, flows.Browse(), flows.BrowseHandlers(), c)

		assert.Equal(t, domain.ExitCommand, res.Terminal)
		assert.Empty(t, prompts.Calls())
		assert.Contains(t, out.String(), "no jobs found")
	})

	t.Run("Esc On Job Selection Exits", func(t *testing.T) {
		c := &flows.BrowseContext{Jobs: []string{"api"}}
		res, _ := run(t, flows.Browse(), flows.BrowseHandlers(), c, scripted.Cancel)
		assert.Equal(t, domain.ExitCommand, res.Terminal)
		assert.Equal(t, domain.StateID("select_job"), res.StateID)
	})

	t.Run("Actions Loop Back To Menu", func(t *testing.T) {
		rec := &recorder{outcome: flows.OutcomeOK}
		c := &flows.BrowseContext{Jobs: []string{"api", "web"}, Do: rec.do}
		res, _ := run(t, flows.Browse(), flows.BrowseHandlers(), c,
			"api", "logs", "cancel", "back", "web", scripted.Cancel, scripted.Cancel)

		assert.Equal(t, domain.ExitCommand, res.Terminal)
		assert.Equal(t, []string{"logs", "cancel"}, rec.calls)
		assert.Equal(t, "web", c.Job)
	})

	t.Run("Action Error Stays In Menu", func(t *testing.T) {
		rec := &recorder{outcome: flows.OutcomeError}
		c := &flows.BrowseContext{Jobs: []string{"api"}, Do: rec.do}
		res, prompts := run(t, flows.Browse(), flows.BrowseHandlers(), c, "api", "cancel", "status")

		assert.Equal(t, domain.Complete, res.Terminal)
		assert.Len(t, prompts.Calls(), 3)
	})

	t.Run("Exit Outcome", func(t *testing.T) {
		rec := &recorder{outcome: flows.OutcomeExit}
		c := &flows.BrowseContext{Jobs: []string{"api"}, Do: rec.do}
		res, _ := run(t, flows.Browse(), flows.BrowseHandlers(), c, "api", "watch")
		assert.Equal(t, domain.ExitCommand, res.Terminal)
	})
}

func TestBrowse_ResumeAtRoot(t *testing.T) {
	rec := &recorder{outcome: flows.OutcomeWatchCancelled}
	c := &flows.BrowseContext{Jobs: []string{"api", "web"}, Do: rec.do}
	runner := runtime.NewRunner(flows.Browse(), flows.BrowseHandlers(), scripted.New("api", "watch", "web", "build"))

	res, err := runner.Run(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, domain.Root, res.Terminal)

	roots := runner.Flow().Roots()
	require.Len(t, roots, 1)

	res, err = runner.Run(context.Background(), c, roots[0])
	require.NoError(t, err)
	assert.Equal(t, domain.Complete, res.Terminal)
	assert.Equal(t, "web", c.Job)
	assert.Equal(t, flows.ActionBuild, c.Action)
}
