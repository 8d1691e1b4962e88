package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/pkg/ports"
)

// CacheStoreContractTest runs a suite of tests to verify that a CacheStore
// implementation adheres to the defined interface contract.
// The store must start empty.
func CacheStoreContractTest(t *testing.T, store ports.CacheStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Empty Loads", func(t *testing.T) {
		jobs, err := store.LoadJobs(ctx)
		require.NoError(t, err)
		assert.Empty(t, jobs)

		recent, err := store.LoadRecentJobs(ctx)
		require.NoError(t, err)
		assert.Empty(t, recent)

		branches, err := store.LoadBranches(ctx, "unknown-job")
		require.NoError(t, err)
		assert.Empty(t, branches)
	})

	t.Run("Save and Load Jobs", func(t *testing.T) {
		require.NoError(t, store.SaveJobs(ctx, []string{"api", "web/main"}))
		jobs, err := store.LoadJobs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"api", "web/main"}, jobs)

		require.NoError(t, store.SaveJobs(ctx, []string{"worker"}))
		jobs, err = store.LoadJobs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"worker"}, jobs)
	})

	t.Run("Recent Jobs Ordering", func(t *testing.T) {
		require.NoError(t, store.TouchRecentJob(ctx, "api"))
		require.NoError(t, store.TouchRecentJob(ctx, "web"))
		require.NoError(t, store.TouchRecentJob(ctx, "api"))

		recent, err := store.LoadRecentJobs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"api", "web"}, recent)
	})

	t.Run("Branches", func(t *testing.T) {
		require.NoError(t, store.SaveBranch(ctx, "api", "main"))
		require.NoError(t, store.SaveBranch(ctx, "api", "feature/x"))
		require.NoError(t, store.SaveBranch(ctx, "api", "main"))
		require.NoError(t, store.SaveBranch(ctx, "web", "develop"))

		branches, err := store.LoadBranches(ctx, "api")
		require.NoError(t, err)
		assert.Equal(t, []string{"main", "feature/x"}, branches)

		require.NoError(t, store.RemoveBranch(ctx, "api", "main"))
		branches, err = store.LoadBranches(ctx, "api")
		require.NoError(t, err)
		assert.Equal(t, []string{"feature/x"}, branches)

		require.NoError(t, store.RemoveBranch(ctx, "api", "not-there"))

		other, err := store.LoadBranches(ctx, "web")
		require.NoError(t, err)
		assert.Equal(t, []string{"develop"}, other)
	})
}
