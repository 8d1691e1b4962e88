package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/pkg/adapters/file"
	contract "github.com/aretw0/jobflow/pkg/ports/tests"
)

func TestFileStore_Contract(t *testing.T) {
	contract.CacheStoreContractTest(t, file.New(t.TempDir()))
}

func TestFileStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := file.New(dir)
	require.NoError(t, first.TouchRecentJob(ctx, "api"))
	require.NoError(t, first.SaveBranch(ctx, "api", "main"))

	second := file.New(dir)
	recent, err := second.LoadRecentJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, recent)

	branches, err := second.LoadBranches(ctx, "api")
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, branches)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, file.DefaultFileName, entries[0].Name())
}

func TestFileStore_JobsTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := file.New(t.TempDir(),
		file.WithJobsTTL(time.Hour),
		file.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	require.NoError(t, store.SaveJobs(ctx, []string{"api"}))
	jobs, err := store.LoadJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, jobs)

	now = now.Add(2 * time.Hour)
	jobs, err = store.LoadJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file.DefaultFileName), []byte("{not json"), 0644))

	_, err := file.New(dir).LoadRecentJobs(context.Background())
	assert.ErrorContains(t, err, "failed to unmarshal cache file")
}
