package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/pkg/adapters/redis"
	contract "github.com/aretw0/jobflow/pkg/ports/tests"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	contract.CacheStoreContractTest(t, store)
}

func TestRedisStore_JobsTTL(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.SaveJobs(ctx, []string{"api", "web"}))
	assert.Equal(t, time.Minute, mr.TTL("jobflow:jobs"))

	mr.FastForward(2 * time.Minute)

	jobs, err := store.LoadJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("team-a:"))
	ctx := context.Background()

	require.NoError(t, store.TouchRecentJob(ctx, "api"))
	assert.True(t, mr.Exists("team-a:recent"))
	assert.False(t, mr.Exists("jobflow:recent"))
}

func TestRedisStore_RecentLimit(t *testing.T) {
	store, _ := newStore(t, redis.WithRecentLimit(2))
	ctx := context.Background()

	for _, j := range []string{"a", "b", "c"} {
		require.NoError(t, store.TouchRecentJob(ctx, j))
	}
	recent, err := store.LoadRecentJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, recent)
}
