package cli

import (
	"fmt"

	"github.com/aretw0/jobflow/internal/config"
	"github.com/aretw0/jobflow/pkg/adapters/file"
	"github.com/aretw0/jobflow/pkg/adapters/memory"
	"github.com/aretw0/jobflow/pkg/adapters/redis"
	"github.com/aretw0/jobflow/pkg/ports"
)

// OpenCache creates the configured cache store and its close function.
func OpenCache(cfg *config.Config) (ports.CacheStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Cache.Backend {
	case config.BackendFile:
		return file.New(cfg.Cache.Dir,
			file.WithJobsTTL(cfg.Cache.TTL),
			file.WithRecentLimit(cfg.Recent.Limit),
		), noop, nil
	case config.BackendRedis:
		store := redis.New(cfg.Cache.RedisAddr, "", 0,
			redis.WithTTL(cfg.Cache.TTL),
			redis.WithRecentLimit(cfg.Recent.Limit),
		)
		return store, store.Close, nil
	case config.BackendMemory:
		return memory.NewStore(
			memory.WithJobsTTL(cfg.Cache.TTL),
			memory.WithRecentLimit(cfg.Recent.Limit),
		), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}
