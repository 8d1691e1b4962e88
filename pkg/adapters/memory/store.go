package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aretw0/jobflow/pkg/ports"
)

const (
	keyJobs   = "jobs"
	keyRecent = "recent"
	keyBranch = "branches:"
)

// Store implements ports.CacheStore in memory.
// The job list expires after the configured TTL; recent jobs and branches
// live as long as the process. Safe for concurrent use.
type Store struct {
	cache  *gocache.Cache
	ttl    time.Duration
	limit  int
	update sync.Mutex
}

type Option func(*Store)

// WithJobsTTL sets how long the job list is kept. Zero keeps it forever.
func WithJobsTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithRecentLimit bounds the recent jobs list.
func WithRecentLimit(limit int) Option {
	return func(s *Store) {
		s.limit = limit
	}
}

// NewStore creates a new in-memory cache store.
func NewStore(opts ...Option) *Store {
	s := &Store{limit: ports.DefaultRecentLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = gocache.New(gocache.NoExpiration, 10*time.Minute)
	return s
}

func (s *Store) LoadJobs(_ context.Context) ([]string, error) {
	return s.list(keyJobs), nil
}

func (s *Store) SaveJobs(_ context.Context, jobs []string) error {
	ttl := gocache.NoExpiration
	if s.ttl > 0 {
		ttl = s.ttl
	}
	s.cache.Set(keyJobs, clone(jobs), ttl)
	return nil
}

func (s *Store) LoadRecentJobs(_ context.Context) ([]string, error) {
	return s.list(keyRecent), nil
}

func (s *Store) TouchRecentJob(_ context.Context, job string) error {
	s.modify(keyRecent, func(list []string) []string {
		return ports.TouchRecent(list, job, s.limit)
	})
	return nil
}

func (s *Store) LoadBranches(_ context.Context, job string) ([]string, error) {
	return s.list(keyBranch + job), nil
}

func (s *Store) SaveBranch(_ context.Context, job, branch string) error {
	s.modify(keyBranch+job, func(list []string) []string {
		return ports.AppendUnique(list, branch)
	})
	return nil
}

func (s *Store) RemoveBranch(_ context.Context, job, branch string) error {
	s.modify(keyBranch+job, func(list []string) []string {
		return ports.Without(list, branch)
	})
	return nil
}

func (s *Store) list(key string) []string {
	v, ok := s.cache.Get(key)
	if !ok {
		return []string{}
	}
	return clone(v.([]string))
}

// modify applies fn under a lock so concurrent read-modify-write cycles
// do not lose updates.
func (s *Store) modify(key string, fn func([]string) []string) {
	s.update.Lock()
	defer s.update.Unlock()
	s.cache.Set(key, fn(s.list(key)), gocache.NoExpiration)
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
