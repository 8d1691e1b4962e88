package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/jobflow/pkg/ports"
)

// Store implements ports.CacheStore using Redis, so several machines can
// share one job cache.
//
// Layout under the prefix: "jobs" and "recent" are lists, "branches:<job>"
// is a sorted set scored by insertion sequence ("seq:branches").
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	limit  int
}

type Option func(*Store)

// WithTTL sets the expiration of the cached job list.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithRecentLimit bounds the recent jobs list.
func WithRecentLimit(limit int) Option {
	return func(s *Store) {
		s.limit = limit
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "jobflow:",
		limit:  ports.DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) jobsKey() string { return s.prefix + "jobs" }
func (s *Store) recentKey() string { return s.prefix + "recent" }
func (s *Store) branchesKey(job string) string { return s.prefix + "branches:" + job }
func (s *Store) seqKey() string { return s.prefix + "seq:branches" }

func (s *Store) LoadJobs(ctx context.Context) ([]string, error) {
	jobs, err := s.client.LRange(ctx, s.jobsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs from redis: %w", err)
	}
	return jobs, nil
}

// SaveJobs replaces the job list in a single transaction.
func (s *Store) SaveJobs(ctx context.Context, jobs []string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.jobsKey())
	if len(jobs) > 0 {
		values := make([]any, len(jobs))
		for i, j := range jobs {
			values[i] = j
		}
		pipe.RPush(ctx, s.jobsKey(), values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.jobsKey(), s.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save jobs to redis: %w", err)
	}
	return nil
}

func (s *Store) LoadRecentJobs(ctx context.Context) ([]string, error) {
	recent, err := s.client.LRange(ctx, s.recentKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load recent jobs from redis: %w", err)
	}
	return recent, nil
}

func (s *Store) TouchRecentJob(ctx context.Context, job string) error {
	limit := s.limit
	if limit <= 0 {
		limit = ports.DefaultRecentLimit
	}
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, s.recentKey(), 0, job)
	pipe.LPush(ctx, s.recentKey(), job)
	pipe.LTrim(ctx, s.recentKey(), 0, int64(limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to touch recent job %s: %w", job, err)
	}
	return nil
}

func (s *Store) LoadBranches(ctx context.Context, job string) ([]string, error) {
	branches, err := s.client.ZRange(ctx, s.branchesKey(job), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load branches of %s: %w", job, err)
	}
	return branches, nil
}

// SaveBranch keeps the first insertion position of a branch: ZADD NX never
// rescores an existing member.
func (s *Store) SaveBranch(ctx context.Context, job, branch string) error {
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate branch sequence: %w", err)
	}
	err = s.client.ZAddNX(ctx, s.branchesKey(job), backend.Z{Score: float64(seq), Member: branch}).Err()
	if err != nil {
		return fmt.Errorf("failed to save branch %s of %s: %w", branch, job, err)
	}
	return nil
}

func (s *Store) RemoveBranch(ctx context.Context, job, branch string) error {
	if err := s.client.ZRem(ctx, s.branchesKey(job), branch).Err(); err != nil {
		return fmt.Errorf("failed to remove branch %s of %s: %w", branch, job, err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
