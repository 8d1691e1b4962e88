package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/jobflow/pkg/ports"
)

// DefaultFileName is the cache file created inside the base directory.
const DefaultFileName = "cache.json"

type document struct {
	Jobs        []string            `json:"jobs,omitempty"`
	JobsSavedAt time.Time           `json:"jobs_saved_at,omitempty"`
	Recent      []string            `json:"recent,omitempty"`
	Branches    map[string][]string `json:"branches,omitempty"`
}

// Store implements ports.CacheStore with a single JSON document on disk.
// Every write replaces the file atomically.
type Store struct {
	path  string
	ttl   time.Duration
	limit int
	now   func() time.Time
	mu    sync.Mutex
}

type Option func(*Store)

// WithJobsTTL makes LoadJobs ignore a job list older than ttl.
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

// WithClock overrides the time source used for the job list TTL.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store keeping its document in basePath.
// If basePath is empty, it defaults to ".jobflow".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = ".jobflow"
	}
	s := &Store{
		path:  filepath.Join(basePath, DefaultFileName),
		limit: ports.DefaultRecentLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the cache document.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) LoadJobs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 && s.now().Sub(doc.JobsSavedAt) > s.ttl {
		return []string{}, nil
	}
	return orEmpty(doc.Jobs), nil
}

func (s *Store) SaveJobs(_ context.Context, jobs []string) error {
	return s.update(func(doc *document) {
		doc.Jobs = append([]string(nil), jobs...)
		doc.JobsSavedAt = s.now()
	})
}

func (s *Store) LoadRecentJobs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return orEmpty(doc.Recent), nil
}

func (s *Store) TouchRecentJob(_ context.Context, job string) error {
	return s.update(func(doc *document) {
		doc.Recent = ports.TouchRecent(doc.Recent, job, s.limit)
	})
}

func (s *Store) LoadBranches(_ context.Context, job string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return orEmpty(doc.Branches[job]), nil
}

func (s *Store) SaveBranch(_ context.Context, job, branch string) error {
	return s.update(func(doc *document) {
		doc.Branches[job] = ports.AppendUnique(doc.Branches[job], branch)
	})
}

func (s *Store) RemoveBranch(_ context.Context, job, branch string) error {
	return s.update(func(doc *document) {
		left := ports.Without(doc.Branches[job], branch)
		if len(left) == 0 {
			delete(doc.Branches, job)
			return
		}
		doc.Branches[job] = left
	})
}

func (s *Store) read() (*document, error) {
	doc := &document{Branches: map[string][]string{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache file %s: %w", s.path, err)
	}
	if doc.Branches == nil {
		doc.Branches = map[string][]string{}
	}
	return doc, nil
}

func (s *Store) update(fn func(*document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	fn(doc)
	return s.write(doc)
}

// write persists the document atomically: temp file in the same directory,
// fsync, then rename over the destination.
func (s *Store) write(doc *document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename cannot replace an existing file on Windows.
	if _, err := os.Stat(s.path); err == nil {
		if err := os.Remove(s.path); err != nil {
			return fmt.Errorf("failed to remove existing cache file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file to cache file: %w", err)
	}
	return nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return append([]string(nil), list...)
}
