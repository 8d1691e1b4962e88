package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/aretw0/jobflow/internal/buildserver"
	"github.com/aretw0/jobflow/pkg/adapters/memory"
	"github.com/aretw0/jobflow/pkg/adapters/scripted"
	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/ports"
)

type triggerCall struct {
	Job    string
	Params map[string]string
}

// fakeServer is an in-memory build server.
type fakeServer struct {
	mu sync.Mutex

	jobs    []string
	listErr error
	builds  map[string]buildserver.Build
	log     string
	block   bool

	listed    int
	triggered []triggerCall
	cancelled []string
}

func newFakeServer(jobs ...string) *fakeServer {
	return &fakeServer{jobs: jobs, builds: map[string]buildserver.Build{}}
}

func (f *fakeServer) ListJobs(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.jobs...), nil
}

func (f *fakeServer) Trigger(_ context.Context, job string, params map[string]string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered = append(f.triggered, triggerCall{Job: job, Params: params})
	return len(f.triggered), nil
}

func (f *fakeServer) WaitForBuild(_ context.Context, queueID int) (int, error) {
	return 100 + queueID, nil
}

func (f *fakeServer) Build(_ context.Context, job string, number int) (buildserver.Build, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.builds[job]
	if !ok {
		return buildserver.Build{}, fmt.Errorf("build %s: %w", job, domain.ErrNotFound)
	}
	if number != 0 {
		b.Number = number
	}
	return b, nil
}

func (f *fakeServer) Cancel(_ context.Context, job string, number int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, fmt.Sprintf("%s #%d", job, number))
	return nil
}

func (f *fakeServer) Log(_ context.Context, job string, _ int, _ int64) (buildserver.LogChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return buildserver.LogChunk{Text: f.log, Next: int64(len(f.log)), More: f.builds[job].Building}, nil
}

func (f *fakeServer) StreamLog(ctx context.Context, _ string, _ int, w io.Writer) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	_, err := io.WriteString(w, f.log)
	return err
}

// fakeInterrupts simulates the user pressing Ctrl+C during every
// intercepted call when interrupt is set.
type fakeInterrupts struct {
	interrupt bool
}

func (f fakeInterrupts) Intercept(fn func(ctx context.Context) error) (bool, error) {
	if !f.interrupt {
		return false, fn(context.Background())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = fn(ctx)
	return true, nil
}

type harness struct {
	session *Session
	server  *fakeServer
	prompts *scripted.Adapter
	cache   ports.CacheStore
	out     *bytes.Buffer
}

func newHarness(t *testing.T, server *fakeServer, answers ...any) *harness {
	t.Helper()
	h := &harness{
		server:  server,
		prompts: scripted.New(answers...),
		cache:   memory.NewStore(),
		out:     &bytes.Buffer{},
	}
	h.session = &Session{
		Server:     server,
		Cache:      h.cache,
		Prompts:    h.prompts,
		Out:        h.out,
		Interrupts: fakeInterrupts{},
	}
	return h
}

func (h *harness) messages() []string {
	var out []string
	for _, c := range h.prompts.Calls() {
		out = append(out, c.Message)
	}
	return out
}
