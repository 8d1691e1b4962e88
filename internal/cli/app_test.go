package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/internal/buildserver"
	"github.com/aretw0/jobflow/internal/config"
	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/logging"
	"github.com/aretw0/jobflow/pkg/adapters/file"
	"github.com/aretw0/jobflow/pkg/adapters/memory"
	"github.com/aretw0/jobflow/pkg/adapters/redis"
	"github.com/aretw0/jobflow/pkg/adapters/text"
)

func TestOpenCache(t *testing.T) {
	base := &config.Config{Recent: config.RecentConfig{Limit: 5}}

	t.Run("File", func(t *testing.T) {
		cfg := *base
		cfg.Cache = config.CacheConfig{Backend: config.BackendFile, Dir: t.TempDir(), TTL: time.Hour}
		store, closer, err := OpenCache(&cfg)
		require.NoError(t, err)
		defer closer()

		fs, ok := store.(*file.Store)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(cfg.Cache.Dir, file.DefaultFileName), fs.Path())
	})

	t.Run("Memory", func(t *testing.T) {
		cfg := *base
		cfg.Cache = config.CacheConfig{Backend: config.BackendMemory}
		store, _, err := OpenCache(&cfg)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("Redis", func(t *testing.T) {
		cfg := *base
		cfg.Cache = config.CacheConfig{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:0"}
		store, closer, err := OpenCache(&cfg)
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, store)
		assert.NoError(t, closer())
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := *base
		cfg.Cache = config.CacheConfig{Backend: "s3"}
		_, _, err := OpenCache(&cfg)
		assert.Error(t, err)
	})
}

func TestOpen(t *testing.T) {
	in, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer in.Close()

	sc := newSignalContext(context.Background())
	defer sc.Cancel()

	t.Run("Requires Server", func(t *testing.T) {
		_, _, err := Open(sc, &config.Config{}, logging.NewNop(), Options{In: in, Out: in})
		var missing *config.MissingKeyError
		assert.True(t, errors.As(err, &missing))
	})

	t.Run("Assembles Session", func(t *testing.T) {
		cfg := &config.Config{
			Server: config.ServerConfig{URL: "https://ci.example.com", User: "alice", Token: "t"},
			Cache:  config.CacheConfig{Backend: config.BackendMemory},
			Recent: config.RecentConfig{Limit: 10},
		}
		s, closer, err := Open(sc, cfg, logging.NewNop(), Options{In: in, Out: in})
		require.NoError(t, err)
		defer closer()

		assert.IsType(t, &buildserver.Client{}, s.Server)
		assert.IsType(t, &text.Adapter{}, s.Prompts)
		assert.Same(t, sc, s.Interrupts)
	})
}

func TestExit(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, Exit(&buf, nil))
	assert.Equal(t, 0, Exit(&buf, fmt.Errorf("prompt: %w", context.Canceled)))
	assert.Empty(t, buf.String())

	assert.Equal(t, 2, Exit(&buf, &config.MissingKeyError{Key: "server.url"}))
	assert.Equal(t, 1, Exit(&buf, errors.New("boom")))
	assert.Contains(t, buf.String(), "! boom")
}

func TestStatusReport(t *testing.T) {
	md := StatusReport(buildserver.Build{
		Job:        "api",
		Number:     9,
		Result:     "SUCCESS",
		Duration:   90 * time.Second,
		URL:        "https://ci.example.com/job/api/9/",
		Parameters: map[string]string{"ENV": "qa", "BRANCH": "main"},
		Causes:     []string{"Started by user alice"},
	})

	assert.Contains(t, md, "## api #9: SUCCESS")
	assert.Contains(t, md, "| Duration | 1m30s |")
	assert.Contains(t, md, "| Cause | Started by user alice |")
	assert.Less(t, bytes.Index([]byte(md), []byte("`BRANCH`")), bytes.Index([]byte(md), []byte("`ENV`")))
}

func TestActionsDo(t *testing.T) {
	ctx := context.Background()

	t.Run("Server Error Is Recoverable", func(t *testing.T) {
		var out bytes.Buffer
		a := &Actions{Server: newFakeServer(), Out: &out}

		outcome, err := a.Do(ctx, flows.ActionLogs, flows.Target{Job: "ghost"})
		require.NoError(t, err)
		assert.Equal(t, flows.OutcomeError, outcome)
		assert.Contains(t, out.String(), "logs ghost")
	})

	t.Run("Watch To Completion", func(t *testing.T) {
		server := newFakeServer()
		server.builds["api"] = buildserver.Build{Job: "api", Number: 4, Result: "SUCCESS"}
		server.log = "step 1\nstep 2\n"
		var out bytes.Buffer
		a := &Actions{Server: server, Out: &out}

		outcome, err := a.Do(ctx, flows.ActionWatch, flows.Target{Job: "api"})
		require.NoError(t, err)
		assert.Equal(t, flows.OutcomeOK, outcome)
		assert.Contains(t, out.String(), "step 2\n")
		assert.Contains(t, out.String(), "## api #4: SUCCESS")
	})

	t.Run("Cancel Finished Build", func(t *testing.T) {
		server := newFakeServer()
		server.builds["api"] = buildserver.Build{Job: "api", Number: 4, Result: "FAILURE"}
		var out bytes.Buffer
		a := &Actions{Server: server, Out: &out}

		outcome, err := a.Do(ctx, flows.ActionCancel, flows.Target{Job: "api", Build: 4})
		require.NoError(t, err)
		assert.Equal(t, flows.OutcomeOK, outcome)
		assert.Empty(t, server.cancelled)
		assert.Contains(t, out.String(), "api #4 is not running (FAILURE)")
	})

	t.Run("Unsupported Action", func(t *testing.T) {
		a := &Actions{Server: newFakeServer()}
		_, err := a.Do(ctx, flows.ActionBuild, flows.Target{Job: "api"})
		assert.Error(t, err)
	})

	t.Run("Cancelled Session Aborts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		server := newFakeServer()
		server.builds["api"] = buildserver.Build{Job: "api", Number: 4, Building: true}
		server.block = true
		a := &Actions{Server: server}

		_, err := a.Do(cctx, flows.ActionWatch, flows.Target{Job: "api"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
