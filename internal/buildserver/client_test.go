package buildserver_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/internal/buildserver"
	"github.com/aretw0/jobflow/pkg/domain"
)

const (
	testUser  = "alice"
	testToken = "s3cret"
)

// fakeServer mimics the parts of the Jenkins JSON API the client uses.
type fakeServer struct {
	mu sync.Mutex

	crumbEnabled bool
	crumb        string
	crumbHits    int
	staleCrumbs  int

	triggers   []string
	params     []url.Values
	queuePolls int
	startAfter int
	cancelled  bool
	stopped    []string

	logChunks []string
}

func newFakeServer() *fakeServer {
	return &fakeServer{crumbEnabled: true, crumb: "c1"}
}

func (f *fakeServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != testUser || pass != testToken {
				http.Error(w, "bad credentials", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/crumbIssuer/api/json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.crumbEnabled {
			http.NotFound(w, r)
			return
		}
		f.crumbHits++
		fmt.Fprintf(w, `{"crumb":%q,"crumbRequestField":"Jenkins-Crumb"}`, f.crumb)
	})

	r.Get("/api/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":[
			{"_class":"hudson.model.FreeStyleProject","fullName":"web","color":"blue"},
			{"_class":"com.cloudbees.hudson.plugins.folder.Folder","fullName":"team","jobs":[
				{"_class":"org.jenkinsci.plugins.workflow.job.WorkflowJob","fullName":"team/api","color":"red"}
			]},
			{"_class":"hudson.model.FreeStyleProject","fullName":"api","color":"notbuilt"}
		]}`))
	})

	trigger := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.crumbEnabled && r.Header.Get("Jenkins-Crumb") != f.crumb {
			http.Error(w, "No valid crumb was included in the request", http.StatusForbidden)
			return
		}
		f.triggers = append(f.triggers, r.URL.Path)
		f.params = append(f.params, r.URL.Query())
		w.Header().Set("Location", "http://"+r.Host+"/queue/item/7/")
		w.WriteHeader(http.StatusCreated)
	}
	r.Post("/job/{job}/build", trigger)
	r.Post("/job/{job}/buildWithParameters", trigger)
	r.Post("/job/{job}/job/{sub}/build", trigger)

	r.Get("/queue/item/{id}/api/json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.queuePolls++
		switch {
		case f.cancelled:
			_, _ = w.Write([]byte(`{"cancelled":true,"executable":null}`))
		case f.startAfter >= 0 && f.queuePolls > f.startAfter:
			_, _ = w.Write([]byte(`{"executable":{"number":42,"url":"http://x/job/api/42/"}}`))
		default:
			_, _ = w.Write([]byte(`{"why":"Waiting for next available executor","executable":null}`))
		}
	})

	r.Get("/job/{job}/{n}/api/json", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "job") != "api" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{
			"number": 42, "result": null, "building": true,
			"duration": 0, "estimatedDuration": 90000, "timestamp": 1767268800000,
			"url": "http://x/job/api/42/",
			"actions": [
				{"_class":"hudson.model.ParametersAction","parameters":[
					{"name":"BRANCH","value":"main"},{"name":"DRY_RUN","value":true}
				]},
				{},
				{"_class":"hudson.model.CauseAction","causes":[{"shortDescription":"Started by user alice"}]}
			]
		}`))
	})

	r.Post("/job/{job}/{n}/stop", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.crumbEnabled && r.Header.Get("Jenkins-Crumb") != f.crumb {
			http.Error(w, "No valid crumb", http.StatusForbidden)
			return
		}
		f.stopped = append(f.stopped, chi.URLParam(r, "job")+"#"+chi.URLParam(r, "n"))
	})

	r.Get("/job/{job}/{n}/logText/progressiveText", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		full := strings.Join(f.logChunks, "")
		var start int
		fmt.Sscan(r.URL.Query().Get("start"), &start)

		// Serve one chunk per request.
		end, offset := len(full), 0
		for _, c := range f.logChunks {
			offset += len(c)
			if offset > start {
				end = offset
				break
			}
		}
		if start > len(full) {
			start = len(full)
		}
		w.Header().Set("X-Text-Size", fmt.Sprint(end))
		if end < len(full) || len(f.logChunks) == 0 {
			w.Header().Set("X-More-Data", "true")
		}
		_, _ = w.Write([]byte(full[start:end]))
	})

	return r
}

func newClient(t *testing.T, f *fakeServer, opts ...buildserver.Option) *buildserver.Client {
	t.Helper()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	opts = append([]buildserver.Option{buildserver.WithPolling(time.Millisecond, 5*time.Millisecond, time.Second)}, opts...)
	c, err := buildserver.New(srv.URL+"/", testUser, testToken, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	_, err := buildserver.New("", "u", "t")
	assert.ErrorContains(t, err, "url is required")

	_, err = buildserver.New("ftp://ci", "u", "t")
	assert.ErrorContains(t, err, "scheme must be http or https")

	c, err := buildserver.New("https://ci.example.com/", "u", "t")
	require.NoError(t, err)
	assert.Equal(t, "https://ci.example.com", c.URL())
}

func TestClient_ListJobs(t *testing.T) {
	c := newClient(t, newFakeServer())
	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "team/api", "web"}, jobs)
}

func TestClient_Unauthorized(t *testing.T) {
	f := newFakeServer()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	c, err := buildserver.New(srv.URL, testUser, "wrong")
	require.NoError(t, err)

	_, err = c.ListJobs(context.Background())
	var httpErr *buildserver.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "check server.user and server.token")
}

func TestClient_Trigger(t *testing.T) {
	ctx := context.Background()

	t.Run("Without Parameters", func(t *testing.T) {
		f := newFakeServer()
		c := newClient(t, f)

		id, err := c.Trigger(ctx, "api", nil)
		require.NoError(t, err)
		assert.Equal(t, 7, id)

		_, err = c.Trigger(ctx, "api", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"/job/api/build", "/job/api/build"}, f.triggers)
		assert.Equal(t, 1, f.crumbHits, "crumb is cached")
	})

	t.Run("With Parameters", func(t *testing.T) {
		f := newFakeServer()
		c := newClient(t, f)

		_, err := c.Trigger(ctx, "api", map[string]string{"BRANCH": "main", "V": "1"})
		require.NoError(t, err)
		assert.Equal(t, "/job/api/buildWithParameters", f.triggers[0])
		assert.Equal(t, "main", f.params[0].Get("BRANCH"))
		assert.Equal(t, "1", f.params[0].Get("V"))
	})

	t.Run("Folder Job", func(t *testing.T) {
		f := newFakeServer()
		c := newClient(t, f)

		_, err := c.Trigger(ctx, "team/api", nil)
		require.NoError(t, err)
		assert.Equal(t, "/job/team/job/api/build", f.triggers[0])
	})

	t.Run("Crumb Refreshed On 403", func(t *testing.T) {
		f := newFakeServer()
		c := newClient(t, f)

		_, err := c.Trigger(ctx, "api", nil)
		require.NoError(t, err)

		f.mu.Lock()
		f.crumb = "c2"
		f.mu.Unlock()

		_, err = c.Trigger(ctx, "api", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, f.crumbHits)
		assert.Len(t, f.triggers, 2)
	})

	t.Run("Crumbs Disabled", func(t *testing.T) {
		f := newFakeServer()
		f.crumbEnabled = false
		c := newClient(t, f)

		_, err := c.Trigger(ctx, "api", nil)
		require.NoError(t, err)
		assert.Zero(t, f.crumbHits)
	})

	t.Run("Unknown Job", func(t *testing.T) {
		c := newClient(t, newFakeServer())
		_, err := c.Trigger(ctx, "a/b/c", nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestClient_WaitForBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts After Polling", func(t *testing.T) {
		f := newFakeServer()
		f.startAfter = 2
		c := newClient(t, f)

		n, err := c.WaitForBuild(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 42, n)
		assert.Equal(t, 3, f.queuePolls)
	})

	t.Run("Cancelled In Queue", func(t *testing.T) {
		f := newFakeServer()
		f.cancelled = true
		c := newClient(t, f)

		_, err := c.WaitForBuild(ctx, 7)
		assert.ErrorIs(t, err, buildserver.ErrQueueCancelled)
	})

	t.Run("Gives Up", func(t *testing.T) {
		f := newFakeServer()
		f.startAfter = -1
		c := newClient(t, f, buildserver.WithPolling(time.Millisecond, 2*time.Millisecond, 20*time.Millisecond))

		_, err := c.WaitForBuild(ctx, 7)
		assert.ErrorContains(t, err, "still queued")
	})

	t.Run("Context Cancelled", func(t *testing.T) {
		f := newFakeServer()
		f.startAfter = -1
		c := newClient(t, f)

		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := c.WaitForBuild(cctx, 7)
		assert.Error(t, err)
	})
}

func TestClient_Build(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newFakeServer())

	t.Run("Decodes Actions", func(t *testing.T) {
		b, err := c.Build(ctx, "api", 0)
		require.NoError(t, err)

		assert.Equal(t, 42, b.Number)
		assert.Equal(t, "BUILDING", b.Status())
		assert.Equal(t, 90*time.Second, b.Estimated)
		assert.Equal(t, map[string]string{"BRANCH": "main", "DRY_RUN": "true"}, b.Parameters)
		assert.Equal(t, []string{"Started by user alice"}, b.Causes)
		assert.Equal(t, int64(1767268800000), b.Started.UnixMilli())
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := c.Build(ctx, "ghost", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBuild_Status(t *testing.T) {
	assert.Equal(t, "PENDING", buildserver.Build{}.Status())
	assert.Equal(t, "SUCCESS", buildserver.Build{Result: "SUCCESS"}.Status())
}

func TestClient_Cancel(t *testing.T) {
	f := newFakeServer()
	c := newClient(t, f)

	require.NoError(t, c.Cancel(context.Background(), "api", 42))
	require.NoError(t, c.Cancel(context.Background(), "api", 0))
	assert.Equal(t, []string{"api#42", "api#lastBuild"}, f.stopped)
}

func TestClient_Log(t *testing.T) {
	ctx := context.Background()

	t.Run("Stream Until Done", func(t *testing.T) {
		f := newFakeServer()
		f.logChunks = []string{"Started\n", "Building\n", "Finished: SUCCESS\n"}
		c := newClient(t, f)

		var out strings.Builder
		require.NoError(t, c.StreamLog(ctx, "api", 42, &out))
		assert.Equal(t, "Started\nBuilding\nFinished: SUCCESS\n", out.String())
	})

	t.Run("Single Chunk", func(t *testing.T) {
		f := newFakeServer()
		f.logChunks = []string{"a\n", "b\n"}
		c := newClient(t, f)

		chunk, err := c.Log(ctx, "api", 42, 0)
		require.NoError(t, err)
		assert.Equal(t, "a\n", chunk.Text)
		assert.Equal(t, int64(2), chunk.Next)
		assert.True(t, chunk.More)
	})

	t.Run("Cancelled Watch", func(t *testing.T) {
		f := newFakeServer()
		c := newClient(t, f, buildserver.WithPolling(10*time.Millisecond, 10*time.Millisecond, time.Second))

		cctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
		defer cancel()
		err := c.StreamLog(cctx, "api", 42, &strings.Builder{})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
