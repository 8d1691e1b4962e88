package buildserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to one build server with one set of credentials.
// Safe for concurrent use.
type Client struct {
	base   *url.URL
	user   string
	token  string
	http   *http.Client
	logger *slog.Logger

	pollInitial time.Duration
	pollMax     time.Duration
	queueWait   time.Duration

	mu    sync.Mutex
	crumb *crumb
}

type crumb struct {
	field string
	value string
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPolling configures queue and log polling: the first interval, the
// interval cap and how long a queued build may wait before giving up.
func WithPolling(initial, max, queueWait time.Duration) Option {
	return func(c *Client) {
		c.pollInitial = initial
		c.pollMax = max
		c.queueWait = queueWait
	}
}

// New creates a client for the server at baseURL.
// user and token are sent as basic auth when user is set.
func New(baseURL, user, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("build server url is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid build server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid build server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:        u,
		user:        user,
		token:       token,
		http:        &http.Client{Timeout: 30 * time.Second},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		pollInitial: 500 * time.Millisecond,
		pollMax:     5 * time.Second,
		queueWait:   10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the server base URL.
func (c *Client) URL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// jobPath maps a job full name ("folder/job") to its unescaped URL path.
func jobPath(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.Trim(name, "/"), "/") {
		b.WriteString("/job/")
		b.WriteString(part)
	}
	return b.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), nil)
	if err != nil {
		return nil, err
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.token)
	}
	return req, nil
}

// errCrumbRejected triggers a single retry with a fresh crumb.
var errCrumbRejected = errors.New("crumb rejected")

// do sends a request. POST requests carry a CSRF crumb; when the server
// rejects it with 403 the crumb is fetched again and the request retried once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	var resp *http.Response
	retried := false

	op := func() error {
		req, err := c.newRequest(ctx, method, path, query)
		if err != nil {
			return backoff.Permanent(err)
		}
		if method == http.MethodPost {
			cr, err := c.getCrumb(ctx)
			if err != nil {
				return backoff.Permanent(err)
			}
			if cr != nil {
				req.Header.Set(cr.field, cr.value)
			}
		}

		c.logger.Debug("build server request", "method", method, "path", path)
		resp, err = c.http.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%s %s: %w", method, path, err))
		}
		if resp.StatusCode == http.StatusForbidden && method == http.MethodPost && !retried {
			drain(resp)
			c.resetCrumb()
			retried = true
			return errCrumbRejected
		}
		return nil
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1), ctx)
	if err := backoff.Retry(op, retry); err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer drain(resp)
		return nil, newHTTPError(method, path, resp)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer drain(resp)
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getCrumb(ctx context.Context) (*crumb, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != nil {
		if c.crumb.field == "" {
			return nil, nil
		}
		return c.crumb, nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/crumbIssuer/api/json", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch crumb: %w", err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// CSRF protection disabled on the server.
		c.crumb = &crumb{}
		return nil, nil
	case resp.StatusCode >= 300:
		return nil, newHTTPError(http.MethodGet, "/crumbIssuer/api/json", resp)
	}

	var payload struct {
		Crumb             string `json:"crumb"`
		CrumbRequestField string `json:"crumbRequestField"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode crumb: %w", err)
	}
	c.crumb = &crumb{field: payload.CrumbRequestField, value: payload.Crumb}
	if c.crumb.field == "" {
		return nil, nil
	}
	return c.crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crumb = nil
}

func (c *Client) pollBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.pollInitial
	bo.MaxInterval = c.pollMax
	bo.MaxElapsedTime = c.queueWait
	bo.Reset()
	return bo
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
