package buildserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aretw0/jobflow/pkg/domain"
)

// ErrQueueCancelled is returned when a queued build is cancelled before it starts.
var ErrQueueCancelled = errors.New("queued build was cancelled")

// HTTPError is a non-2xx answer from the build server.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func newHTTPError(method, path string, resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Path, http.StatusText(e.StatusCode))
	if e.StatusCode == http.StatusUnauthorized {
		msg += " (check server.user and server.token)"
	}
	return msg
}

// Unwrap maps 404 answers to domain.ErrNotFound.
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}
