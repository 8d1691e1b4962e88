package buildserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mitchellh/mapstructure"
)

// Build is the state of one build of a job.
type Build struct {
	Job        string
	Number     int
	Result     string
	Building   bool
	Duration   time.Duration
	Estimated  time.Duration
	Started    time.Time
	URL        string
	Parameters map[string]string
	Causes     []string
}

// Status is the result, or BUILDING/PENDING while there is none.
func (b Build) Status() string {
	switch {
	case b.Building:
		return "BUILDING"
	case b.Result == "":
		return "PENDING"
	}
	return b.Result
}

type rawBuild struct {
	Number            int              `json:"number"`
	Result            string           `json:"result"`
	Building          bool             `json:"building"`
	Duration          int64            `json:"duration"`
	EstimatedDuration int64            `json:"estimatedDuration"`
	Timestamp         int64            `json:"timestamp"`
	URL               string           `json:"url"`
	Actions           []map[string]any `json:"actions"`
}

// rawAction covers the action shapes we read; actions of other classes
// decode to zero values.
type rawAction struct {
	Parameters []struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	} `json:"parameters"`
	Causes []struct {
		ShortDescription string `json:"shortDescription"`
	} `json:"causes"`
}

func decodeLoose(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func buildRef(number int) string {
	if number <= 0 {
		return "lastBuild"
	}
	return strconv.Itoa(number)
}

// Build fetches a build of job. A zero number means the last build.
func (c *Client) Build(ctx context.Context, job string, number int) (Build, error) {
	var payload map[string]any
	if err := c.getJSON(ctx, jobPath(job)+"/"+buildRef(number)+"/api/json", nil, &payload); err != nil {
		return Build{}, fmt.Errorf("build %s #%s: %w", job, buildRef(number), err)
	}
	return decodeBuild(job, payload)
}

func decodeBuild(job string, payload map[string]any) (Build, error) {
	var raw rawBuild
	if err := decodeLoose(payload, &raw); err != nil {
		return Build{}, fmt.Errorf("decode build of %s: %w", job, err)
	}

	b := Build{
		Job:        job,
		Number:     raw.Number,
		Result:     raw.Result,
		Building:   raw.Building,
		Duration:   time.Duration(raw.Duration) * time.Millisecond,
		Estimated:  time.Duration(raw.EstimatedDuration) * time.Millisecond,
		URL:        raw.URL,
		Parameters: map[string]string{},
	}
	if raw.Timestamp > 0 {
		b.Started = time.UnixMilli(raw.Timestamp)
	}
	for _, a := range raw.Actions {
		var action rawAction
		if err := decodeLoose(a, &action); err != nil {
			return Build{}, fmt.Errorf("decode build action of %s: %w", job, err)
		}
		for _, p := range action.Parameters {
			if p.Value != nil {
				b.Parameters[p.Name] = fmt.Sprint(p.Value)
			}
		}
		for _, cause := range action.Causes {
			b.Causes = append(b.Causes, cause.ShortDescription)
		}
	}
	return b, nil
}

var errNotStarted = errors.New("build has not left the queue")

// WaitForBuild polls a queue item until it becomes a build and returns the
// build number. Polling backs off exponentially and gives up after the
// configured queue wait.
func (c *Client) WaitForBuild(ctx context.Context, queueID int) (int, error) {
	var number int
	path := fmt.Sprintf("/queue/item/%d/api/json", queueID)

	op := func() error {
		var payload map[string]any
		if err := c.getJSON(ctx, path, nil, &payload); err != nil {
			return backoff.Permanent(err)
		}
		var item struct {
			Cancelled  bool   `json:"cancelled"`
			Why        string `json:"why"`
			Executable struct {
				Number int `json:"number"`
			} `json:"executable"`
		}
		if err := decodeLoose(payload, &item); err != nil {
			return backoff.Permanent(fmt.Errorf("decode queue item: %w", err))
		}
		if item.Cancelled {
			return backoff.Permanent(ErrQueueCancelled)
		}
		if item.Executable.Number == 0 {
			c.logger.Debug("build queued", "queue_id", queueID, "why", item.Why)
			return errNotStarted
		}
		number = item.Executable.Number
		return nil
	}

	bo := backoff.WithContext(c.pollBackOff(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, errNotStarted) {
			return 0, fmt.Errorf("queue item %d: still queued after %s", queueID, c.queueWait)
		}
		return 0, fmt.Errorf("queue item %d: %w", queueID, err)
	}
	return number, nil
}

// Cancel stops a running build. A zero number means the last build.
func (c *Client) Cancel(ctx context.Context, job string, number int) error {
	resp, err := c.do(ctx, http.MethodPost, jobPath(job)+"/"+buildRef(number)+"/stop", nil)
	if err != nil {
		return fmt.Errorf("cancel %s #%s: %w", job, buildRef(number), err)
	}
	drain(resp)
	return nil
}

// MarshalJSON renders the build for --output json.
func (b Build) MarshalJSON() ([]byte, error) {
	type view struct {
		Job        string            `json:"job"`
		Number     int               `json:"number"`
		Status     string            `json:"status"`
		Duration   string            `json:"duration,omitempty"`
		Started    *time.Time        `json:"started,omitempty"`
		URL        string            `json:"url,omitempty"`
		Parameters map[string]string `json:"parameters,omitempty"`
		Causes     []string          `json:"causes,omitempty"`
	}
	v := view{
		Job:        b.Job,
		Number:     b.Number,
		Status:     b.Status(),
		URL:        b.URL,
		Parameters: b.Parameters,
		Causes:     b.Causes,
	}
	if b.Duration > 0 {
		v.Duration = b.Duration.String()
	}
	if !b.Started.IsZero() {
		v.Started = &b.Started
	}
	return json.Marshal(v)
}
