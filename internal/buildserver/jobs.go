package buildserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Job is a buildable item of the server.
type Job struct {
	Name  string `json:"fullName"`
	Color string `json:"color"`
	Class string `json:"_class"`
	Jobs  []Job  `json:"jobs"`
}

// isFolder reports whether the item only groups other jobs.
func (j Job) isFolder() bool {
	return j.Color == "" && (strings.HasSuffix(j.Class, "Folder") || strings.HasSuffix(j.Class, "MultiBranchProject") || len(j.Jobs) > 0)
}

// ListJobs returns the full names of every buildable job, folders expanded
// up to three levels, sorted by name.
func (c *Client) ListJobs(ctx context.Context) ([]string, error) {
	var payload struct {
		Jobs []Job `json:"jobs"`
	}
	tree := "jobs[fullName,color,_class,jobs[fullName,color,_class,jobs[fullName,color,_class]]]"
	if err := c.getJSON(ctx, "/api/json", url.Values{"tree": {tree}}, &payload); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	var names []string
	var walk func([]Job)
	walk = func(jobs []Job) {
		for _, j := range jobs {
			if j.isFolder() {
				walk(j.Jobs)
				continue
			}
			names = append(names, j.Name)
		}
	}
	walk(payload.Jobs)
	sort.Strings(names)
	return names, nil
}

// Trigger queues a build of job and returns the queue item id.
// Parameters switch the request to buildWithParameters.
func (c *Client) Trigger(ctx context.Context, job string, params map[string]string) (int, error) {
	endpoint := jobPath(job) + "/build"
	var query url.Values
	if len(params) > 0 {
		endpoint = jobPath(job) + "/buildWithParameters"
		query = url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, query)
	if err != nil {
		return 0, fmt.Errorf("trigger %s: %w", job, err)
	}
	defer drain(resp)

	id, err := queueID(resp.Header.Get("Location"))
	if err != nil {
		return 0, fmt.Errorf("trigger %s: %w", job, err)
	}
	c.logger.Debug("build queued", "job", job, "queue_id", id)
	return id, nil
}

// queueID extracts the id of ".../queue/item/<id>/".
func queueID(location string) (int, error) {
	if location == "" {
		return 0, fmt.Errorf("server did not return a queue location")
	}
	u, err := url.Parse(location)
	if err != nil {
		return 0, fmt.Errorf("invalid queue location %q: %w", location, err)
	}
	id, err := strconv.Atoi(path.Base(strings.TrimRight(u.Path, "/")))
	if err != nil || !strings.Contains(u.Path, "/queue/item/") {
		return 0, fmt.Errorf("invalid queue location %q", location)
	}
	return id, nil
}
