package buildserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// LogChunk is a slice of console output.
type LogChunk struct {
	Text string
	// Next is the offset to request the following chunk from.
	Next int64
	// More is set while the build is still producing output.
	More bool
}

// Log fetches console output of a build starting at offset start.
func (c *Client) Log(ctx context.Context, job string, number int, start int64) (LogChunk, error) {
	query := url.Values{"start": {strconv.FormatInt(start, 10)}}
	resp, err := c.do(ctx, http.MethodGet, jobPath(job)+"/"+buildRef(number)+"/logText/progressiveText", query)
	if err != nil {
		return LogChunk{}, fmt.Errorf("log of %s #%s: %w", job, buildRef(number), err)
	}
	defer drain(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LogChunk{}, fmt.Errorf("read log of %s: %w", job, err)
	}
	chunk := LogChunk{
		Text: string(body),
		Next: start + int64(len(body)),
		More: resp.Header.Get("X-More-Data") == "true",
	}
	if size := resp.Header.Get("X-Text-Size"); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil {
			chunk.Next = n
		}
	}
	return chunk, nil
}

// StreamLog copies the console output of a build to w until the build
// stops producing output or ctx is cancelled.
func (c *Client) StreamLog(ctx context.Context, job string, number int, w io.Writer) error {
	var offset int64
	for {
		chunk, err := c.Log(ctx, job, number, offset)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, chunk.Text); err != nil {
			return err
		}
		offset = chunk.Next
		if !chunk.More {
			return nil
		}

		timer := time.NewTimer(c.pollInitial)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
