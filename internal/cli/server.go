package cli

import (
	"context"
	"io"

	"github.com/aretw0/jobflow/internal/buildserver"
)

// Server is the part of the build server client the commands rely on.
type Server interface {
	ListJobs(ctx context.Context) ([]string, error)
	Trigger(ctx context.Context, job string, params map[string]string) (int, error)
	WaitForBuild(ctx context.Context, queueID int) (int, error)
	Build(ctx context.Context, job string, number int) (buildserver.Build, error)
	Cancel(ctx context.Context, job string, number int) error
	Log(ctx context.Context, job string, number int, start int64) (buildserver.LogChunk, error)
	StreamLog(ctx context.Context, job string, number int, w io.Writer) error
}

var _ Server = (*buildserver.Client)(nil)
