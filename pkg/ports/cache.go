package ports

import "context"

// DefaultRecentLimit bounds the recent-jobs list when a store is not told otherwise.
const DefaultRecentLimit = 10

// CacheStore remembers what the user worked with, so prompts can offer it
// again without a round trip to the build server.
//
// Missing keys are not errors: loads return an empty slice.
type CacheStore interface {
	// LoadJobs returns the cached job list.
	LoadJobs(ctx context.Context) ([]string, error)
	// SaveJobs replaces the cached job list.
	SaveJobs(ctx context.Context, jobs []string) error

	// LoadRecentJobs returns recently used jobs, most recent first.
	LoadRecentJobs(ctx context.Context) ([]string, error)
	// TouchRecentJob moves job to the front of the recent list.
	TouchRecentJob(ctx context.Context, job string) error

	// LoadBranches returns the branches remembered for job, oldest first.
	LoadBranches(ctx context.Context, job string) ([]string, error)
	// SaveBranch remembers branch for job. Saving an existing branch is a no-op.
	SaveBranch(ctx context.Context, job, branch string) error
	// RemoveBranch forgets branch for job.
	RemoveBranch(ctx context.Context, job, branch string) error
}

// TouchRecent returns list with item moved to the front, deduplicated and
// trimmed to limit. Stores share it so they agree on ordering.
func TouchRecent(list []string, item string, limit int) []string {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, item)
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AppendUnique returns list with item appended unless already present.
func AppendUnique(list []string, item string) []string {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}

// Without returns list minus every occurrence of item.
func Without(list []string, item string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}
