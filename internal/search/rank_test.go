package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jobflow/internal/search"
)

var jobs = []string{"api-deploy", "api-tests", "web-frontend", "worker", "Nightly-Backup"}

func TestRank(t *testing.T) {
	t.Run("Empty Query", func(t *testing.T) {
		assert.Empty(t, search.Rank("  ", jobs))
	})

	t.Run("No Match", func(t *testing.T) {
		assert.Empty(t, search.Rank("zzz", jobs))
	})

	t.Run("Substring Matches", func(t *testing.T) {
		got := search.Names(search.Rank("api", jobs))
		assert.ElementsMatch(t, []string{"api-deploy", "api-tests"}, got)
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		got := search.Rank("NIGHTLY", jobs)
		require.Len(t, got, 1)
		assert.Equal(t, "Nightly-Backup", got[0].Name)
		assert.Positive(t, got[0].Score)
	})

	t.Run("Fuzzy Subsequence", func(t *testing.T) {
		got := search.Names(search.Rank("wfr", jobs))
		assert.Equal(t, []string{"web-frontend"}, got)
	})

	t.Run("Best First", func(t *testing.T) {
		got := search.Rank("worker", []string{"old-worker-archive", "worker"})
		require.Len(t, got, 2)
		assert.Equal(t, "worker", got[0].Name)
		assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
	})
}

func TestUnique(t *testing.T) {
	t.Run("Single Match", func(t *testing.T) {
		name, ok := search.Unique("front", search.Rank("front", jobs))
		assert.True(t, ok)
		assert.Equal(t, "web-frontend", name)
	})

	t.Run("Exact Name Among Many", func(t *testing.T) {
		matches := []search.Match{{Name: "api-tests", Score: 10}, {Name: "API", Score: 9}}
		name, ok := search.Unique("api", matches)
		assert.True(t, ok)
		assert.Equal(t, "API", name)
	})

	t.Run("Ambiguous", func(t *testing.T) {
		_, ok := search.Unique("api", search.Rank("api", jobs))
		assert.False(t, ok)
	})
}
