// Package search ranks job names against a user query.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Match is a candidate that matched the query.
type Match struct {
	Name  string
	Score int
}

var initScheme sync.Once

// Rank returns the candidates matching query, best first. Ties keep the
// shorter name first, then lexical order. An empty query matches nothing.
func Rank(query string, candidates []string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	initScheme.Do(func() { algo.Init("default") })

	pattern := []rune(strings.ToLower(query))
	slab := util.MakeSlab(100*1024, 2048)

	var matches []Match
	for _, name := range candidates {
		chars := util.ToChars([]byte(strings.ToLower(name)))
		res, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
		if res.Start < 0 {
			continue
		}
		matches = append(matches, Match{Name: name, Score: res.Score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Name) != len(b.Name) {
			return len(a.Name) < len(b.Name)
		}
		return a.Name < b.Name
	})
	return matches
}

// Unique reports the single job the query designates: the only match, or
// a match whose name equals the query ignoring case.
func Unique(query string, matches []Match) (string, bool) {
	if len(matches) == 1 {
		return matches[0].Name, true
	}
	query = strings.TrimSpace(query)
	for _, m := range matches {
		if strings.EqualFold(m.Name, query) {
			return m.Name, true
		}
	}
	return "", false
}

// Names returns the names of matches in order.
func Names(matches []Match) []string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names
}
