// Package precise implements exact substring AND-matching over a
// progressively narrowed haystack. Repeated keystrokes that extend the
// previous term only re-filter the already-narrowed subset.
package precise

import (
	"strings"
	"sync"

	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/query"
)

// modeCache holds the working set still matching the last applied term.
// Valid only while the next term extends (string prefix) the cached term.
type modeCache struct {
	term     string
	narrowed []*corpus.Entry
}

// Matcher runs precise searches and owns the per-mode progressive caches.
// It is safe for concurrent use: overlapping passes are never cancelled, so
// a new keystroke's search may run while the previous one finishes.
type Matcher struct {
	mu     sync.Mutex
	caches map[query.Mode]*modeCache
}

// NewMatcher creates a precise matcher with cold caches.
func NewMatcher() *Matcher {
	return &Matcher{caches: make(map[query.Mode]*modeCache)}
}

// Search returns every entry in the mode's datasets whose search string
// contains all non-empty, space-separated tokens of term, case-insensitive.
// Results are fresh copies with SearchScore 1; corpus entries are never
// mutated. Entries must be normalized before they reach the matcher: an
// entry with an empty SearchStringLower can never match.
func (m *Matcher) Search(mode query.Mode, term string, c *corpus.Corpus) []corpus.SearchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokens := splitTokens(term)

	cache := m.caches[mode]
	var working []*corpus.Entry
	start := 0

	if cache != nil && strings.HasPrefix(term, cache.term) {
		// Warm path: the cached set already satisfies every completed
		// token of the previous term. Re-apply from the possibly-extended
		// last token onward.
		working = cache.narrowed
		if n := len(splitTokens(cache.term)); n > 0 {
			start = n - 1
		}
	} else {
		working = fullScanSet(mode, c)
	}

	for i := start; i < len(tokens); i++ {
		working = filterToken(working, tokens[i])
		if len(working) == 0 {
			break
		}
	}

	m.caches[mode] = &modeCache{term: term, narrowed: working}

	results := make([]corpus.SearchResult, 0, len(working))
	for _, e := range working {
		results = append(results, corpus.NewResult(*e, corpus.ApproachPrecise, 1))
	}
	return results
}

// Reset discards progressive caches. With no arguments every mode is reset.
func (m *Matcher) Reset(modes ...query.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(modes) == 0 {
		m.caches = make(map[query.Mode]*modeCache)
		return
	}
	for _, mode := range modes {
		delete(m.caches, mode)
	}
}

func fullScanSet(mode query.Mode, c *corpus.Corpus) []*corpus.Entry {
	var out []*corpus.Entry
	for _, ds := range c.DatasetsForMode(mode) {
		for i := range ds.Entries {
			out = append(out, &ds.Entries[i])
		}
	}
	return out
}

func filterToken(entries []*corpus.Entry, token string) []*corpus.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if strings.Contains(e.SearchStringLower, token) {
			out = append(out, e)
		}
	}
	return out
}

func splitTokens(term string) []string {
	parts := strings.Split(term, " ")
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
