package precise

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/query"
)

func bookmark(id, title, url string) corpus.Entry {
	e := corpus.Entry{ID: id, Type: corpus.TypeBookmark, Title: title, URL: url}
	e.Normalize()
	return e
}

func docsCorpus() *corpus.Corpus {
	return &corpus.Corpus{
		Bookmarks: []corpus.Entry{
			bookmark("b1", "learn javascript fundamentals", "https://js.dev"),
			bookmark("b2", "learn python basics", "https://py.org"),
		},
		Tabs: []corpus.Entry{
			{ID: "t1", Type: corpus.TypeTab, Title: "Learning Go", URL: "https://go.dev/learn"},
		},
	}
}

func TestSearchANDSemantics(t *testing.T) {
	c := docsCorpus()
	for i := range c.Tabs {
		c.Tabs[i].Normalize()
	}
	m := NewMatcher()

	results := m.Search(query.ModeAll, "learn", c)
	require.Len(t, results, 3)

	results = m.Search(query.ModeAll, "learn javascript", c)
	require.Len(t, results, 1)
	assert.Equal(t, "b1", results[0].ID)
	assert.Equal(t, corpus.ApproachPrecise, results[0].Approach)
	assert.Equal(t, 1.0, results[0].SearchScore)
}

func TestSearchModeScoping(t *testing.T) {
	c := docsCorpus()
	for i := range c.Tabs {
		c.Tabs[i].Normalize()
	}
	m := NewMatcher()

	assert.Len(t, m.Search(query.ModeBookmarks, "learn", c), 2)
	assert.Len(t, m.Search(query.ModeTabs, "learn", c), 1)
	assert.Empty(t, m.Search(query.ModeSearch, "learn", c))
}

// Extending "learn" to "learn javascript" must reuse the warm progressive
// cache and still return only the matching document.
func TestProgressiveNarrowing(t *testing.T) {
	c := docsCorpus()
	m := NewMatcher()

	first := m.Search(query.ModeBookmarks, "learn", c)
	require.Len(t, first, 2)

	second := m.Search(query.ModeBookmarks, "learn javascript", c)
	require.Len(t, second, 1)
	assert.Equal(t, "b1", second[0].ID)
}

// Result content for a given (mode, term) must be identical whether or not
// the progressive cache was warm.
func TestProgressiveCacheTransparency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"go", "rust", "python", "docs", "blog", "news", "dev", "lang"}

	var entries []corpus.Entry
	for i := 0; i < 60; i++ {
		n := 1 + rng.Intn(4)
		var parts []string
		for j := 0; j < n; j++ {
			parts = append(parts, words[rng.Intn(len(words))])
		}
		entries = append(entries, bookmark(fmt.Sprintf("b%d", i), strings.Join(parts, " "), "https://example.com"))
	}
	c := &corpus.Corpus{Bookmarks: entries}

	for trial := 0; trial < 50; trial++ {
		// Build an extension sequence: each term string-extends the previous.
		final := words[rng.Intn(len(words))] + " " + words[rng.Intn(len(words))]
		var seq []string
		for i := 1; i <= len(final); i++ {
			seq = append(seq, final[:i])
		}

		warm := NewMatcher()
		var warmResults []corpus.SearchResult
		for _, term := range seq {
			warmResults = warm.Search(query.ModeBookmarks, term, c)
		}

		cold := NewMatcher().Search(query.ModeBookmarks, final, c)

		require.Equal(t, ids(cold), ids(warmResults), "term=%q", final)
	}
}

// Property check: an entry is included iff every non-empty token is a
// substring of its search string.
func TestANDSemanticsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := "abcdx "

	randStr := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(b)
	}

	for trial := 0; trial < 100; trial++ {
		var entries []corpus.Entry
		for i := 0; i < 20; i++ {
			entries = append(entries, bookmark(fmt.Sprintf("e%d", i), randStr(8), ""))
		}
		c := &corpus.Corpus{Bookmarks: entries}
		term := randStr(5)

		got := ids(NewMatcher().Search(query.ModeBookmarks, term, c))

		var want []string
		tokens := strings.Fields(term)
		for _, e := range entries {
			all := true
			for _, tok := range tokens {
				if !strings.Contains(e.SearchStringLower, tok) {
					all = false
					break
				}
			}
			if all {
				want = append(want, e.ID)
			}
		}
		require.Equal(t, want, got, "term=%q", term)
	}
}

// Overlapping passes share one matcher, so concurrent extending searches
// hit the progressive cache from several goroutines at once.
func TestConcurrentSearchesOnSharedCache(t *testing.T) {
	var entries []corpus.Entry
	for i := 0; i < 500; i++ {
		entries = append(entries, bookmark(fmt.Sprintf("b%d", i), fmt.Sprintf("release notes %03d", i), "https://example.com"))
	}
	c := &corpus.Corpus{Bookmarks: entries}
	m := NewMatcher()

	terms := []string{"r", "re", "rel", "release", "release notes", "release notes 042"}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, term := range terms {
				m.Search(query.ModeBookmarks, term, c)
			}
		}()
	}
	wg.Wait()

	results := m.Search(query.ModeBookmarks, "release notes 042", c)
	require.Len(t, results, 1)
	assert.Equal(t, "b42", results[0].ID)
}

func TestPivotDiscardsCache(t *testing.T) {
	c := docsCorpus()
	m := NewMatcher()

	require.Len(t, m.Search(query.ModeBookmarks, "javascript", c), 1)
	// "python" does not extend "javascript": full rescan required.
	results := m.Search(query.ModeBookmarks, "python", c)
	require.Len(t, results, 1)
	assert.Equal(t, "b2", results[0].ID)
}

func TestSearchDoesNotMutateCorpus(t *testing.T) {
	c := docsCorpus()
	before := c.Bookmarks[0]

	results := NewMatcher().Search(query.ModeBookmarks, "learn", c)
	require.NotEmpty(t, results)
	results[0].Title = "changed"
	results[0].HighlightedTitle = "<mark>x</mark>"

	assert.Equal(t, before, c.Bookmarks[0])
}

func TestReset(t *testing.T) {
	c := docsCorpus()
	m := NewMatcher()
	m.Search(query.ModeBookmarks, "learn javascript", c)

	m.Reset(query.ModeBookmarks)
	results := m.Search(query.ModeBookmarks, "learn", c)
	assert.Len(t, results, 2)

	m.Reset()
	assert.Empty(t, m.caches)
}

func ids(results []corpus.SearchResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}
