// Package taxonomy implements AND-matching over tag, folder, and group
// metadata, plus the memoized aggregate indexes behind the tag/folder
// overview pages.
package taxonomy

import (
	"strings"
	"sync"

	"github.com/runger/markfind/internal/corpus"
)

// Field selects which metadata dimension a taxonomy search targets.
type Field string

const (
	FieldTags   Field = "tags"
	FieldFolder Field = "folder"
	FieldGroup  Field = "group"
)

// hybridSeparator splits a taxonomy filter from a trailing free-text filter.
// Internal whitespace is deliberately not collapsed upstream to keep this
// syntax available.
const hybridSeparator = "  "

// Matcher runs taxonomy searches and owns the memoized tag/folder indexes.
// It is safe for concurrent use: overlapping passes are never cancelled, so
// index builds may race with a previous pass without the lock.
type Matcher struct {
	mu          sync.Mutex
	tagIndex    map[string][]string
	folderIndex map[string][]string
}

// NewMatcher creates a taxonomy matcher with cold indexes.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Search returns entries whose field value contains every marker-prefixed
// sub-term of term. A double space inside term separates the taxonomy
// filter from a free-text filter applied against title and url, e.g.
// "work  budget" under folders means "folder contains work AND (title or
// url contains budget)". All matches carry SearchScore 1.
func (m *Matcher) Search(term string, field Field, c *corpus.Corpus) []corpus.SearchResult {
	taxTerm := term
	freeText := ""
	if i := strings.Index(term, hybridSeparator); i >= 0 {
		taxTerm = term[:i]
		freeText = strings.TrimSpace(term[i+len(hybridSeparator):])
	}

	marker := markerFor(field)
	subTerms := splitSubTerms(taxTerm, marker)
	textTokens := strings.Fields(freeText)

	var results []corpus.SearchResult
	for _, e := range entriesFor(field, c) {
		value := fieldValue(e, field, marker)
		if !matchesAll(value, subTerms, marker) {
			continue
		}
		if !matchesFreeText(e, textTokens) {
			continue
		}
		results = append(results, corpus.NewResult(*e, corpus.ApproachTaxonomy, 1))
	}
	return results
}

// TagIndex returns the memoized tag name -> entry IDs map over the bookmark
// corpus, rebuilding it on first use.
func (m *Matcher) TagIndex(c *corpus.Corpus) map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tagIndex == nil {
		m.tagIndex = buildIndex(c.Bookmarks, func(e *corpus.Entry) []string { return e.TagList })
	}
	return m.tagIndex
}

// FolderIndex returns the memoized folder name -> entry IDs map over the
// bookmark corpus. Bookmark-edit workflows must call ResetFolderCache when
// bookmarks mutate; the index is otherwise assumed static for the session.
func (m *Matcher) FolderIndex(c *corpus.Corpus) map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.folderIndex == nil {
		m.folderIndex = buildIndex(c.Bookmarks, func(e *corpus.Entry) []string { return e.FolderList })
	}
	return m.folderIndex
}

// ResetFolderCache discards the memoized folder index (and the tag index,
// which is derived from the same mutated corpus).
func (m *Matcher) ResetFolderCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folderIndex = nil
	m.tagIndex = nil
}

func buildIndex(entries []corpus.Entry, values func(*corpus.Entry) []string) map[string][]string {
	idx := make(map[string][]string)
	for i := range entries {
		for _, v := range values(&entries[i]) {
			idx[v] = append(idx[v], entries[i].ID)
		}
	}
	return idx
}

func markerFor(field Field) string {
	switch field {
	case FieldFolder:
		return "~"
	case FieldGroup:
		return "@"
	default:
		return "#"
	}
}

// entriesFor picks the dataset a field lives on: tags and folders are
// bookmark metadata, groups belong to tabs.
func entriesFor(field Field, c *corpus.Corpus) []*corpus.Entry {
	var src []corpus.Entry
	if field == FieldGroup {
		src = c.Tabs
	} else {
		src = c.Bookmarks
	}
	out := make([]*corpus.Entry, len(src))
	for i := range src {
		out[i] = &src[i]
	}
	return out
}

// fieldValue returns the lowercased, marker-prefixed raw value to match
// sub-terms against. Group labels carry no marker in the corpus, so one is
// synthesized for uniform matching.
func fieldValue(e *corpus.Entry, field Field, marker string) string {
	switch field {
	case FieldFolder:
		return strings.ToLower(e.Folder)
	case FieldGroup:
		if e.Group == "" {
			return ""
		}
		return marker + strings.ToLower(e.Group)
	default:
		return strings.ToLower(e.Tags)
	}
}

func splitSubTerms(taxTerm, marker string) []string {
	parts := strings.Split(taxTerm, marker)
	out := parts[:0:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesAll requires every sub-term to appear as marker+subterm in the
// field value, not as a bare substring.
func matchesAll(value string, subTerms []string, marker string) bool {
	if len(subTerms) == 0 {
		return value != ""
	}
	for _, st := range subTerms {
		if !strings.Contains(value, marker+st) {
			return false
		}
	}
	return true
}

func matchesFreeText(e *corpus.Entry, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	title := strings.ToLower(e.Title)
	url := strings.ToLower(e.CleanedURL)
	for _, tok := range tokens {
		if !strings.Contains(title, tok) && !strings.Contains(url, tok) {
			return false
		}
	}
	return true
}
