package corpus

import "github.com/runger/markfind/internal/query"

// Dataset names. Matchers key their per-dataset caches by these.
const (
	DatasetBookmarks = "bookmarks"
	DatasetTabs      = "tabs"
	DatasetHistory   = "history"
)

// Dataset is one named slice of the corpus a matcher scans.
type Dataset struct {
	Name    string
	Entries []Entry
}

// Corpus holds the caller-owned entry arrays. The search core never mutates
// them; results are always copies.
type Corpus struct {
	Bookmarks []Entry
	Tabs      []Entry
	History   []Entry
}

// DatasetsForMode resolves a search mode to its target datasets. History
// mode includes tabs so an open tab pointing at a visited page still
// surfaces; search mode yields no dataset; unknown modes behave like all.
func (c *Corpus) DatasetsForMode(mode query.Mode) []Dataset {
	switch mode {
	case query.ModeBookmarks:
		return []Dataset{{DatasetBookmarks, c.Bookmarks}}
	case query.ModeTabs:
		return []Dataset{{DatasetTabs, c.Tabs}}
	case query.ModeHistory:
		return []Dataset{{DatasetTabs, c.Tabs}, {DatasetHistory, c.History}}
	case query.ModeSearch:
		return nil
	default:
		return []Dataset{
			{DatasetBookmarks, c.Bookmarks},
			{DatasetTabs, c.Tabs},
			{DatasetHistory, c.History},
		}
	}
}

// Approach tags which matching strategy produced a result.
type Approach string

const (
	ApproachPrecise  Approach = "precise"
	ApproachFuzzy    Approach = "fuzzy"
	ApproachTaxonomy Approach = "taxonomy"
)

// SearchResult is an Entry annotated with match and ranking state. The
// embedded Entry is a copy; matchers and the highlighting pass never touch
// the corpus entry a result was derived from.
type SearchResult struct {
	Entry

	// SearchScore is the raw match-quality signal from the matcher (0-1).
	SearchScore float64
	Approach    Approach

	// Score is the final ranked value, set by the scoring engine.
	Score float64

	// Highlighted fields are set only on the emitted, truncated subset.
	HighlightedTitle  string
	HighlightedURL    string
	HighlightedTags   string
	HighlightedFolder string
	HighlightedGroup  string
}

// NewResult creates a result from a corpus entry with the given provenance.
// The entry is copied by value.
func NewResult(e Entry, approach Approach, searchScore float64) SearchResult {
	return SearchResult{Entry: e, Approach: approach, SearchScore: searchScore}
}
