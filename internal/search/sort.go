package search

import (
	"errors"
	"sort"

	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/query"
)

// sortMode selects how a pass orders its candidates.
type sortMode string

const (
	sortByScore     sortMode = "score"     // final score descending
	sortByLastVisit sortMode = "lastVisit" // seconds-ago ascending, missing last
	sortNone        sortMode = "none"      // keep scoring order
)

// ErrUnknownSortMode signals an internal dispatch bug; it is fatal to the
// pass rather than silently skipped.
var ErrUnknownSortMode = errors.New("unknown sort mode")

// sortModeFor picks the order for a pass: score order whenever a term is
// present, recency order for the termless history/tabs listings.
func sortModeFor(mode query.Mode, hasTerm bool) sortMode {
	if hasTerm {
		return sortByScore
	}
	if mode == query.ModeHistory || mode == query.ModeTabs {
		return sortByLastVisit
	}
	return sortNone
}

func sortResults(results []corpus.SearchResult, mode sortMode) error {
	switch mode {
	case sortByScore:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	case sortByLastVisit:
		sort.SliceStable(results, func(i, j int) bool {
			return lessByLastVisit(results[i].LastVisitSecondsAgo, results[j].LastVisitSecondsAgo)
		})
	case sortNone:
	default:
		return ErrUnknownSortMode
	}
	return nil
}

func lessByLastVisit(a, b *int64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func sortEntriesByLastVisit(entries []*corpus.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessByLastVisit(entries[i].LastVisitSecondsAgo, entries[j].LastVisitSecondsAgo)
	})
}
