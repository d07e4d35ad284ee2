package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/runger/markfind/internal/corpus"
)

// highlightResults annotates title/url/tags/folder/group with inline
// emphasis markers on the emitted subset only. Results already hold entry
// copies, so cached and source entries are never touched. Tokens are sorted
// longest first so longer tokens win over shorter overlapping ones in the
// combined alternation.
func highlightResults(results []corpus.SearchResult, term string) {
	re := highlightPattern(term)
	if re == nil {
		return
	}

	for i := range results {
		r := &results[i]
		r.HighlightedTitle = markField(re, r.Title)
		r.HighlightedURL = markField(re, r.CleanedURL)
		r.HighlightedTags = markField(re, r.Tags)
		r.HighlightedFolder = markField(re, r.Folder)
		r.HighlightedGroup = markField(re, r.Group)
	}
}

func highlightPattern(term string) *regexp.Regexp {
	tokens := strings.Fields(term)
	if len(tokens) == 0 {
		return nil
	}

	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = regexp.QuoteMeta(tok)
	}
	sort.SliceStable(escaped, func(i, j int) bool {
		return len(escaped[i]) > len(escaped[j])
	})

	re, err := regexp.Compile("(?i)(" + strings.Join(escaped, "|") + ")")
	if err != nil {
		return nil
	}
	return re
}

func markField(re *regexp.Regexp, field string) string {
	if field == "" {
		return ""
	}
	return re.ReplaceAllString(field, "<mark>$1</mark>")
}
