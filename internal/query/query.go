// Package query classifies raw search input into a search mode and a
// residual term. Mode prefixes ("h ", "b ", "t ", "s ") are checked before
// taxonomy markers ("#", "~", "@"), so a prefixed query keeps any marker in
// its term.
package query

import "strings"

// Mode selects which datasets and matching rule a query targets.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeBookmarks Mode = "bookmarks"
	ModeTabs      Mode = "tabs"
	ModeHistory   Mode = "history"
	ModeSearch    Mode = "search"
	ModeTags      Mode = "tags"
	ModeFolders   Mode = "folders"
	ModeGroups    Mode = "groups"
)

// Taxonomy marker characters. Exported because highlighting and the
// taxonomy matcher need the marker that introduced a mode.
const (
	MarkerTags    = '#'
	MarkerFolders = '~'
	MarkerGroups  = '@'
)

// modePrefixes maps the fixed two-character prefixes to their mode.
// Order matters: first match wins.
var modePrefixes = []struct {
	prefix string
	mode   Mode
}{
	{"h ", ModeHistory},
	{"b ", ModeBookmarks},
	{"t ", ModeTabs},
	{"s ", ModeSearch},
}

// ResolveMode classifies term into a search mode and strips the mode prefix
// or taxonomy marker that selected it. The term is expected to be already
// lowercased by the caller; matching is case-sensitive.
//
// Empty or whitespace-only input yields ModeAll with the term unchanged.
func ResolveMode(term string) (Mode, string) {
	for _, p := range modePrefixes {
		if strings.HasPrefix(term, p.prefix) {
			return p.mode, term[len(p.prefix):]
		}
	}

	if term != "" {
		switch term[0] {
		case MarkerTags:
			return ModeTags, term[1:]
		case MarkerFolders:
			return ModeFolders, term[1:]
		case MarkerGroups:
			return ModeGroups, term[1:]
		}
	}

	return ModeAll, term
}

// Marker returns the taxonomy marker character for a taxonomy mode,
// or 0 for non-taxonomy modes.
func Marker(mode Mode) rune {
	switch mode {
	case ModeTags:
		return MarkerTags
	case ModeFolders:
		return MarkerFolders
	case ModeGroups:
		return MarkerGroups
	}
	return 0
}

// IsTaxonomy reports whether mode searches tag/folder/group metadata
// rather than free text.
func IsTaxonomy(mode Mode) bool {
	return mode == ModeTags || mode == ModeFolders || mode == ModeGroups
}
