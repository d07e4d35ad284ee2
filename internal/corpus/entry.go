// Package corpus defines the searchable entry model shared by all matchers:
// bookmarks, open tabs, and history items, plus the synthetic result types
// created during a search pass.
package corpus

import (
	"regexp"
	"strconv"
	"strings"
)

// Type identifies what kind of record an entry is.
type Type string

const (
	TypeBookmark Type = "bookmark"
	TypeTab      Type = "tab"
	TypeHistory  Type = "history"

	// Synthetic types exist only on results created during a search pass,
	// never in the corpus itself.
	TypeSearch       Type = "search"
	TypeCustomSearch Type = "customSearch"
	TypeDirect       Type = "direct"
)

// Entry is one searchable unit. Derived fields (CleanedURL, TagList,
// FolderList, SearchString and its lowercase cache) must be recomputed via
// Normalize whenever title/url/tags/folder change; a stale cache is a
// correctness bug, not just a performance one.
type Entry struct {
	ID    string
	Type  Type
	Title string
	URL   string

	// CleanedURL is the display/matching form of URL: protocol, trailing
	// slash, and fragment stripped.
	CleanedURL string

	Tags       string // raw, "#"-delimited, e.g. "#go #work"
	TagList    []string
	Folder     string // raw, "~"-delimited hierarchy, e.g. "~Dev ~Tools"
	FolderList []string
	Group      string // tab-grouping label, optional

	VisitCount          int
	LastVisitSecondsAgo *int64 // nil when unknown (e.g. bookmarks never visited)
	DateAdded           int64  // unix ms, bookmarks only

	// CustomBonus is an arbitrary user-supplied score bonus, sourced from
	// the "+N" title authoring convention.
	CustomBonus float64

	SearchString      string
	SearchStringLower string
}

// Normalize recomputes every derived field from the entry's raw fields.
func (e *Entry) Normalize() {
	e.CleanedURL = CleanURL(e.URL)
	e.TagList = splitMarked(e.Tags, "#")
	e.FolderList = splitMarked(e.Folder, "~")

	var b strings.Builder
	b.WriteString(e.Title)
	if e.CleanedURL != "" {
		b.WriteByte(' ')
		b.WriteString(e.CleanedURL)
	}
	if e.Tags != "" {
		b.WriteByte(' ')
		b.WriteString(e.Tags)
	}
	if e.Folder != "" {
		b.WriteByte(' ')
		b.WriteString(e.Folder)
	}
	e.SearchString = b.String()
	e.SearchStringLower = strings.ToLower(e.SearchString)
}

// splitMarked splits a marker-delimited raw string ("#a #b") into lowercase
// values without the marker.
func splitMarked(raw, marker string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(strings.ToLower(raw), marker)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CleanURL strips the protocol, URL fragment, and trailing slash from a raw
// URL so that equivalent addresses compare equal.
func CleanURL(raw string) string {
	u := raw
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")
	return u
}

// titleDirective matches the "+N" custom bonus convention in bookmark titles.
var titleDirective = regexp.MustCompile(`\s\+(\d+(?:\.\d+)?)\b`)

// ParseTitleDirectives extracts the "Title +N #tag" authoring conventions
// from a raw bookmark title: a "+N" custom score bonus and trailing "#tag"
// tokens. It returns the cleaned title, the bonus, and the raw tag string
// ("#a #b" form, empty when the title carries no tags).
func ParseTitleDirectives(title string) (clean string, bonus float64, tags string) {
	clean = title

	if m := titleDirective.FindStringSubmatch(clean); m != nil {
		bonus, _ = strconv.ParseFloat(m[1], 64)
		clean = strings.Replace(clean, m[0], "", 1)
	}

	var tagTokens []string
	fields := strings.Fields(clean)
	kept := fields[:0]
	for _, f := range fields {
		if len(f) > 1 && f[0] == '#' {
			tagTokens = append(tagTokens, f)
			continue
		}
		kept = append(kept, f)
	}
	clean = strings.Join(kept, " ")
	tags = strings.Join(tagTokens, " ")
	return clean, bonus, tags
}
