package search

import (
	"context"

	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/query"
)

// internalSchemes are browser-internal URL prefixes excluded from the
// recent-tabs portion of default results.
var internalSchemes = []string{
	"chrome://",
	"chrome-extension://",
	"about:",
	"edge://",
	"brave://",
	"moz-extension://",
}

// defaultResults produces the result set for an empty term. History,
// tabs, and bookmarks modes list their whole dataset; otherwise the pass
// surfaces bookmarks matching the currently active tab's URL plus the most
// recently used tabs.
func (e *Engine) defaultResults(ctx context.Context, mode query.Mode) ([]corpus.SearchResult, error) {
	switch mode {
	case query.ModeHistory:
		return allOf(e.corpus.History), nil
	case query.ModeTabs:
		return allOf(e.corpus.Tabs), nil
	case query.ModeBookmarks:
		return allOf(e.corpus.Bookmarks), nil
	}

	var results []corpus.SearchResult

	active := e.activeTab(ctx)
	if active != nil {
		activeURL := corpus.CleanURL(active.URL)
		for i := range e.corpus.Bookmarks {
			if e.corpus.Bookmarks[i].CleanedURL == activeURL {
				results = append(results, corpus.NewResult(e.corpus.Bookmarks[i], "", 0))
			}
		}
	}

	results = append(results, e.recentTabs(active)...)
	return results, nil
}

// activeTab resolves the active browser tab through the injected lookup.
// Lookup failure degrades to no active-tab context rather than failing the
// pass.
func (e *Engine) activeTab(ctx context.Context) *corpus.Entry {
	if e.tabLookup == nil {
		return nil
	}
	active, err := e.tabLookup(ctx)
	if err != nil {
		e.logger.Debug("active tab lookup failed", "error", err)
		return nil
	}
	return active
}

// recentTabs returns the N most recently used tabs, excluding the active
// tab and internal browser pages.
func (e *Engine) recentTabs(active *corpus.Entry) []corpus.SearchResult {
	n := e.cfg.Search.RecentTabs
	if n <= 0 {
		return nil
	}

	var candidates []*corpus.Entry
	for i := range e.corpus.Tabs {
		tab := &e.corpus.Tabs[i]
		if active != nil && (tab.ID == active.ID || tab.CleanedURL == corpus.CleanURL(active.URL)) {
			continue
		}
		if isInternalURL(tab.URL) {
			continue
		}
		candidates = append(candidates, tab)
	}

	sortEntriesByLastVisit(candidates)

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	results := make([]corpus.SearchResult, 0, len(candidates))
	for _, tab := range candidates {
		results = append(results, corpus.NewResult(*tab, "", 0))
	}
	return results
}

func allOf(entries []corpus.Entry) []corpus.SearchResult {
	results := make([]corpus.SearchResult, 0, len(entries))
	for i := range entries {
		results = append(results, corpus.NewResult(entries[i], "", 0))
	}
	return results
}

func isInternalURL(url string) bool {
	for _, scheme := range internalSchemes {
		if len(url) >= len(scheme) && url[:len(scheme)] == scheme {
			return true
		}
	}
	return false
}
