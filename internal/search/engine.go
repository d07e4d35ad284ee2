// Package search coordinates a full search pass: query parsing, strategy
// dispatch, default-results fallback, scoring, sorting, truncation,
// highlighting, and result caching. Engine.Search is the single entry point
// the UI calls on every keystroke.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/runger/markfind/internal/config"
	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/fuzzy"
	"github.com/runger/markfind/internal/precise"
	"github.com/runger/markfind/internal/query"
	"github.com/runger/markfind/internal/scoring"
	"github.com/runger/markfind/internal/taxonomy"
)

// Strategy selects the free-text matching algorithm. Taxonomy modes bypass
// strategy selection.
type Strategy string

const (
	StrategyPrecise Strategy = "precise"
	StrategyFuzzy   Strategy = "fuzzy"
)

// ErrNotInitialized is returned when a search runs before a corpus is set.
var ErrNotInitialized = errors.New("search engine not initialized")

// TabLookupFunc asynchronously resolves the currently active browser tab.
// It may return (nil, nil) when no tab is active.
type TabLookupFunc func(ctx context.Context) (*corpus.Entry, error)

// resultKey identifies one cached final result array.
type resultKey struct {
	term     string
	strategy Strategy
	mode     query.Mode
}

// Options configures a new Engine.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	TabLookup TabLookupFunc
}

// Engine owns all per-session search state: the matchers and their
// progressive caches, the final result cache, and the in-flight pass
// handle. The corpus itself is caller-owned and never mutated.
type Engine struct {
	cfg       *config.Config
	corpus    *corpus.Corpus
	precise   *precise.Matcher
	fuzzy     *fuzzy.Matcher
	taxonomy  *taxonomy.Matcher
	results   *lru[resultKey, []corpus.SearchResult]
	tabLookup TabLookupFunc
	logger    *slog.Logger

	pending pendingState
}

// New creates an Engine. SetCorpus must be called before the first search.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		precise:   precise.NewMatcher(),
		fuzzy:     fuzzy.NewMatcher(logger),
		taxonomy:  taxonomy.NewMatcher(),
		results:   newLRU[resultKey, []corpus.SearchResult](cfg.Search.ResultCacheSize),
		tabLookup: opts.TabLookup,
		logger:    logger,
	}
}

// SetCorpus installs a new corpus snapshot and discards every cache: the
// result cache, both progressive matcher caches, and the taxonomy indexes.
func (e *Engine) SetCorpus(c *corpus.Corpus) {
	e.corpus = c
	e.results.Clear()
	e.precise.Reset()
	e.fuzzy.Reset()
	e.taxonomy.ResetFolderCache()
}

// Corpus returns the installed corpus snapshot.
func (e *Engine) Corpus() *corpus.Corpus { return e.corpus }

// Taxonomy exposes the taxonomy matcher for the overview pages.
func (e *Engine) Taxonomy() *taxonomy.Matcher { return e.taxonomy }

// Search runs one full pass for the raw input as typed. The result array is
// freshly allocated per call, even on a cache hit; entries within it are
// copies and never alias the corpus.
func (e *Engine) Search(ctx context.Context, raw string) ([]corpus.SearchResult, error) {
	if e.corpus == nil {
		return nil, ErrNotInitialized
	}

	// Left-trim and lowercase only. Internal whitespace is preserved so
	// the double-space hybrid taxonomy syntax survives normalization.
	norm := strings.ToLower(strings.TrimLeft(raw, " \t"))
	mode, term := query.ResolveMode(norm)
	strategy := Strategy(e.cfg.Search.Strategy)
	hasTerm := strings.TrimSpace(term) != ""

	key := resultKey{term: norm, strategy: strategy, mode: mode}
	if hasTerm {
		if cached, ok := e.results.Get(key); ok {
			return cloneResults(cached), nil
		}
	}

	var candidates []corpus.SearchResult
	scoringTerm := ""
	if hasTerm || query.IsTaxonomy(mode) {
		candidates = e.matchCandidates(mode, term, strategy)
		scoringTerm = term
	} else {
		// Empty term, including a bare mode prefix like "t ": default
		// results for that mode, rendered without scoring against a term.
		var err error
		candidates, err = e.defaultResults(ctx, mode)
		if err != nil {
			return nil, err
		}
	}

	if err := scoring.Score(candidates, scoringTerm, e.openTabURLs(), e.cfg.Scoring); err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	if err := sortResults(candidates, sortModeFor(mode, hasTerm)); err != nil {
		return nil, err
	}

	candidates = e.truncate(candidates, mode)

	if hasTerm {
		highlightResults(candidates, highlightTerm(mode, term))
		e.results.Put(key, cloneResults(candidates))
	}
	return candidates, nil
}

// matchCandidates dispatches to the matcher selected by mode and strategy,
// then appends the synthetic results a pass may add on top.
func (e *Engine) matchCandidates(mode query.Mode, term string, strategy Strategy) []corpus.SearchResult {
	var out []corpus.SearchResult

	switch {
	case query.IsTaxonomy(mode):
		out = e.taxonomy.Search(term, taxonomyField(mode), e.corpus)
	case strategy == StrategyFuzzy:
		out = e.fuzzy.Search(mode, term, e.corpus, fuzzy.Options{Fuzziness: e.cfg.Search.Fuzziness})
	default:
		out = e.precise.Search(mode, term, e.corpus)
	}

	if mode == query.ModeAll {
		out = append(out, e.aliasResults(term)...)
	}
	if e.cfg.Search.DirectNavigation && looksLikeURL(term) {
		out = append(out, directResult(term))
	}
	if mode == query.ModeAll || mode == query.ModeSearch {
		out = append(out, e.engineResults(term)...)
	}
	return out
}

// truncate caps the result list except for the modes that are never
// truncated: tags, folders, tabs, and groups.
func (e *Engine) truncate(results []corpus.SearchResult, mode query.Mode) []corpus.SearchResult {
	switch mode {
	case query.ModeTags, query.ModeFolders, query.ModeTabs, query.ModeGroups:
		return results
	}
	if max := e.cfg.Search.MaxResults; len(results) > max {
		return results[:max]
	}
	return results
}

// openTabURLs is the cleaned-URL set backing the bookmark open-tab bonus.
func (e *Engine) openTabURLs() map[string]struct{} {
	out := make(map[string]struct{}, len(e.corpus.Tabs))
	for i := range e.corpus.Tabs {
		out[e.corpus.Tabs[i].CleanedURL] = struct{}{}
	}
	return out
}

// highlightTerm restores the taxonomy marker so it is matched by the
// highlighter; mode prefixes stay stripped.
func highlightTerm(mode query.Mode, term string) string {
	if m := query.Marker(mode); m != 0 {
		return string(m) + term
	}
	return term
}

func taxonomyField(mode query.Mode) taxonomy.Field {
	switch mode {
	case query.ModeFolders:
		return taxonomy.FieldFolder
	case query.ModeGroups:
		return taxonomy.FieldGroup
	default:
		return taxonomy.FieldTags
	}
}

// ResetPreciseCache discards the precise matcher's progressive caches,
// all modes when none are given. Bookmark-mutation workflows call this
// before the next search.
func (e *Engine) ResetPreciseCache(modes ...query.Mode) {
	e.precise.Reset(modes...)
}

// ResetFuzzyCache discards the fuzzy matcher's haystacks and engines.
func (e *Engine) ResetFuzzyCache(modes ...query.Mode) {
	e.fuzzy.Reset(modes...)
}

// ResetTaxonomyFolderCache discards the memoized taxonomy indexes.
func (e *Engine) ResetTaxonomyFolderCache() {
	e.taxonomy.ResetFolderCache()
}

// InvalidateResults drops the whole final-result cache. Invalidation is
// wholesale, never selective.
func (e *Engine) InvalidateResults() {
	e.results.Clear()
}

func cloneResults(in []corpus.SearchResult) []corpus.SearchResult {
	out := make([]corpus.SearchResult, len(in))
	copy(out, in)
	return out
}
