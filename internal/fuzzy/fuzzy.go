package fuzzy

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/query"
)

// Options tunes a fuzzy search pass.
type Options struct {
	// Fuzziness in [0,1]; see ConfigForTerm for how it maps onto the
	// engine configuration.
	Fuzziness float64
}

// datasetState is the reusable per-dataset match state: the memoized
// lowercase haystack aligned by index to the dataset, the engine built for
// the last effective configuration, and the last applied index set.
type datasetState struct {
	engine   *Engine
	haystack []string
	entries  []corpus.Entry
	lastTerm string
	lastIdxs []int
}

// Matcher runs fuzzy searches. The underlying match machinery initializes
// lazily on first use; initialization failure is recoverable and yields no
// fuzzy results for that pass. It is safe for concurrent use: overlapping
// passes are never cancelled, so a new keystroke's search may run while
// the previous one finishes.
type Matcher struct {
	mu          sync.Mutex
	logger      *slog.Logger
	states      map[string]*datasetState
	initialized bool
	initErr     error
}

// NewMatcher creates a fuzzy matcher. A nil logger falls back to
// slog.Default().
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger, states: make(map[string]*datasetState)}
}

// init defers engine bring-up until fuzzy search is actually used, keeping
// initial load light.
func (m *Matcher) init() error {
	if m.initialized {
		return m.initErr
	}
	m.initialized = true
	// Compile a trivial pattern so a broken regexp runtime surfaces here,
	// once, instead of on every token.
	_, m.initErr = NewEngine(EngineConfig{InsertionTolerance: 1}).Filter([]string{"warmup"}, "w", nil)
	return m.initErr
}

// Search returns entries from the mode's datasets approximately matching
// term. Tokens are split on spaces with AND semantics: each token narrows
// the index set left by the previous one, with early termination once the
// set is empty. SearchScore is fixed at 1; ranking differentiation comes
// from the scoring engine, not engine internals.
func (m *Matcher) Search(mode query.Mode, term string, c *corpus.Corpus, opts Options) []corpus.SearchResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.init(); err != nil {
		m.logger.Warn("fuzzy engine unavailable", "error", err)
		return nil
	}

	tokens := splitTokens(term)
	if len(tokens) == 0 {
		return nil
	}
	cfg := ConfigForTerm(term, opts.Fuzziness)

	var results []corpus.SearchResult
	for _, ds := range c.DatasetsForMode(mode) {
		st := m.stateFor(ds)

		// The engine is parameterized by the effective configuration;
		// a fuzziness or ASCII-ness change forces recreation.
		if st.engine == nil || st.engine.Config() != cfg {
			st.engine = NewEngine(cfg)
			st.lastTerm = ""
			st.lastIdxs = nil
		}

		idxs, err := m.filterTokens(st, term, tokens)
		if err != nil {
			m.logger.Debug("fuzzy pass failed", "dataset", ds.Name, "error", err)
			st.lastTerm = ""
			st.lastIdxs = nil
			continue
		}

		st.lastTerm = term
		st.lastIdxs = idxs

		for _, i := range idxs {
			results = append(results, corpus.NewResult(st.entries[i], corpus.ApproachFuzzy, 1))
		}
	}
	return results
}

// filterTokens narrows the dataset's index set one token at a time,
// reusing the previous index set when term extends the previous term.
func (m *Matcher) filterTokens(st *datasetState, term string, tokens []string) ([]int, error) {
	var idxs []int
	start := 0

	if st.lastIdxs != nil && st.lastTerm != "" && strings.HasPrefix(term, st.lastTerm) {
		idxs = st.lastIdxs
		if n := len(splitTokens(st.lastTerm)); n > 0 {
			start = n - 1
		}
	}

	for i := start; i < len(tokens); i++ {
		var err error
		idxs, err = st.engine.Filter(st.haystack, tokens[i], idxs)
		if err != nil {
			return nil, err
		}
		if len(idxs) == 0 {
			return nil, nil
		}
	}
	return idxs, nil
}

// stateFor returns the per-dataset state, building the lowercase haystack
// on first use. The haystack is memoized until Reset.
func (m *Matcher) stateFor(ds corpus.Dataset) *datasetState {
	st := m.states[ds.Name]
	if st == nil {
		st = &datasetState{}
		m.states[ds.Name] = st
	}
	if st.haystack == nil || len(st.entries) != len(ds.Entries) {
		st.entries = ds.Entries
		st.haystack = make([]string, len(ds.Entries))
		for i := range ds.Entries {
			st.haystack[i] = ds.Entries[i].SearchStringLower
		}
		st.lastTerm = ""
		st.lastIdxs = nil
	}
	return st
}

// Reset discards memoized haystacks and progressive state. With no
// arguments every mode is reset; otherwise only the datasets reachable
// from the given modes.
func (m *Matcher) Reset(modes ...query.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(modes) == 0 {
		m.states = make(map[string]*datasetState)
		return
	}
	for _, mode := range modes {
		for _, name := range datasetNames(mode) {
			delete(m.states, name)
		}
	}
}

func datasetNames(mode query.Mode) []string {
	switch mode {
	case query.ModeBookmarks:
		return []string{corpus.DatasetBookmarks}
	case query.ModeTabs:
		return []string{corpus.DatasetTabs}
	case query.ModeHistory:
		return []string{corpus.DatasetTabs, corpus.DatasetHistory}
	case query.ModeSearch:
		return nil
	default:
		return []string{corpus.DatasetBookmarks, corpus.DatasetTabs, corpus.DatasetHistory}
	}
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
