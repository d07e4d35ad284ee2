package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/markfind/internal/corpus"
)

// zeroBonusOptions returns options where only base scores pay out, so
// individual bonuses can be verified in isolation.
func zeroBonusOptions() Options {
	return Options{
		BookmarkBaseScore:     100,
		TabBaseScore:          90,
		HistoryBaseScore:      50,
		CustomSearchBaseScore: 40,
		DirectBaseScore:       30,
		SearchEngineBaseScore: 20,
		ScoreWeight:           1,
		MinMatchLength:        2,
		IncludesTokenCap:      5,
		RecencyDays:           14,
	}
}

func result(typ corpus.Type, title, url, tags, folder string) corpus.SearchResult {
	e := corpus.Entry{Type: typ, Title: title, URL: url, Tags: tags, Folder: folder}
	e.Normalize()
	return corpus.NewResult(e, corpus.ApproachPrecise, 1)
}

func scoreSingle(t *testing.T, r corpus.SearchResult, term string, opts Options) float64 {
	t.Helper()
	results := []corpus.SearchResult{r}
	require.NoError(t, Score(results, term, nil, opts))
	return results[0].Score
}

// Scenario: base options, empty term, bookmark titled "Foo".
func TestBookmarkBaseScoreOnly(t *testing.T) {
	r := result(corpus.TypeBookmark, "Foo", "https://foo.example.com", "", "")
	got := scoreSingle(t, r, "", DefaultOptions())
	assert.InDelta(t, 100, got, 0.001)
}

// Scenario: title "alpha project", term "alpha", starts-with bonus 8, all
// other bonuses zeroed.
func TestStartsWithBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.StartsWithBonus = 8

	r := result(corpus.TypeBookmark, "alpha project", "https://example.com", "", "")
	got := scoreSingle(t, r, "alpha", opts)
	assert.InDelta(t, 108, got, 0.001)
}

// Scenario: tag "#tutorial", term "tutorial": includes bonus 10 at tag
// weight 0.7 plus exact-tag bonus 10 on top of the bookmark base.
func TestExactTagPlusIncludesBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.IncludesBonus = 10
	opts.TagWeight = 0.7
	opts.ExactTagBonus = 10

	r := result(corpus.TypeBookmark, "Setting Up", "https://example.com", "#tutorial", "")
	got := scoreSingle(t, r, "tutorial", opts)
	assert.InDelta(t, 117, got, 0.001)
}

// "java" must not earn the exact-tag bonus against "#javascript", but must
// earn the substring includes bonus.
func TestExactVsPartialTagBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.ExactTagBonus = 10

	r := result(corpus.TypeBookmark, "Setting Up", "https://example.com", "#javascript", "")
	got := scoreSingle(t, r, "java", opts)
	assert.InDelta(t, 100, got, 0.001, "no exact bonus for a substring")

	opts.IncludesBonus = 10
	opts.TagWeight = 0.7
	got = scoreSingle(t, r, "java", opts)
	assert.InDelta(t, 107, got, 0.001, "includes bonus still applies")
}

func TestBaseScorePerType(t *testing.T) {
	opts := zeroBonusOptions()
	tests := []struct {
		typ  corpus.Type
		want float64
	}{
		{corpus.TypeBookmark, 100},
		{corpus.TypeTab, 90},
		{corpus.TypeHistory, 50},
		{corpus.TypeCustomSearch, 40},
		{corpus.TypeDirect, 30},
		{corpus.TypeSearch, 20},
	}
	for _, tt := range tests {
		r := result(tt.typ, "x", "", "", "")
		assert.InDelta(t, tt.want, scoreSingle(t, r, "", opts), 0.001, "type=%s", tt.typ)
	}
}

func TestUnsupportedResultTypeIsFatal(t *testing.T) {
	r := result(corpus.Type("widget"), "x", "", "", "")
	err := Score([]corpus.SearchResult{r}, "", nil, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}

func TestSearchScoreMultiplier(t *testing.T) {
	opts := zeroBonusOptions()

	r := result(corpus.TypeBookmark, "x", "", "", "")
	r.SearchScore = 0.5
	assert.InDelta(t, 50, scoreSingle(t, r, "", opts), 0.001)

	// Absent searchScore falls back to the configured default weight.
	r.SearchScore = 0
	opts.ScoreWeight = 0.8
	assert.InDelta(t, 80, scoreSingle(t, r, "", opts), 0.001)
}

func TestEqualsBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.EqualsBonus = 15

	r := result(corpus.TypeBookmark, "Alpha", "", "", "")
	assert.InDelta(t, 115, scoreSingle(t, r, "alpha", opts), 0.001)
	assert.InDelta(t, 100, scoreSingle(t, r, "alph", opts), 0.001)
}

func TestStartsWithBonusOnURL(t *testing.T) {
	opts := zeroBonusOptions()
	opts.StartsWithBonus = 8

	// The term is hyphen-joined before comparison against the cleaned URL.
	r := result(corpus.TypeBookmark, "Docs", "https://go-blog.example.com", "", "")
	assert.InDelta(t, 108, scoreSingle(t, r, "go blog", opts), 0.001)
}

func TestRepeatedTokensMultiplyExactBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.ExactTagBonus = 10

	r := result(corpus.TypeBookmark, "x", "", "#go", "")
	assert.InDelta(t, 120, scoreSingle(t, r, "go go", opts), 0.001)
}

func TestIncludesFieldPriority(t *testing.T) {
	opts := zeroBonusOptions()
	opts.IncludesBonus = 10
	opts.TitleWeight = 1
	opts.URLWeight = 0.9
	opts.TagWeight = 0.7

	// Token appears in title, url, and tags: only title (first field) pays.
	r := result(corpus.TypeBookmark, "go handbook", "https://go.dev", "#go", "")
	assert.InDelta(t, 110, scoreSingle(t, r, "go", opts), 0.001)

	// Token only in url: url weight applies.
	r = result(corpus.TypeBookmark, "handbook", "https://go.dev", "", "")
	assert.InDelta(t, 109, scoreSingle(t, r, "go", opts), 0.001)
}

func TestIncludesTokenRules(t *testing.T) {
	opts := zeroBonusOptions()
	opts.IncludesBonus = 10
	opts.TitleWeight = 1

	// Below the minimum length and not numeric: no bonus.
	r := result(corpus.TypeBookmark, "a list", "", "", "")
	assert.InDelta(t, 100, scoreSingle(t, r, "a", opts), 0.001)

	// Purely numeric tokens qualify regardless of length.
	r = result(corpus.TypeBookmark, "page 7", "", "", "")
	assert.InDelta(t, 110, scoreSingle(t, r, "7", opts), 0.001)
}

func TestIncludesTokenCap(t *testing.T) {
	opts := zeroBonusOptions()
	opts.IncludesBonus = 10
	opts.TitleWeight = 1
	opts.IncludesTokenCap = 2

	r := result(corpus.TypeBookmark, "one two three four", "", "", "")
	// Four qualifying tokens, only two may pay.
	assert.InDelta(t, 120, scoreSingle(t, r, "one two three four", opts), 0.001)
}

func TestPhraseBonusMultiTokenOnly(t *testing.T) {
	opts := zeroBonusOptions()
	opts.PhraseBonus = 10

	r := result(corpus.TypeBookmark, "the go blog posts", "", "", "")
	assert.InDelta(t, 110, scoreSingle(t, r, "go blog", opts), 0.001)

	// Single-token queries never earn the phrase bonus.
	assert.InDelta(t, 100, scoreSingle(t, r, "blog", opts), 0.001)
}

func TestVisitBonusCapped(t *testing.T) {
	opts := zeroBonusOptions()
	opts.VisitBonus = 0.25
	opts.VisitBonusCap = 20

	r := result(corpus.TypeHistory, "x", "", "", "")
	r.VisitCount = 40
	assert.InDelta(t, 60, scoreSingle(t, r, "", opts), 0.001)

	r.VisitCount = 1000
	assert.InDelta(t, 70, scoreSingle(t, r, "", opts), 0.001, "capped at 20")
}

func TestRecencyBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.RecencyBonusMax = 20
	opts.RecencyDays = 14
	window := int64(14 * 24 * 60 * 60)

	mk := func(secs int64) corpus.SearchResult {
		r := result(corpus.TypeHistory, "x", "", "", "")
		r.LastVisitSecondsAgo = &secs
		return r
	}

	// Exactly zero seconds ago always gets the maximum.
	assert.InDelta(t, 70, scoreSingle(t, mk(0), "", opts), 0.001)
	// Halfway through the window: half the bonus.
	assert.InDelta(t, 60, scoreSingle(t, mk(window/2), "", opts), 0.001)
	// Beyond the window: nothing.
	assert.InDelta(t, 50, scoreSingle(t, mk(window+1), "", opts), 0.001)
	// Missing metadata: nothing.
	assert.InDelta(t, 50, scoreSingle(t, result(corpus.TypeHistory, "x", "", "", ""), "", opts), 0.001)
}

func TestOpenTabBonusBookmarksOnly(t *testing.T) {
	opts := zeroBonusOptions()
	opts.OpenTabBonus = 10
	open := map[string]struct{}{"example.com/page": {}}

	b := result(corpus.TypeBookmark, "x", "https://example.com/page", "", "")
	results := []corpus.SearchResult{b}
	require.NoError(t, Score(results, "", open, opts))
	assert.InDelta(t, 110, results[0].Score, 0.001)

	h := result(corpus.TypeHistory, "x", "https://example.com/page", "", "")
	results = []corpus.SearchResult{h}
	require.NoError(t, Score(results, "", open, opts))
	assert.InDelta(t, 50, results[0].Score, 0.001, "history entries never earn it")
}

func TestCustomBonus(t *testing.T) {
	opts := zeroBonusOptions()
	opts.CustomBonusEnabled = true

	r := result(corpus.TypeBookmark, "x", "", "", "")
	r.CustomBonus = 25
	assert.InDelta(t, 125, scoreSingle(t, r, "", opts), 0.001)

	opts.CustomBonusEnabled = false
	assert.InDelta(t, 100, scoreSingle(t, r, "", opts), 0.001)
}

// Additivity: with every stage configured, the final score equals the
// multiplied base plus each bonus computed independently.
func TestScoringAdditivity(t *testing.T) {
	opts := zeroBonusOptions()
	opts.StartsWithBonus = 8
	opts.EqualsBonus = 15
	opts.IncludesBonus = 10
	opts.TitleWeight = 1
	opts.VisitBonus = 0.5
	opts.VisitBonusCap = 20
	opts.CustomBonusEnabled = true

	r := result(corpus.TypeBookmark, "alpha", "", "", "")
	r.VisitCount = 10
	r.CustomBonus = 3

	// 100*1 + startsWith 8 + equals 15 + includes 10 + visits 5 + custom 3
	assert.InDelta(t, 141, scoreSingle(t, r, "alpha", opts), 0.001)
}

func TestScoreDoesNotTouchTermlessFieldBonuses(t *testing.T) {
	opts := zeroBonusOptions()
	opts.StartsWithBonus = 8
	opts.EqualsBonus = 15
	opts.IncludesBonus = 10
	opts.TitleWeight = 1

	r := result(corpus.TypeBookmark, "alpha", "", "", "")
	assert.InDelta(t, 100, scoreSingle(t, r, "", opts), 0.001)
}
