// Package scoring assigns the final relevance score to search results. The
// pipeline has five stages: a per-type base score, a match-quality
// multiplier, field bonuses against the query term, behavioral bonuses from
// visit metadata, and an optional user-supplied custom bonus. Stages after
// the multiplier are purely additive; scores are comparable only within one
// pass under one option snapshot.
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/runger/markfind/internal/corpus"
)

// ErrUnsupportedResultType signals a result type the scorer does not know.
// It is fatal to the search pass: silently skipping it would hide
// integration bugs between matchers and scorer.
var ErrUnsupportedResultType = errors.New("unsupported result type")

// Options is the full scoring configuration snapshot. The engine treats it
// as read-only for the duration of a pass.
type Options struct {
	// Stage 1: base score per result type.
	BookmarkBaseScore     float64 `yaml:"bookmark_base_score"`
	TabBaseScore          float64 `yaml:"tab_base_score"`
	HistoryBaseScore      float64 `yaml:"history_base_score"`
	CustomSearchBaseScore float64 `yaml:"custom_search_base_score"`
	DirectBaseScore       float64 `yaml:"direct_base_score"`
	SearchEngineBaseScore float64 `yaml:"search_engine_base_score"`

	// Stage 2: fallback multiplier when a result carries no SearchScore.
	ScoreWeight float64 `yaml:"score_weight"`

	// Stage 3: field bonuses.
	StartsWithBonus  float64 `yaml:"starts_with_bonus"`
	EqualsBonus      float64 `yaml:"equals_bonus"`
	ExactTagBonus    float64 `yaml:"exact_tag_bonus"`
	ExactFolderBonus float64 `yaml:"exact_folder_bonus"`
	ExactGroupBonus  float64 `yaml:"exact_group_bonus"`
	IncludesBonus    float64 `yaml:"includes_bonus"`
	TitleWeight      float64 `yaml:"title_weight"`
	URLWeight        float64 `yaml:"url_weight"`
	TagWeight        float64 `yaml:"tag_weight"`
	FolderWeight     float64 `yaml:"folder_weight"`
	GroupWeight      float64 `yaml:"group_weight"`
	PhraseBonus      float64 `yaml:"phrase_bonus"`

	// MinMatchLength is the minimum token length for the includes bonus;
	// purely numeric tokens qualify regardless.
	MinMatchLength int `yaml:"min_match_length"`

	// IncludesTokenCap limits how many tokens may earn the includes bonus
	// per result, so pathological long queries cannot inflate scores
	// unbounded.
	IncludesTokenCap int `yaml:"includes_token_cap"`

	// Stage 4: behavioral bonuses.
	VisitBonus      float64 `yaml:"visit_bonus"`      // linear per visit
	VisitBonusCap   float64 `yaml:"visit_bonus_cap"`  // total cap
	RecencyBonusMax float64 `yaml:"recency_bonus_max"`
	RecencyDays     int     `yaml:"recency_days"` // decay window; zero bonus beyond
	OpenTabBonus    float64 `yaml:"open_tab_bonus"`

	// Stage 5.
	CustomBonusEnabled bool `yaml:"custom_bonus_enabled"`
}

// DefaultOptions returns the stock option sheet.
func DefaultOptions() Options {
	return Options{
		BookmarkBaseScore:     100,
		TabBaseScore:          90,
		HistoryBaseScore:      50,
		CustomSearchBaseScore: 40,
		DirectBaseScore:       30,
		SearchEngineBaseScore: 20,
		ScoreWeight:           1,
		StartsWithBonus:       10,
		EqualsBonus:           15,
		ExactTagBonus:         10,
		ExactFolderBonus:      5,
		ExactGroupBonus:       5,
		IncludesBonus:         10,
		TitleWeight:           1,
		URLWeight:             0.9,
		TagWeight:             0.7,
		FolderWeight:          0.5,
		GroupWeight:           0.5,
		PhraseBonus:           10,
		MinMatchLength:        2,
		IncludesTokenCap:      5,
		VisitBonus:            0.25,
		VisitBonusCap:         20,
		RecencyBonusMax:       20,
		RecencyDays:           14,
		OpenTabBonus:          10,
		CustomBonusEnabled:    true,
	}
}

// Score assigns a final score to every result in place. term is the parsed
// query term (mode prefix already stripped); openTabs is the set of cleaned
// URLs currently open as tabs, used for the bookmark open-tab bonus. The
// corpus is never touched: results own copies of their entries.
func Score(results []corpus.SearchResult, term string, openTabs map[string]struct{}, opts Options) error {
	term = strings.ToLower(term)
	tokens := strings.Fields(term)

	for i := range results {
		score, err := scoreOne(&results[i], term, tokens, openTabs, opts)
		if err != nil {
			return err
		}
		results[i].Score = score
	}
	return nil
}

func scoreOne(r *corpus.SearchResult, term string, tokens []string, openTabs map[string]struct{}, opts Options) (float64, error) {
	base, err := baseScore(r.Type, opts)
	if err != nil {
		return 0, err
	}

	multiplier := r.SearchScore
	if multiplier == 0 {
		multiplier = opts.ScoreWeight
	}
	score := base * multiplier

	if term != "" {
		score += fieldBonuses(r, term, tokens, opts)
	}
	score += behavioralBonuses(r, openTabs, opts)

	if opts.CustomBonusEnabled {
		score += r.CustomBonus
	}
	return score, nil
}

func baseScore(t corpus.Type, opts Options) (float64, error) {
	switch t {
	case corpus.TypeBookmark:
		return opts.BookmarkBaseScore, nil
	case corpus.TypeTab:
		return opts.TabBaseScore, nil
	case corpus.TypeHistory:
		return opts.HistoryBaseScore, nil
	case corpus.TypeCustomSearch:
		return opts.CustomSearchBaseScore, nil
	case corpus.TypeDirect:
		return opts.DirectBaseScore, nil
	case corpus.TypeSearch:
		return opts.SearchEngineBaseScore, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedResultType, t)
	}
}

func fieldBonuses(r *corpus.SearchResult, term string, tokens []string, opts Options) float64 {
	var bonus float64
	title := strings.ToLower(r.Title)
	url := strings.ToLower(r.CleanedURL)
	urlTerm := strings.ReplaceAll(term, " ", "-")

	if strings.HasPrefix(title, term) || strings.HasPrefix(url, urlTerm) {
		bonus += opts.StartsWithBonus
	}
	if title == term {
		bonus += opts.EqualsBonus
	}

	// Exact taxonomy bonuses: awarded per token that exactly equals a
	// value, never for substrings. Repeated identical tokens each earn the
	// bonus independently; repetition signals relevance.
	for _, tok := range tokens {
		for _, tag := range r.TagList {
			if tok == tag {
				bonus += opts.ExactTagBonus
			}
		}
		for _, folder := range r.FolderList {
			if tok == folder {
				bonus += opts.ExactFolderBonus
			}
		}
		if r.Group != "" && tok == strings.ToLower(r.Group) {
			bonus += opts.ExactGroupBonus
		}
	}

	bonus += includesBonuses(r, tokens, title, url, opts)

	// Phrase bonus covers only multi-token queries; single tokens are
	// already paid by the starts-with and includes bonuses.
	if len(tokens) > 1 {
		if strings.Contains(title, term) || strings.Contains(url, urlTerm) {
			bonus += opts.PhraseBonus
		}
	}
	return bonus
}

// includesBonuses pays the substring bonus per qualifying token, checking
// fields in strict priority order and paying only the first matching field
// per token. The number of paying tokens is capped.
func includesBonuses(r *corpus.SearchResult, tokens []string, title, url string, opts Options) float64 {
	var bonus float64
	paid := 0
	tags := strings.ToLower(r.Tags)
	folder := strings.ToLower(r.Folder)
	group := strings.ToLower(r.Group)

	for _, tok := range tokens {
		if paid >= opts.IncludesTokenCap {
			break
		}
		if len([]rune(tok)) < opts.MinMatchLength && !isNumeric(tok) {
			continue
		}

		switch {
		case strings.Contains(title, tok):
			bonus += opts.IncludesBonus * opts.TitleWeight
		case strings.Contains(url, tok):
			bonus += opts.IncludesBonus * opts.URLWeight
		case tags != "" && strings.Contains(tags, tok):
			bonus += opts.IncludesBonus * opts.TagWeight
		case folder != "" && strings.Contains(folder, tok):
			bonus += opts.IncludesBonus * opts.FolderWeight
		case group != "" && strings.Contains(group, tok):
			bonus += opts.IncludesBonus * opts.GroupWeight
		default:
			continue
		}
		paid++
	}
	return bonus
}

func behavioralBonuses(r *corpus.SearchResult, openTabs map[string]struct{}, opts Options) float64 {
	var bonus float64

	if r.VisitCount > 0 {
		visit := opts.VisitBonus * float64(r.VisitCount)
		if visit > opts.VisitBonusCap {
			visit = opts.VisitBonusCap
		}
		bonus += visit
	}

	if r.LastVisitSecondsAgo != nil && opts.RecencyDays > 0 {
		secs := *r.LastVisitSecondsAgo
		window := float64(opts.RecencyDays) * 24 * 60 * 60
		switch {
		case secs == 0:
			// An exact just-now visit always gets the maximum.
			bonus += opts.RecencyBonusMax
		case float64(secs) < window:
			bonus += opts.RecencyBonusMax * (1 - float64(secs)/window)
		}
	}

	if r.Type == corpus.TypeBookmark && openTabs != nil {
		if _, open := openTabs[r.CleanedURL]; open {
			bonus += opts.OpenTabBonus
		}
	}
	return bonus
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
