// Package fuzzy implements approximate matching with typo tolerance. Each
// dataset gets a reusable match engine compiled for the active tolerance
// configuration; the engine narrows an index set token by token.
package fuzzy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// maxNeedleRunes bounds single-error pattern expansion. Tokens beyond this
// are rejected as malformed rather than compiled into pathological patterns.
const maxNeedleRunes = 64

// ErrNeedleRejected is returned when a token cannot be compiled into a
// match pattern. Callers recover by returning no fuzzy results.
var ErrNeedleRejected = errors.New("fuzzy: needle rejected")

// EngineConfig is the effective matching configuration. Changing any field
// requires a new engine instance.
type EngineConfig struct {
	// InsertionTolerance is how many extra characters may appear between
	// adjacent needle characters, derived from the 0-1 fuzziness setting.
	InsertionTolerance int

	// Unicode switches token matching to a non-ASCII-aware mode where gap
	// characters are not limited to non-space runes.
	Unicode bool

	// SingleError additionally tolerates one substitution, transposition,
	// or deletion error per token. Active at fuzziness >= 0.8.
	SingleError bool
}

// ConfigForTerm derives the engine configuration for a term under the given
// fuzziness level: round(fuzziness*4.2) characters of insertion tolerance,
// unicode mode when the term contains non-ASCII codepoints, and single-error
// tolerance at fuzziness >= 0.8.
func ConfigForTerm(term string, fuzziness float64) EngineConfig {
	return EngineConfig{
		InsertionTolerance: int(fuzziness*4.2 + 0.5),
		Unicode:            !isASCII(term),
		SingleError:        fuzziness >= 0.8,
	}
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// Engine matches tokens against a haystack of lowercase strings. Compiled
// patterns are memoized per needle so extending keystrokes stay cheap.
type Engine struct {
	cfg      EngineConfig
	patterns map[string]*regexp.Regexp
}

// NewEngine creates a match engine for the given configuration.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{cfg: cfg, patterns: make(map[string]*regexp.Regexp)}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() EngineConfig { return e.cfg }

// Filter returns the haystack indexes whose string matches needle. When
// prev is non-nil only those indexes are considered, which is how AND
// semantics across tokens narrow the working set.
func (e *Engine) Filter(haystack []string, needle string, prev []int) ([]int, error) {
	re, err := e.compile(needle)
	if err != nil {
		return nil, err
	}

	var out []int
	if prev == nil {
		for i, h := range haystack {
			if re.MatchString(h) {
				out = append(out, i)
			}
		}
		return out, nil
	}

	for _, i := range prev {
		if i >= 0 && i < len(haystack) && re.MatchString(haystack[i]) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (e *Engine) compile(needle string) (*regexp.Regexp, error) {
	if re, ok := e.patterns[needle]; ok {
		return re, nil
	}

	runes := []rune(needle)
	if len(runes) == 0 || len(runes) > maxNeedleRunes {
		return nil, fmt.Errorf("%w: %d runes", ErrNeedleRejected, len(runes))
	}

	var pattern string
	if e.cfg.SingleError {
		variants := []string{e.joinRunes(runes)}
		variants = append(variants, e.errorVariants(runes)...)
		pattern = "(?:" + strings.Join(variants, "|") + ")"
	} else {
		pattern = e.joinRunes(runes)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNeedleRejected, err)
	}
	e.patterns[needle] = re
	return re, nil
}

// gapClass is the pattern for tolerated insertions between needle runes.
func (e *Engine) gapClass() string {
	if e.cfg.InsertionTolerance <= 0 {
		return ""
	}
	class := "[^ ]"
	if e.cfg.Unicode {
		class = "[\\s\\S]"
	}
	return fmt.Sprintf("%s{0,%d}", class, e.cfg.InsertionTolerance)
}

// joinRunes builds the base pattern: the needle runes in order, each pair
// separated by the insertion gap.
func (e *Engine) joinRunes(runes []rune) string {
	gap := e.gapClass()
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = regexp.QuoteMeta(string(r))
	}
	return strings.Join(parts, gap)
}

// errorVariants generates one pattern per tolerated single-token error:
// a substitution at each position, a deletion of each typed rune, and a
// transposition of each adjacent pair.
func (e *Engine) errorVariants(runes []rune) []string {
	var out []string

	wildcard := "[^ ]"
	if e.cfg.Unicode {
		wildcard = "[\\s\\S]"
	}

	for i := range runes {
		// Substitution: the rune at i may be anything.
		sub := make([]rune, len(runes))
		copy(sub, runes)
		out = append(out, e.joinWithWildcard(sub, i, wildcard))

		// Deletion: the user typed an extra rune; skip it.
		if len(runes) > 1 {
			del := make([]rune, 0, len(runes)-1)
			del = append(del, runes[:i]...)
			del = append(del, runes[i+1:]...)
			out = append(out, e.joinRunes(del))
		}

		// Transposition of adjacent runes.
		if i+1 < len(runes) && runes[i] != runes[i+1] {
			tr := make([]rune, len(runes))
			copy(tr, runes)
			tr[i], tr[i+1] = tr[i+1], tr[i]
			out = append(out, e.joinRunes(tr))
		}
	}
	return out
}

// joinWithWildcard is joinRunes with the rune at idx replaced by wildcard.
func (e *Engine) joinWithWildcard(runes []rune, idx int, wildcard string) string {
	gap := e.gapClass()
	parts := make([]string, len(runes))
	for i, r := range runes {
		if i == idx {
			parts[i] = wildcard
		} else {
			parts[i] = regexp.QuoteMeta(string(r))
		}
	}
	return strings.Join(parts, gap)
}
