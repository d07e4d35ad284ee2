package picker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// markStyle renders the matched spans inside a result field.
var markStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

// segment is one run of a result field, either matched or plain.
type segment struct {
	text   string
	marked bool
}

// markTags delimit matched spans in highlighted fields.
const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// parseMarked splits a highlighted field into plain and matched segments.
// Unbalanced markup degrades to plain text.
func parseMarked(s string) []segment {
	var segs []segment
	for s != "" {
		open := strings.Index(s, markOpen)
		if open < 0 {
			segs = append(segs, segment{text: s})
			break
		}
		if open > 0 {
			segs = append(segs, segment{text: s[:open]})
		}
		rest := s[open+len(markOpen):]
		close := strings.Index(rest, markClose)
		if close < 0 {
			segs = append(segs, segment{text: rest})
			break
		}
		segs = append(segs, segment{text: rest[:close], marked: true})
		s = rest[close+len(markClose):]
	}
	return segs
}

// segmentsWidth returns the display width of the plain text of segs.
func segmentsWidth(segs []segment) int {
	w := 0
	for _, seg := range segs {
		w += runewidth.StringWidth(seg.text)
	}
	return w
}

// truncateSegments limits segs to maxWidth display columns, appending an
// ellipsis when anything was cut.
func truncateSegments(segs []segment, maxWidth int) []segment {
	if maxWidth <= 0 {
		return nil
	}
	if segmentsWidth(segs) <= maxWidth {
		return segs
	}

	const ellipsis = "…"
	budget := maxWidth - 1

	var out []segment
	for _, seg := range segs {
		w := runewidth.StringWidth(seg.text)
		if w <= budget {
			out = append(out, seg)
			budget -= w
			continue
		}
		if cut := widthPrefix(seg.text, budget); cut != "" {
			out = append(out, segment{text: cut, marked: seg.marked})
		}
		break
	}
	return append(out, segment{text: ellipsis})
}

// widthPrefix returns the longest prefix of s whose display width does not
// exceed maxWidth.
func widthPrefix(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

// renderSegments styles a segment list: base style for plain runs, the
// mark style for matched runs.
func renderSegments(segs []segment, base lipgloss.Style) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.marked {
			b.WriteString(markStyle.Render(seg.text))
		} else {
			b.WriteString(base.Render(seg.text))
		}
	}
	return b.String()
}

// ansiRE matches ANSI escape sequences so stray control data in page titles
// cannot corrupt the list rendering.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;]*[A-Za-z]` + // CSI sequences (SGR, cursor, etc.)
	`|` +
	`\].*?(?:\x1b\\|\x07)` + // OSC sequences (terminated by ST or BEL)
	`|` +
	`[()][A-B0-2]` + // Charset designation sequences
	`|` +
	`[#()*+\-./][A-Za-z0-9]` + // Other two-byte escape sequences
	`)`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// ValidateUTF8 replaces invalid UTF-8 byte sequences with the Unicode
// replacement character (U+FFFD).
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			i++
		} else {
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}
