package picker

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	// Deterministic rendering regardless of the test terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func plain(segs []segment) string {
	var out string
	for _, s := range segs {
		out += s.text
	}
	return out
}

func TestParseMarked(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []segment
	}{
		{
			name:  "no markup",
			input: "Go Blog",
			want:  []segment{{text: "Go Blog"}},
		},
		{
			name:  "single span",
			input: "<mark>Go</mark> Blog",
			want:  []segment{{text: "Go", marked: true}, {text: " Blog"}},
		},
		{
			name:  "multiple spans",
			input: "the <mark>go</mark> pro<mark>gram</mark>ming",
			want: []segment{
				{text: "the "},
				{text: "go", marked: true},
				{text: " pro"},
				{text: "gram", marked: true},
				{text: "ming"},
			},
		},
		{
			name:  "unterminated span degrades to plain",
			input: "bad <mark>input",
			want:  []segment{{text: "bad "}, {text: "input"}},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMarked(tt.input))
		})
	}
}

func TestTruncateSegmentsFits(t *testing.T) {
	segs := parseMarked("<mark>go</mark> blog")
	assert.Equal(t, segs, truncateSegments(segs, 20), "no truncation when it fits")
}

func TestTruncateSegmentsCutsWithEllipsis(t *testing.T) {
	segs := parseMarked("a very long bookmark title")
	out := truncateSegments(segs, 10)

	text := plain(out)
	assert.Equal(t, "a very lo…", text)
	assert.LessOrEqual(t, segmentsWidth(out), 10)
}

func TestTruncateSegmentsPreservesMarkState(t *testing.T) {
	segs := parseMarked("pre <mark>matched</mark> post")
	out := truncateSegments(segs, 8)

	// "pre " + "mat" + ellipsis
	assert.Equal(t, "pre mat…", plain(out))
	assert.True(t, out[1].marked)
}

func TestTruncateSegmentsWideRunes(t *testing.T) {
	segs := []segment{{text: "日本語のタイトル"}}
	out := truncateSegments(segs, 8)

	assert.LessOrEqual(t, segmentsWidth(out), 8)
	assert.Equal(t, "…", out[len(out)-1].text)
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "clean", StripANSI("\x1b[31mclean\x1b[0m"))
	assert.Equal(t, "no escapes", StripANSI("no escapes"))
}

func TestValidateUTF8(t *testing.T) {
	assert.Equal(t, "ok", ValidateUTF8("ok"))
	assert.Equal(t, "a�b", ValidateUTF8("a\xffb"))
}
