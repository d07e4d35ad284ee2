// Package picker implements the interactive result picker TUI: a query
// input, a ranked result list that refreshes on every keystroke, and
// keyboard navigation that never triggers a refetch.
package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/markfind/internal/config"
	"github.com/runger/markfind/internal/corpus"
)

// debounceInterval is the delay after the last keystroke before triggering
// a search.
const debounceInterval = 50 * time.Millisecond

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before first search
	stateLoading                      // Search in progress
	stateLoaded                       // Results present
	stateEmpty                        // Search succeeded with 0 results
	stateError                        // Search failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// searchDoneMsg is sent when an async Provider.Search completes.
type searchDoneMsg struct {
	requestID uint64
	results   []corpus.SearchResult
	err       error
}

// debounceMsg fires after the debounce timer expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// initMsg is sent by Init() to trigger the first search via Update(),
// ensuring state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// Model is the Bubble Tea model for the result picker TUI.
type Model struct {
	state     pickerState
	cfg       config.PickerConfig
	input     textinput.Model
	results   []corpus.SearchResult
	selection int // Index into results; -1 when empty
	err       error

	requestID uint64 // Monotonic counter for stale detection
	provider  Provider

	width  int
	height int

	// result holds the selected entry after the user presses Enter.
	result *corpus.SearchResult

	// selectOnLoad is set when Enter arrives while a search is still in
	// flight; the pass that completes picks the top result and quits.
	selectOnLoad bool

	// cancelSearch cancels the in-flight Provider.Search context.
	cancelSearch context.CancelFunc

	// debounceID tracks the latest debounce timer; only a matching
	// debounceMsg triggers a search.
	debounceID uint64
}

// NewModel creates a new picker Model.
func NewModel(cfg config.PickerConfig, provider Provider) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "search bookmarks, tabs, history"
	input.Focus()

	return Model{
		state:     stateIdle,
		cfg:       cfg,
		input:     input,
		selection: -1,
		provider:  provider,
	}
}

// WithQuery pre-fills the query input.
func (m Model) WithQuery(q string) Model {
	m.input.SetValue(q)
	m.input.CursorEnd()
	return m
}

// Result returns the selected result, or nil when cancelled.
func (m Model) Result() *corpus.SearchResult {
	return m.result
}

// IsCancelled reports whether the user dismissed the picker.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

// Init implements tea.Model. It sends an initMsg so that the first search
// is triggered through Update, where state mutations are properly captured.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case debounceMsg:
		return m.handleDebounce(msg)

	case initMsg:
		return m, m.startSearch()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input. Navigation keys only move the
// selection; the result list is not refetched.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.state = stateCancelled
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyEnter:
		if m.state == stateLoading {
			m.selectOnLoad = true
			return m, nil
		}
		if m.selection >= 0 && m.selection < len(m.results) {
			r := m.results[m.selection]
			m.result = &r
		}
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.selection < len(m.results)-1 {
			m.selection++
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.startDebounce())
	}
	return m, cmd
}

// handleSearchDone processes the result of an async search.
func (m Model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	// Discard stale responses.
	if msg.requestID != m.requestID {
		return m, nil
	}

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.results = nil
		m.selection = -1
		m.selectOnLoad = false
		return m, nil
	}

	m.results = msg.results
	if len(m.results) == 0 {
		m.state = stateEmpty
		m.selection = -1
	} else {
		m.state = stateLoaded
		m.clampSelection()
	}

	if m.selectOnLoad {
		m.selectOnLoad = false
		if m.selection >= 0 && m.selection < len(m.results) {
			r := m.results[m.selection]
			m.result = &r
		}
		return m, tea.Quit
	}

	return m, nil
}

// handleDebounce fires the search if the debounce timer is still current.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil // Stale debounce timer; ignore.
	}
	return m, m.startSearch()
}

// startDebounce increments the debounce counter and returns a tea.Tick
// command that fires after debounceInterval.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startSearch cancels any in-flight search, increments requestID, and
// returns a tea.Cmd that calls the provider.
func (m *Model) startSearch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSearch = cancel

	req := Request{RequestID: reqID, Term: m.input.Value()}
	p := m.provider
	return func() tea.Msg {
		resp, err := p.Search(ctx, req)
		if err != nil {
			return searchDoneMsg{requestID: reqID, err: err}
		}
		return searchDoneMsg{requestID: reqID, results: resp.Results}
	}
}

// cancelInflight cancels any in-progress search context.
func (m *Model) cancelInflight() {
	if m.cancelSearch != nil {
		m.cancelSearch()
		m.cancelSearch = nil
	}
}

// clampSelection ensures the selection index is within bounds.
func (m *Model) clampSelection() {
	if len(m.results) == 0 {
		m.selection = -1
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.results) {
		m.selection = len(m.results) - 1
	}
}

// visibleRows returns how many result rows fit: the configured cap bounded
// by the terminal height minus the input and status lines.
func (m Model) visibleRows() int {
	rows := m.cfg.MaxVisibleRows
	if rows < 1 {
		rows = 12
	}
	const chrome = 2
	if m.height > chrome && m.height-chrome < rows {
		rows = m.height - chrome
	}
	return rows
}

// --- View rendering ---

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	urlStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	b.WriteString(m.viewContent())
	return b.String()
}

// viewContent renders the result list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		if len(m.results) > 0 {
			// Keep the previous list on screen while the next pass runs.
			return m.viewList()
		}
		return dimStyle.Render("Searching...")

	case stateEmpty:
		return dimStyle.Render("No matches")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded:
		return m.viewList()

	default:
		return ""
	}
}

// viewList renders the visible result rows with the selection marker.
func (m Model) viewList() string {
	var b strings.Builder
	max := m.visibleRows()
	for i, r := range m.results {
		if i >= max {
			break
		}
		line := m.renderRow(&r, i == m.selection)
		b.WriteString(line)
		if i < len(m.results)-1 && i < max-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// renderRow renders one result: type badge, highlighted title, dim URL,
// optional score, truncated to the terminal width.
func (m Model) renderRow(r *corpus.SearchResult, selected bool) string {
	marker := "  "
	style := normalStyle
	if selected {
		marker = "> "
		style = selectedStyle
	}

	titleSegs := parseMarked(StripANSI(ValidateUTF8(displayOr(r.HighlightedTitle, r.Title))))
	urlSegs := parseMarked(StripANSI(ValidateUTF8(displayOr(r.HighlightedURL, r.CleanedURL))))

	// Fit title and URL into the terminal width, title first.
	avail := 0
	if m.width > 0 {
		avail = m.width - len(marker) - 4
		if m.cfg.ShowScores {
			avail -= 9
		}
	}
	if avail > 10 {
		titleSegs = truncateSegments(titleSegs, avail*3/5)
		if rest := avail - segmentsWidth(titleSegs) - 2; rest > 0 {
			urlSegs = truncateSegments(urlSegs, rest)
		} else {
			urlSegs = nil
		}
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(badgeStyle.Render(typeBadge(r.Type)))
	b.WriteByte(' ')
	b.WriteString(renderSegments(titleSegs, style))
	if len(urlSegs) > 0 {
		b.WriteString("  ")
		b.WriteString(renderSegments(urlSegs, urlStyle))
	}
	if m.cfg.ShowScores {
		b.WriteString(scoreStyle.Render(fmt.Sprintf("  [%.1f]", r.Score)))
	}
	return b.String()
}

// typeBadge maps a result type to its fixed-width list badge.
func typeBadge(t corpus.Type) string {
	switch t {
	case corpus.TypeBookmark:
		return "[b]"
	case corpus.TypeTab:
		return "[t]"
	case corpus.TypeHistory:
		return "[h]"
	case corpus.TypeSearch, corpus.TypeCustomSearch:
		return "[s]"
	case corpus.TypeDirect:
		return "[>]"
	default:
		return "[?]"
	}
}

func displayOr(highlighted, plain string) string {
	if highlighted != "" {
		return highlighted
	}
	return plain
}
