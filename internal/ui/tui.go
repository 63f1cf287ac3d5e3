package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Searcher is the search session behind the view. *session.Session
// implements it.
type Searcher interface {
	OnKeystroke(text string) uint64
	CycleMode() (uint64, error)
	Mode() launcher.Mode
	OnSelect(id string) (launcher.Entity, error)
	Subscribe(buffer int) (<-chan launcher.ResultSet, func())
	CurrentResults() launcher.ResultSet
}

// Starter launches a selected entity. *launch.Launcher implements it.
type Starter interface {
	Launch(ctx context.Context, e launcher.Entity) error
}

// ModeLister reports which modes are shown as tabs.
type ModeLister interface {
	EnabledModes() []launcher.Mode
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	Launch   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p", "ctrl+k"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n", "ctrl+j"), key.WithHelp("↓", "down")),
		NextMode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		Launch:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch")),
		Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// Message types for bubbletea
type resultsMsg launcher.ResultSet
type subscriptionClosedMsg struct{}
type launchedMsg struct {
	entity launcher.Entity
	err    error
}

// Model is the bubbletea model of the launcher.
type Model struct {
	ctx     context.Context
	search  Searcher
	starter Starter
	modes   []launcher.Mode

	updates     <-chan launcher.ResultSet
	unsubscribe func()

	input    textinput.Model
	keys     keyMap
	styles   Styles
	results  launcher.ResultSet
	selected int

	width    int
	height   int
	status   string
	err      error
	launched *launcher.Entity
	quitting bool
}

// NewModel creates the launcher model. modes lists the tabs; nil shows
// every mode.
func NewModel(ctx context.Context, search Searcher, starter Starter, modes ModeLister, cfg Config) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "search..."
	ti.CharLimit = 256
	ti.Focus()

	styles := GetStyles(cfg.Theme, cfg.NoColor)
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Input

	tabs := launcher.AllModes()
	if modes != nil {
		tabs = modes.EnabledModes()
	}

	return &Model{
		ctx:     ctx,
		search:  search,
		starter: starter,
		modes:   tabs,
		input:   ti,
		keys:    defaultKeyMap(),
		styles:  styles,
		results: search.CurrentResults(),
		width:   80,
		height:  24,
	}
}

// Launched returns the entity launched before the model quit, if any.
func (m *Model) Launched() (launcher.Entity, bool) {
	if m.launched == nil {
		return launcher.Entity{}, false
	}
	return *m.launched, true
}

// Err returns the last launch error.
func (m *Model) Err() error { return m.err }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.updates, m.unsubscribe = m.search.Subscribe(4)
	m.search.OnKeystroke(m.input.Value())
	return tea.Batch(textinput.Blink, m.waitForResults())
}

func (m *Model) waitForResults() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		rs, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return resultsMsg(rs)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-8)
		return m, nil

	case resultsMsg:
		rs := launcher.ResultSet(msg)
		// A result for a mode that is no longer active can still be in flight.
		if rs.Mode == m.search.Mode() {
			m.results = rs
			m.clampSelection()
		}
		return m, m.waitForResults()

	case subscriptionClosedMsg:
		m.updates = nil
		return m, nil

	case launchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("launch failed: %v", msg.err)
			return m, nil
		}
		e := msg.entity
		m.launched = &e
		return m, m.quit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.NextMode):
		if _, err := m.search.CycleMode(); err != nil {
			m.status = err.Error()
		}
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.results.Len()-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Launch):
		return m, m.launchSelected()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.search.OnKeystroke(after)
		m.selected = 0
		m.status = ""
	}
	return m, cmd
}

func (m *Model) launchSelected() tea.Cmd {
	if m.selected < 0 || m.selected >= m.results.Len() {
		return nil
	}
	match := m.results.Matches[m.selected]
	if match.Entity == nil {
		return nil
	}

	e, err := m.search.OnSelect(match.Entity.ID)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	ctx, starter := m.ctx, m.starter
	return func() tea.Msg {
		if starter == nil {
			return launchedMsg{entity: e}
		}
		return launchedMsg{entity: e, err: starter.Launch(ctx, e)}
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return tea.Quit
}

func (m *Model) clampSelection() {
	if m.selected >= m.results.Len() {
		m.selected = max(0, m.results.Len()-1)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	contentWidth := max(40, m.width-4)

	var sections []string
	sections = append(sections, m.renderTabs())
	sections = append(sections, m.input.View())
	sections = append(sections, m.renderResults(contentWidth))

	panel := m.styles.Border.Width(contentWidth).Render(strings.Join(sections, "\n"))
	return panel + "\n" + m.renderStatusBar()
}

func (m *Model) renderTabs() string {
	active := m.search.Mode()
	parts := make([]string, 0, len(m.modes))
	for _, mode := range m.modes {
		style := m.styles.Tab
		if mode == active {
			style = m.styles.ActiveTab
		}
		parts = append(parts, style.Render(mode.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderResults(width int) string {
	if m.results.Empty() {
		return m.styles.Secondary.Render("  no matches")
	}

	lines := make([]string, 0, m.results.Len())
	for i, match := range m.results.Matches {
		if match.Entity == nil {
			continue
		}
		selected := i == m.selected

		base, hl, cursor := m.styles.Item, m.styles.Highlight, "  "
		if selected {
			base, hl, cursor = m.styles.Selected, m.styles.SelectedHighlight, "▸ "
		}

		var nameSpans []launcher.Span
		if match.Field == launcher.FieldName {
			nameSpans = match.Spans
		}
		line := cursor + highlight(match.Entity.Name, nameSpans, base, hl)

		if sec := match.Entity.Secondary; sec != "" {
			room := width - lipgloss.Width(line) - 3
			if room > 8 {
				line += "  " + m.styles.Secondary.Render(truncateMiddle(sec, room))
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	if m.status != "" {
		return m.styles.Error.Render(m.status)
	}
	hint := fmt.Sprintf("%d of %d  │  tab mode  │  enter launch  │  esc quit",
		m.results.Len(), m.results.Total)
	return m.styles.Status.Render(hint)
}

// highlight renders text with the rune ranges in spans emphasised.
// Spans must be sorted and non-overlapping; out-of-range spans are clipped.
func highlight(text string, spans []launcher.Span, base, hl lipgloss.Style) string {
	if len(spans) == 0 {
		return base.Render(text)
	}
	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		start, end := max(s.Start, pos), min(s.End, len(runes))
		if start >= end {
			continue
		}
		if start > pos {
			b.WriteString(base.Render(string(runes[pos:start])))
		}
		b.WriteString(hl.Render(string(runes[start:end])))
		pos = end
	}
	if pos < len(runes) {
		b.WriteString(base.Render(string(runes[pos:])))
	}
	return b.String()
}

// truncateMiddle shortens s to at most maxLen runes by eliding the middle,
// which keeps both the root and the file name of a path visible.
func truncateMiddle(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return string(runes[:maxLen])
	}
	head := (maxLen - 1) / 2
	tail := maxLen - 1 - head
	return string(runes[:head]) + "…" + string(runes[len(runes)-tail:])
}

// Run shows the launcher until the user launches something or quits. It
// returns the launched entity, if any.
func Run(ctx context.Context, search Searcher, starter Starter, modes ModeLister, cfg Config) (launcher.Entity, bool, error) {
	model := NewModel(ctx, search, starter, modes, cfg)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(model, opts...).Run()
	if model.unsubscribe != nil {
		model.unsubscribe()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return launcher.Entity{}, false, fmt.Errorf("launcher UI failed: %w", err)
	}
	e, ok := model.Launched()
	return e, ok, nil
}

var _ tea.Model = (*Model)(nil)
