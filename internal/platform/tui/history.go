package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 96  // Minimum width to show the filter sidebar
	sidebarWidth       = 18  // Width of the filter sidebar
	maxHistoryRows     = 100 // Max matches to load
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.PrevFilter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// historyFilter is one tab of the history screen. all lists every mode.
type historyFilter struct {
	title string
	mode  match.Mode
	all   bool
}

func historyFilters() []historyFilter {
	filters := []historyFilter{{title: "All modes", all: true}}
	for _, mode := range match.Modes {
		filters = append(filters, historyFilter{title: mode.String(), mode: mode})
	}
	return filters
}

// HistoryModel is the Bubble Tea model for the match history screen.
type HistoryModel struct {
	filters     []historyFilter
	cursor      int
	store       *storage.Store
	matches     []storage.MatchRecord
	stats       map[match.Mode]storage.ModeStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		filters:     historyFilters(),
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadStats()
	m.loadMatches()
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Mode", Width: 20},
		{Title: "Players", Width: 18},
		{Title: "Score", Width: 7},
		{Title: "Winner", Width: 8},
		{Title: "End", Width: 10},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	// Give any spare room to the players column.
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if extra := tableWidth - used; extra > 0 {
		columns[2].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *HistoryModel) loadStats() {
	m.stats = make(map[match.Mode]storage.ModeStats)
	if m.store == nil {
		return
	}
	stats, err := m.store.Stats()
	if err != nil {
		m.loadErr = err
		return
	}
	for _, s := range stats {
		m.stats[s.Mode] = s
	}
}

// loadMatches loads the matches of the current filter.
func (m *HistoryModel) loadMatches() {
	m.matches = nil
	if m.store != nil {
		f := m.filters[m.cursor]
		var (
			matches []storage.MatchRecord
			err     error
		)
		if f.all {
			matches, err = m.store.RecentMatches(maxHistoryRows)
		} else {
			matches, err = m.store.MatchesByMode(f.mode, maxHistoryRows)
		}
		if err != nil {
			m.loadErr = err
		} else {
			m.matches = matches
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current matches.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		rows[i] = historyRow(r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func historyRow(r storage.MatchRecord) table.Row {
	mode := r.Mode.String()
	if s, err := r.Settings(); err == nil {
		mode = settingsShort(s)
	}
	return table.Row{
		r.CreatedAt.Local().Format("Jan 02 15:04"),
		mode,
		fmt.Sprintf("%s v %s", r.LeftName, r.RightName),
		fmt.Sprintf("%d-%d", r.LeftGoals, r.RightGoals),
		winnerName(r),
		r.EndReason,
	}
}

// settingsShort renders settings compactly, e.g. "High Score 7".
func settingsShort(s match.Settings) string {
	if s.Mode() == match.Endless {
		return s.Mode().String()
	}
	unit, err := s.Mode().InfoUnitName()
	if err != nil {
		return s.Mode().String()
	}
	if s.Mode() == match.Time {
		return fmt.Sprintf("%s %d %s", s.Mode(), s.Value(), unit[:3])
	}
	return fmt.Sprintf("%s %d", s.Mode(), s.Value())
}

func winnerName(r storage.MatchRecord) string {
	p, ok := r.Result.Winner()
	if !ok {
		return "tie"
	}
	if p == match.LeftPlayer {
		return r.LeftName
	}
	return r.RightName
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.cursor = (m.cursor + 1) % len(m.filters)
			m.loadMatches()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.cursor = (m.cursor + len(m.filters) - 1) % len(m.filters)
			m.loadMatches()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("MATCH HISTORY - %s", m.filters[m.cursor].title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the win counts of the current filter.
func (m HistoryModel) statsLine() string {
	var total storage.ModeStats
	f := m.filters[m.cursor]
	for mode, s := range m.stats {
		if !f.all && mode != f.mode {
			continue
		}
		total.Matches += s.Matches
		total.LeftWins += s.LeftWins
		total.RightWins += s.RightWins
		total.Ties += s.Ties
		total.Goals += s.Goals
	}
	return fmt.Sprintf("%d matches  |  left wins %d  |  right wins %d  |  ties %d  |  %d goals",
		total.Matches, total.LeftWins, total.RightWins, total.Ties, total.Goals)
}

// renderWideLayout renders the history with a sidebar for mode selection.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, f := range m.filters {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + f.title))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the history with mode tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.filters))
	for i, f := range m.filters {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(f.title)
		} else {
			tabs[i] = tabStyle.Render(" " + f.title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.filters[m.cursor].title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Match history is unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load matches:\n" + m.loadErr.Error())
	case len(m.matches) == 0:
		return emptyStyle.Render("No matches recorded yet.\nFinish a match to see it here!")
	}
	return m.table.View()
}

// Matches returns the records shown for the current filter.
func (m HistoryModel) Matches() []storage.MatchRecord {
	return m.matches
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
