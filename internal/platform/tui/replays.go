package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tanks/internal/storage"
)

// Replays browser layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the scenario sidebar
	sidebarWidth       = 22  // Width of scenario sidebar
	maxReplays         = 100 // Max replays to load
	allScenarios       = ""  // filter value listing every scenario
)

// ReplaysKeyMap defines the key bindings for the replays browser.
type ReplaysKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Watch        key.Binding
	Delete       key.Binding
	Back         key.Binding
	Quit         key.Binding
	NextScenario key.Binding
	PrevScenario key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplaysKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScenario, k.Watch, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplaysKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextScenario, k.PrevScenario},
		{k.Watch, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultReplaysKeyMap returns default key bindings.
func DefaultReplaysKeyMap() ReplaysKeyMap {
	return ReplaysKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev scenario"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next scenario"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "watch"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		NextScenario: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next scenario"),
		),
		PrevScenario: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev scenario"),
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

// ReplaysModel is the Bubble Tea model for browsing stored replays.
type ReplaysModel struct {
	scenarios   []string // filter tabs; the first is allScenarios
	counts      map[string]int
	cursor      int
	store       *storage.Store
	entries     []storage.ReplayEntry
	table       table.Model
	help        help.Model
	keys        ReplaysKeyMap
	status      string
	width       int
	height      int
	quitting    bool
	goingBack   bool
	selected    string // replay ID chosen for watching
	showSidebar bool
}

// NewReplaysModel creates a new replays browser.
func NewReplaysModel(store *storage.Store, width, height int) ReplaysModel {
	h := help.New()
	h.ShowAll = false

	m := ReplaysModel{
		scenarios:   []string{allScenarios},
		counts:      make(map[string]int),
		store:       store,
		keys:        DefaultReplaysKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.loadStats()
	m.table = m.createTable()
	m.loadReplays()
	return m
}

// loadStats refreshes the scenario tabs from the store.
func (m *ReplaysModel) loadStats() {
	m.scenarios = []string{allScenarios}
	m.counts = make(map[string]int)
	if m.store == nil {
		return
	}

	stats, err := m.store.ReplayStats()
	if err != nil {
		m.status = err.Error()
		return
	}
	ids := make([]string, 0, len(stats))
	for id, st := range stats {
		ids = append(ids, id)
		m.counts[id] = st.Replays
		m.counts[allScenarios] += st.Replays
	}
	sort.Strings(ids)
	m.scenarios = append(m.scenarios, ids...)
	if m.cursor >= len(m.scenarios) {
		m.cursor = 0
	}
}

// createTable creates a new table with appropriate columns.
func (m *ReplaysModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Scenario", Width: 12},
		{Title: "Ticks", Width: 7},
		{Title: "Digest", Width: 16},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
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

// loadReplays loads replays for the current scenario filter.
func (m *ReplaysModel) loadReplays() {
	m.entries = nil
	if m.store != nil {
		entries, err := m.store.RecentReplays(m.scenarios[m.cursor], maxReplays)
		if err != nil {
			m.status = err.Error()
		} else {
			m.entries = entries
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current replays.
func (m *ReplaysModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			shortID(e.ID),
			e.Scenario,
			fmt.Sprintf("%d", e.Ticks),
			fmt.Sprintf("%016x", e.Digest),
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the replays model.
func (m ReplaysModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the replays browser.
func (m ReplaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.Watch):
			if e, ok := m.current(); ok {
				m.selected = e.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteReplay(e.ID); err != nil {
					m.status = err.Error()
				} else {
					m.status = "deleted " + shortID(e.ID)
				}
				m.loadStats()
				m.loadReplays()
			}
			return m, nil

		case key.Matches(msg, m.keys.NextScenario), key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(m.scenarios)
			m.loadReplays()
			return m, nil

		case key.Matches(msg, m.keys.PrevScenario), key.Matches(msg, m.keys.Left):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.scenarios) - 1
			}
			m.loadReplays()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
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

// current returns the entry under the table cursor.
func (m ReplaysModel) current() (storage.ReplayEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return storage.ReplayEntry{}, false
	}
	return m.entries[i], true
}

func scenarioLabel(id string) string {
	if id == allScenarios {
		return "all"
	}
	return id
}

// View renders the replays browser.
func (m ReplaysModel) View() string {
	if m.quitting || m.goingBack || m.selected != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("REPLAYS - %s", scenarioLabel(m.scenarios[m.cursor]))
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	if m.status != "" {
		b.WriteString(helpStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the browser with a sidebar for scenario selection.
func (m ReplaysModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Scenarios\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, id := range m.scenarios {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := scenarioLabel(id)
		maxLen := sidebarWidth - 11
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(fmt.Sprintf("%s%-*s %3d", cursor, maxLen, name, m.counts[id])))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the browser with the current filter above the table.
func (m ReplaysModel) renderNarrowLayout() string {
	var b strings.Builder

	tabLine := fmt.Sprintf("< %s (%d) >", scenarioLabel(m.scenarios[m.cursor]), m.counts[m.scenarios[m.cursor]])
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ReplaysModel) renderTableContent() string {
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No replays recorded yet.\nPlay a scenario to record one!")
	}

	return m.table.View()
}

// Selected returns the replay ID chosen for watching, or "".
func (m ReplaysModel) Selected() string {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ReplaysModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplaysModel) IsQuitting() bool {
	return m.quitting
}

// ReplaysResult holds the outcome of the replays browser.
type ReplaysResult struct {
	Watch  string // replay ID to watch
	GoBack bool
}

// RunReplays runs the replays browser.
func RunReplays(store *storage.Store, width, height int) (ReplaysResult, error) {
	model := NewReplaysModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return ReplaysResult{}, err
	}

	m, ok := finalModel.(ReplaysModel)
	if !ok {
		return ReplaysResult{}, nil
	}

	return ReplaysResult{Watch: m.Selected(), GoBack: m.IsGoingBack()}, nil
}
