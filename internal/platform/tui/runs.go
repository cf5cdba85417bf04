package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-maze/internal/storage"
)

const (
	maxRuns  = 100 // Max runs to load per tab
	allRuns  = "all"
	minTable = 40
)

// RunsKeyMap defines the key bindings of the run history screen.
type RunsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextTab, k.PrevTab, k.Quit}}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next difficulty"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev difficulty"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel lists recorded runs, one tab per difficulty.
type RunsModel struct {
	tabs   []string
	cursor int
	store  *storage.Store
	runs   []storage.RunRecord
	stats  *storage.RunStats
	err    error
	table  table.Model
	help   help.Model
	keys   RunsKeyMap
	width  int
	height int
}

// NewRunsModel creates a run history model. The first tab shows every
// difficulty.
func NewRunsModel(store *storage.Store, difficulties []string, width, height int) RunsModel {
	m := RunsModel{
		tabs:   append([]string{allRuns}, difficulties...),
		store:  store,
		keys:   DefaultRunsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Diff", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Kills", Width: 6},
		{Title: "Outcome", Width: 10},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 14},
	}
	if m.width-4 < minTable {
		columns = []table.Column{columns[0], columns[2], columns[3], columns[4]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
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

func (m *RunsModel) difficulty() string {
	if m.tabs[m.cursor] == allRuns {
		return ""
	}
	return m.tabs[m.cursor]
}

// load fetches runs and stats for the selected tab.
func (m *RunsModel) load() {
	m.runs, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		ctx := context.Background()
		m.runs, m.err = m.store.RecentRuns(ctx, m.difficulty(), maxRuns)
		if m.err == nil {
			m.stats, m.err = m.store.GetRunStats(ctx, m.difficulty())
		}
	}
	m.updateTableRows()
}

func (m *RunsModel) updateTableRows() {
	wide := len(m.table.Columns()) > 4
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		if wide {
			rows[i] = table.Row{
				fmt.Sprintf("%d", r.ID),
				r.DifficultyID,
				fmt.Sprintf("%d", r.HighestLevel),
				fmt.Sprintf("%d", r.Kills),
				r.Outcome,
				r.Duration.Truncate(time.Second).String(),
				r.CreatedAt.Local().Format("Jan 02 15:04"),
			}
			continue
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			fmt.Sprintf("%d", r.HighestLevel),
			fmt.Sprintf("%d", r.Kills),
			r.Outcome,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run history screen.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.cursor = (m.cursor + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.cursor = (m.cursor + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the run history.
func (m RunsModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("RUN HISTORY", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n")

	if m.stats != nil {
		summary := fmt.Sprintf("%d runs  best level %d  avg kills %.1f", m.stats.Runs, m.stats.BestLevel, m.stats.AvgKills)
		b.WriteString(statusStyle.Render(centerText(summary, m.width)))
	}
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m RunsModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (m RunsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.err != nil:
		return emptyStyle.Render(fmt.Sprintf("Cannot load runs: %v", m.err))
	case len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.")
	}
	return m.table.View()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunRuns shows the run history screen until the user quits.
func RunRuns(store *storage.Store, difficulties []string, width, height int) error {
	p := tea.NewProgram(NewRunsModel(store, difficulties, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
