package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

// MenuItemKind identifies what a menu entry does.
type MenuItemKind int

const (
	MenuNewGame MenuItemKind = iota
	MenuContinue
	MenuCoop
	MenuRuns
	MenuQuit
)

// MenuItem is one selectable line of the start menu.
type MenuItem struct {
	Kind       MenuItemKind
	Title      string
	Difficulty string           // MenuNewGame
	Save       storage.SaveInfo // MenuContinue
}

// MenuKeyMap defines the key bindings of the start menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Coop   key.Binding
	Runs   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Coop, k.Runs, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Coop:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle co-op")),
		Runs:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "runs")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	twoPlayer bool
	config    core.RuntimeConfig
	keys      MenuKeyMap
	help      help.Model
	quitting  bool
	selected  *MenuItem
	openRuns  bool
}

// NewMenuModel creates the start menu: one new game per difficulty, one
// continue entry per save slot, then the co-op toggle.
func NewMenuModel(store *storage.Store, difficulties []string, twoPlayer bool, cfg core.RuntimeConfig) MenuModel {
	items := make([]MenuItem, 0, len(difficulties)+4)
	for _, d := range difficulties {
		items = append(items, MenuItem{Kind: MenuNewGame, Title: "New game - " + d, Difficulty: d})
	}

	if store != nil {
		saves, err := store.ListSaves(context.Background())
		if err == nil {
			for _, s := range saves {
				title := fmt.Sprintf("Continue %s - level %d, %s", s.Target, s.Level, s.DifficultyID)
				if s.TwoPlayer {
					title += ", co-op"
				}
				items = append(items, MenuItem{Kind: MenuContinue, Title: title, Difficulty: s.DifficultyID, Save: s})
			}
		}
	}

	items = append(items,
		MenuItem{Kind: MenuCoop, Title: "Players"},
		MenuItem{Kind: MenuRuns, Title: "Run history"},
		MenuItem{Kind: MenuQuit, Title: "Quit"},
	)

	return MenuModel{
		items:     items,
		twoPlayer: twoPlayer,
		config:    cfg,
		keys:      DefaultMenuKeyMap(),
		help:      help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Coop):
		m.twoPlayer = !m.twoPlayer

	case key.Matches(msg, m.keys.Runs):
		m.openRuns = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Select):
		item := m.items[m.cursor]
		switch item.Kind {
		case MenuCoop:
			m.twoPlayer = !m.twoPlayer
		case MenuRuns:
			m.openRuns = true
			return m, tea.Quit
		case MenuQuit:
			m.quitting = true
			return m, tea.Quit
		default:
			m.selected = &item
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	width := m.config.ScreenW

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  M A Z E  "), width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		title := item.Title
		if item.Kind == MenuCoop {
			players := 1
			if m.twoPlayer {
				players = 2
			}
			title = fmt.Sprintf("Players: %d", players)
		}
		b.WriteString(centerText(style.Render(cursor+title), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(statusStyle.Render(m.help.View(m.keys)), width))
	b.WriteString("\n")

	return b.String()
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Difficulty string
	TwoPlayer  bool
	Resume     bool
	Slot       world.SaveTarget
	Config     core.RuntimeConfig
	WantsRuns  bool
	Quit       bool
}

// Result converts the final menu state into a MenuResult.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.config, TwoPlayer: m.twoPlayer}
	switch {
	case m.openRuns:
		result.WantsRuns = true
	case m.quitting || m.selected == nil:
		result.Quit = true
	case m.selected.Kind == MenuContinue:
		result.Difficulty = m.selected.Difficulty
		result.TwoPlayer = m.selected.Save.TwoPlayer
		result.Resume = true
		result.Slot = m.selected.Save.Target
	default:
		result.Difficulty = m.selected.Difficulty
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, difficulties []string, twoPlayer bool, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, difficulties, twoPlayer, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
