package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-maze/internal/core"
)

// PlayerKeys are the gameplay bindings of one seat.
type PlayerKeys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Skills   [4]key.Binding
	Interact key.Binding
}

// GameKeyMap defines every key binding of the play screen.
type GameKeyMap struct {
	P1 PlayerKeys
	P2 PlayerKeys

	Pause   key.Binding
	Save    key.Binding
	Load    key.Binding
	Restart key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.P1.Skills[0], k.P1.Skills[1], k.P1.Skills[2], k.P1.Interact, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.P1.Up, k.P1.Down, k.P1.Left, k.P1.Right},
		append(k.P1.Skills[:], k.P1.Interact),
		{k.P2.Up, k.P2.Down, k.P2.Left, k.P2.Right},
		append(k.P2.Skills[:], k.P2.Interact),
		{k.Pause, k.Save, k.Load, k.Restart, k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings. Player one uses WASD and
// the number row, player two the arrows and the keys around them.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		P1: PlayerKeys{
			Up:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "up")),
			Down:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "down")),
			Left:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "left")),
			Right: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "right")),
			Skills: [4]key.Binding{
				key.NewBinding(key.WithKeys("1", " "), key.WithHelp("1/space", "slash")),
				key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "dash")),
				key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "burst")),
				key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "skill 4")),
			},
			Interact: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "use")),
		},
		P2: PlayerKeys{
			Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "P2 up")),
			Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "P2 down")),
			Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "P2 left")),
			Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "P2 right")),
			Skills: [4]key.Binding{
				key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "P2 slash")),
				key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "P2 dash")),
				key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "P2 burst")),
				key.NewBinding(key.WithKeys(";"), key.WithHelp(";", "P2 skill 4")),
			},
			Interact: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "P2 use")),
		},
		Pause:   key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Load:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "load")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys      GameKeyMap
	twoPlayer bool
}

// NewKeyMapper creates a key mapper. In single-player mode the arrow keys
// also drive player one.
func NewKeyMapper(keys GameKeyMap, twoPlayer bool) *KeyMapper {
	return &KeyMapper{keys: keys, twoPlayer: twoPlayer}
}

func (p PlayerKeys) action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, p.Up):
		return core.ActionUp
	case key.Matches(msg, p.Down):
		return core.ActionDown
	case key.Matches(msg, p.Left):
		return core.ActionLeft
	case key.Matches(msg, p.Right):
		return core.ActionRight
	case key.Matches(msg, p.Interact):
		return core.ActionInteract
	}
	for i, b := range p.Skills {
		if key.Matches(msg, b) {
			return core.SkillActions[i]
		}
	}
	return core.ActionNone
}

// MapKey returns the seat and gameplay action of a key, or ActionNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.PlayerIndex, core.Action) {
	if key.Matches(msg, km.keys.Pause) {
		return core.Player1, core.ActionPause
	}
	if a := km.keys.P1.action(msg); a != core.ActionNone {
		return core.Player1, a
	}
	if a := km.keys.P2.action(msg); a != core.ActionNone {
		if !km.twoPlayer {
			return core.Player1, a
		}
		return core.Player2, a
	}
	return core.Player1, core.ActionNone
}

// MapKeyToMultiFrame records a key into frame. Returns false for keys that
// carry no gameplay action.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	idx, action := km.MapKey(msg)
	if action == core.ActionNone {
		return false
	}
	f := frame.Player(idx)
	f.Set(action)
	frame.SetPlayer(idx, f)
	return true
}
