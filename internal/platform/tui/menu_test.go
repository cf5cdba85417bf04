package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/world"
)

func menuSend(t *testing.T, m MenuModel, msgs ...tea.Msg) MenuModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestMenuNewGame(t *testing.T) {
	m := NewMenuModel(nil, []string{"easy", "normal", "hard"}, false, core.DefaultConfig())
	m = menuSend(t, m, keyDown, runeKey("c"), keyEnter)

	res := m.Result()
	if res.Quit || res.Difficulty != "normal" || !res.TwoPlayer || res.Resume {
		t.Errorf("result = %+v", res)
	}
}

func TestMenuContinueUsesSave(t *testing.T) {
	store := openStore(t)
	mm, err := NewModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer mm.detach()
	if err := mm.World().SaveTo(context.Background(), world.ManualSlot(4)); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	m := NewMenuModel(store, []string{"easy"}, true, core.DefaultConfig())
	if m.items[1].Kind != MenuContinue {
		t.Fatalf("item 1 = %+v, expected a continue entry", m.items[1])
	}
	m = menuSend(t, m, keyDown, keyEnter)

	res := m.Result()
	if !res.Resume || res.Slot != world.ManualSlot(4) || res.Difficulty != "test" || res.TwoPlayer {
		t.Errorf("result = %+v", res)
	}
}

func TestMenuQuitAndRuns(t *testing.T) {
	m := NewMenuModel(nil, []string{"easy"}, false, core.DefaultConfig())
	if res := menuSend(t, m, tea.KeyMsg{Type: tea.KeyTab}).Result(); !res.WantsRuns {
		t.Errorf("tab result = %+v, expected runs", res)
	}
	if res := menuSend(t, m, runeKey("q")).Result(); !res.Quit {
		t.Errorf("q result = %+v, expected quit", res)
	}

	// Cursor clamps at the last entry, which quits.
	for i := 0; i < len(m.items)+2; i++ {
		m = menuSend(t, m, keyDown)
	}
	if res := menuSend(t, m, keyEnter).Result(); !res.Quit {
		t.Errorf("last entry result = %+v, expected quit", res)
	}
}
