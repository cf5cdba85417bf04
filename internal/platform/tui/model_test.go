package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

type arena struct{}

func (arena) Grid(level int, diff *config.DifficultyConfig) core.Grid {
	g := core.NewGrid(9, 7, core.CellWall)
	for y := 1; y < 6; y++ {
		for x := 1; x < 8; x++ {
			g.Set(x, y, core.CellFloor)
		}
	}
	return g
}

func testOptions(store *storage.Store) Options {
	return Options{
		Runtime: core.RuntimeConfig{TickRate: 60, Seed: 5},
		Engine:  config.DefaultEngineConfig(),
		Difficulty: &config.DifficultyConfig{
			ID:                    "test",
			MazeWidth:             9,
			MazeHeight:            7,
			EnemyHealthMultiplier: 1,
			EnemyDamageMultiplier: 1,
			EnemySpeedMultiplier:  1,
			InitialLives:          3,
		},
		Slot:   world.ManualSlot(1),
		Levels: arena{},
		Store:  store,
	}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "maze.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return model
}

func TestModelTickAdvancesWorld(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	for i := 0; i < 3; i++ {
		m = send(t, m, TickMsg{})
	}
	if got := m.World().Ticks(); got != 3 {
		t.Errorf("Ticks() = %d, expected 3", got)
	}
	if view := m.View(); !strings.Contains(view, "Level 1") {
		t.Errorf("View() is missing the HUD:\n%s", view)
	}
}

func TestModelHoldsMoveKeys(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	start := m.World().Player(core.Player1).Pos()
	m = send(t, m, runeKey("d"))
	for i := 0; i < moveHoldTicks; i++ {
		m = send(t, m, TickMsg{})
	}
	if len(m.held) != 0 {
		t.Errorf("held = %v, expected the move to expire", m.held)
	}

	moved := m.World().Player(core.Player1).Pos()
	if moved.X <= start.X {
		t.Errorf("player at %v, expected right of %v", moved, start)
	}
}

func TestModelSaveAndLoadKeys(t *testing.T) {
	store := openStore(t)
	m, err := NewModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.status != "saved to slot 1" {
		t.Errorf("status = %q", m.status)
	}
	if _, err := store.LoadGame(context.Background(), world.ManualSlot(1)); err != nil {
		t.Fatalf("LoadGame() after ctrl+s failed: %v", err)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !m.World().PendingRestore() {
		t.Fatal("ctrl+l should request a restore")
	}
	m = send(t, m, TickMsg{})
	if m.World().PendingRestore() {
		t.Error("restore still pending after a tick")
	}
}

func TestModelRecordsRunOnQuit(t *testing.T) {
	store := openStore(t)
	m, err := NewModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	m.bus.Publish(events.EnemyKilled{Tier: 1})
	next, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	m = next.(Model)
	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}

	runs, err := store.RecentRuns(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Outcome != "quit" || runs[0].Kills != 1 || runs[0].DifficultyID != "test" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestModelSkipsEmptyRuns(t *testing.T) {
	store := openStore(t)
	m, err := NewModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	send(t, m, runeKey("q"))
	runs, err := store.RecentRuns(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("recorded %d runs without progress", len(runs))
	}
}

func TestModelMouseAimsPlayerOne(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	defer m.detach()

	gridTop := 1 + len(m.World().Players())
	m = send(t, m, tea.MouseMsg{X: 3 * cellWidth, Y: gridTop + 2, Action: tea.MouseActionMotion})
	if m.pointer == nil || *m.pointer != core.P(3, 2) {
		t.Errorf("pointer = %v, expected (3,2)", m.pointer)
	}

	m = send(t, m, tea.MouseMsg{X: 3 * cellWidth, Y: gridTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.input.Player(core.Player1).Has(core.ActionSkill3) {
		t.Error("left click should press Skill3 for player one")
	}
}
