package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-maze/internal/ability"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
	"github.com/vovakirdan/tui-maze/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSave(level int) *world.GameSaveData {
	grid := core.NewGrid(5, 5, core.CellWall)
	grid.Set(1, 1, core.CellFloor)
	grid.Set(2, 1, core.CellFloor)

	return &world.GameSaveData{
		Version:      world.SaveVersion,
		SessionID:    "session-1",
		Grid:         grid,
		Level:        level,
		DifficultyID: "normal",
		TwoPlayer:    true,
		Players: []world.PlayerRecord{
			{
				Index: core.Player1, X: 2, Y: 1, Lives: 2, MaxLives: 3, Mana: 7, HasKey: true,
				Buffs: world.BuffWard,
				Abilities: ability.Loadout{
					Version: ability.LoadoutVersion,
					Abilities: map[string]ability.State{
						ability.IDDash: {
							Version: ability.StateVersion,
							Kind:    ability.KindDash,
							Level:   2,
							Dash:    &ability.DashState{ChargesSpent: 1, RegenTimer: 1.5},
						},
					},
					Equipped: [ability.SlotCount]string{ability.IDSlash, ability.IDDash},
				},
			},
			{Index: core.Player2, X: 1, Y: 1, Lives: 0, MaxLives: 3},
		},
		Stats:   world.Stats{Kills: 4, LevelsCleared: level - 1},
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveGameRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	want := sampleSave(3)

	if err := store.SaveGame(ctx, world.ManualSlot(1), want); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	got, err := store.LoadGame(ctx, world.ManualSlot(1))
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}

	if !reflect.DeepEqual(got.Grid, want.Grid) {
		t.Errorf("grid = %v, expected %v", got.Grid, want.Grid)
	}
	if got.Level != 3 || got.DifficultyID != "normal" || !got.TwoPlayer || got.SessionID != "session-1" {
		t.Errorf("header = %+v", got)
	}
	if len(got.Players) != 2 {
		t.Fatalf("players = %d, expected 2", len(got.Players))
	}
	p := got.Players[0]
	if p.X != 2 || p.Lives != 2 || p.Mana != 7 || !p.HasKey || p.Buffs != world.BuffWard {
		t.Errorf("player record = %+v", p)
	}
	dash, ok := p.Abilities.Abilities[ability.IDDash]
	if !ok || dash.Dash == nil || dash.Dash.ChargesSpent != 1 || dash.Level != 2 {
		t.Errorf("dash state = %+v", dash)
	}
	if p.Abilities.Equipped[1] != ability.IDDash {
		t.Errorf("equipped = %v", p.Abilities.Equipped)
	}
	if got.Stats.Kills != 4 {
		t.Errorf("stats = %+v", got.Stats)
	}
	if !got.SavedAt.Equal(want.SavedAt) {
		t.Errorf("SavedAt = %v, expected %v", got.SavedAt, want.SavedAt)
	}
}

func TestSaveGameOverwritesSlot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveGame(ctx, world.ManualSlot(1), sampleSave(2)); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if err := store.SaveGame(ctx, world.ManualSlot(1), sampleSave(5)); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	got, err := store.LoadGame(ctx, world.ManualSlot(1))
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if got.Level != 5 {
		t.Errorf("Level = %d, expected the newer save", got.Level)
	}
}

func TestAutoAndManualSlotsAreSeparate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveGame(ctx, world.AutoSlot, sampleSave(4)); err != nil {
		t.Fatalf("SaveGame(auto) failed: %v", err)
	}
	if err := store.SaveGame(ctx, world.ManualSlot(0), sampleSave(2)); err != nil {
		t.Fatalf("SaveGame(slot 0) failed: %v", err)
	}
	if err := store.SaveGame(ctx, world.ManualSlot(3), sampleSave(6)); err != nil {
		t.Fatalf("SaveGame(slot 3) failed: %v", err)
	}

	auto, err := store.LoadGame(ctx, world.AutoSlot)
	if err != nil {
		t.Fatalf("LoadGame(auto) failed: %v", err)
	}
	if auto.Level != 4 {
		t.Errorf("auto Level = %d, expected 4", auto.Level)
	}

	infos, err := store.ListSaves(ctx)
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("ListSaves() returned %d saves, expected 3", len(infos))
	}
	wantOrder := []world.SaveTarget{world.AutoSlot, world.ManualSlot(0), world.ManualSlot(3)}
	for i, want := range wantOrder {
		if infos[i].Target != want {
			t.Errorf("save %d target = %v, expected %v", i, infos[i].Target, want)
		}
	}
	if infos[2].Level != 6 || infos[2].DifficultyID != "normal" || !infos[2].TwoPlayer {
		t.Errorf("slot 3 info = %+v", infos[2])
	}
}

func TestLoadGameErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.LoadGame(ctx, world.ManualSlot(9)); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("LoadGame() of an empty slot error = %v, expected ErrSlotEmpty", err)
	}

	future := sampleSave(1)
	future.Version = world.SaveVersion + 1
	if err := store.SaveGame(ctx, world.ManualSlot(2), future); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if _, err := store.LoadGame(ctx, world.ManualSlot(2)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("LoadGame() of a newer save error = %v, expected ErrUnsupportedVersion", err)
	}

	if err := store.SaveGame(ctx, world.ManualSlot(1), nil); !errors.Is(err, world.ErrNilSaveData) {
		t.Errorf("SaveGame(nil) error = %v", err)
	}
}

func TestDeleteSave(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveGame(ctx, world.ManualSlot(1), sampleSave(1)); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if err := store.DeleteSave(ctx, world.ManualSlot(1)); err != nil {
		t.Fatalf("DeleteSave() failed: %v", err)
	}
	if _, err := store.LoadGame(ctx, world.ManualSlot(1)); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("LoadGame() after delete error = %v", err)
	}
	if err := store.DeleteSave(ctx, world.ManualSlot(1)); err != nil {
		t.Errorf("DeleteSave() of an empty slot failed: %v", err)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tally := events.NewTally()
	tally.Handle(events.EnemyKilled{Tier: 1, ByDash: true})
	tally.Handle(events.EnemyKilled{Tier: 2})
	tally.Handle(events.ItemCollected{Kind: "key"})
	tally.Handle(events.LevelFinished{Level: 1})
	tally.Handle(events.LevelFinished{Level: 2})

	run := NewRunRecord("session-1", "normal", false, tally.Totals())
	run.Outcome = "game_over"
	run.Duration = 95 * time.Second
	if _, err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	easy := NewRunRecord("session-2", "easy", true, events.NewTally().Totals())
	easy.Outcome = "quit"
	if _, err := store.RecordRun(ctx, easy); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	all, err := store.RecentRuns(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 2 || all[0].SessionID != "session-2" {
		t.Fatalf("RecentRuns() = %+v, expected newest first", all)
	}

	normal, err := store.RecentRuns(ctx, "normal", 10)
	if err != nil {
		t.Fatalf("RecentRuns(normal) failed: %v", err)
	}
	if len(normal) != 1 {
		t.Fatalf("RecentRuns(normal) returned %d runs, expected 1", len(normal))
	}
	got := normal[0]
	if got.Kills != 2 || got.DashKills != 1 || got.Items != 1 || got.HighestLevel != 2 || got.LevelsFinished != 2 {
		t.Errorf("run counters = %+v", got)
	}
	if got.Duration != 95*time.Second || got.Outcome != "game_over" {
		t.Errorf("run = %+v", got)
	}
}

func TestRunStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, r := range []RunRecord{
		{SessionID: "a", DifficultyID: "hard", Outcome: "game_over", HighestLevel: 3, Kills: 10},
		{SessionID: "b", DifficultyID: "hard", Outcome: "game_over", HighestLevel: 5, Kills: 20},
		{SessionID: "c", DifficultyID: "easy", Outcome: "quit", HighestLevel: 9, Kills: 1},
	} {
		if _, err := store.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	stats, err := store.GetRunStats(ctx, "hard")
	if err != nil {
		t.Fatalf("GetRunStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.BestLevel != 5 || stats.TotalKills != 30 || stats.AvgKills != 15 {
		t.Errorf("stats = %+v", stats)
	}

	empty, err := store.GetRunStats(ctx, "normal")
	if err != nil {
		t.Fatalf("GetRunStats(normal) failed: %v", err)
	}
	if empty.Runs != 0 || empty.BestLevel != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	all, err := store.GetRunStats(ctx, "")
	if err != nil {
		t.Fatalf("GetRunStats(all) failed: %v", err)
	}
	if all.Runs != 3 || all.BestLevel != 9 || all.LastPlayed.IsZero() {
		t.Errorf("all stats = %+v", all)
	}
}

func TestStoreWorksAsWorldSaveStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var s world.SaveStore = store
	if err := s.SaveGame(ctx, world.AutoSlot, sampleSave(2)); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if _, err := s.LoadGame(ctx, world.AutoSlot); err != nil {
		t.Errorf("LoadGame() failed: %v", err)
	}
}
