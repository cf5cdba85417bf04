package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    world.SaveTarget
		wantErr bool
	}{
		{"auto", world.AutoSlot, false},
		{"AUTO", world.AutoSlot, false},
		{"0", world.ManualSlot(0), false},
		{"12", world.ManualSlot(12), false},
		{"-1", world.SaveTarget{}, true},
		{"first", world.SaveTarget{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTarget(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTarget(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTarget(%q) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextFreeSlot(t *testing.T) {
	if got := nextFreeSlot(nil); got != world.ManualSlot(1) {
		t.Errorf("nextFreeSlot(nil) = %v", got)
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "maze.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	data := &world.GameSaveData{
		Version:      world.SaveVersion,
		Grid:         core.NewGrid(3, 3, core.CellWall),
		Level:        1,
		DifficultyID: "normal",
		SavedAt:      time.Now(),
	}
	for _, target := range []world.SaveTarget{world.AutoSlot, world.ManualSlot(1), world.ManualSlot(2), world.ManualSlot(4)} {
		if err := store.SaveGame(context.Background(), target, data); err != nil {
			t.Fatalf("SaveGame(%v) failed: %v", target, err)
		}
	}

	if got := nextFreeSlot(store); got != world.ManualSlot(3) {
		t.Errorf("nextFreeSlot() = %v, expected slot 3", got)
	}
	if _, err := findSave(store, world.ManualSlot(3)); err == nil {
		t.Error("findSave() of an empty slot succeeded")
	}
	if info, err := findSave(store, world.ManualSlot(4)); err != nil || info.DifficultyID != "normal" {
		t.Errorf("findSave(slot 4) = %+v, %v", info, err)
	}
}
