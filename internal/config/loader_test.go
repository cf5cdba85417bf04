package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCustomPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "maze.yaml")

	yamlData := `
engine:
  tick_rate: 30
  auto_save_interval: 10
difficulties:
  tiny:
    maze_width: 9
    maze_height: 9
    enemy_count: 1
    initial_lives: 7
`
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Engine.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.Engine.TickRate)
	}
	if cfg.Engine.AutoSaveInterval != 10 {
		t.Errorf("AutoSaveInterval = %v, expected 10", cfg.Engine.AutoSaveInterval)
	}
	// Missing sections fall back to defaults
	if cfg.Engine.Player.Speed != DefaultEngineConfig().Player.Speed {
		t.Errorf("Player.Speed = %v, expected default", cfg.Engine.Player.Speed)
	}

	d, ok := cfg.Difficulty("tiny")
	if !ok {
		t.Fatal("expected tiny difficulty")
	}
	if d.ID != "tiny" {
		t.Errorf("ID = %q, expected tiny", d.ID)
	}
	if d.Lives() != 7 {
		t.Errorf("Lives() = %d, expected 7", d.Lives())
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine: [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	def := DefaultConfig()
	for _, id := range def.DifficultyIDs() {
		got, ok := cfg.Difficulty(id)
		if !ok {
			t.Errorf("preset %q missing from loaded config", id)
			continue
		}
		want, _ := def.Difficulty(id)
		if *got != *want {
			t.Errorf("preset %q = %+v, expected %+v", id, *got, *want)
		}
	}
	if cfg.Engine != def.Engine {
		t.Errorf("engine config = %+v, expected %+v", cfg.Engine, def.Engine)
	}
}

func TestDifficultyScaling(t *testing.T) {
	d := &DifficultyConfig{
		EnemyHealthMultiplier: 1.5,
		EnemyDamageMultiplier: 0.1,
		EnemySpeedMultiplier:  2,
	}

	if got := d.ScaleHealth(4); got != 6 {
		t.Errorf("ScaleHealth(4) = %d, expected 6", got)
	}
	if got := d.ScaleDamage(1); got != 1 {
		t.Errorf("ScaleDamage(1) = %d, expected floor of 1", got)
	}
	if got := d.ScaleSpeed(3); got != 6 {
		t.Errorf("ScaleSpeed(3) = %v, expected 6", got)
	}

	zero := &DifficultyConfig{}
	if zero.ScaleHealth(2) != 2 || zero.Lives() != 3 {
		t.Error("zero multipliers should behave as identity and lives default to 3")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(cfg.Difficulties) != 3 {
		t.Errorf("expected 3 presets after round trip, got %d", len(cfg.Difficulties))
	}
}
