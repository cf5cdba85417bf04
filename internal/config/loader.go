package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the maze configuration.
// Search order: customPath -> ~/.maze/config.yaml -> ./configs/maze.yaml -> embedded default
func Load(customPath string) (Config, error) {
	var cfg Config

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return normalize(cfg), nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return normalize(cfg), nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/maze.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return normalize(cfg), nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultMazeYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return normalize(cfg), nil
}

// Marshal renders a configuration as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".maze", filename)
}

// normalize fills missing values from the defaults so that a partial
// YAML file still yields a runnable configuration.
func normalize(cfg Config) Config {
	def := DefaultConfig()

	if cfg.Engine.TickRate <= 0 {
		cfg.Engine.TickRate = def.Engine.TickRate
	}
	if cfg.Engine.AutoSaveInterval <= 0 {
		cfg.Engine.AutoSaveInterval = def.Engine.AutoSaveInterval
	}
	if cfg.Engine.TransitionDuration <= 0 {
		cfg.Engine.TransitionDuration = def.Engine.TransitionDuration
	}
	if cfg.Engine.RevivalDelay <= 0 {
		cfg.Engine.RevivalDelay = def.Engine.RevivalDelay
	}
	if cfg.Engine.RevivalHealth <= 0 {
		cfg.Engine.RevivalHealth = def.Engine.RevivalHealth
	}
	if cfg.Engine.Player.Speed <= 0 {
		cfg.Engine.Player = def.Engine.Player
	}
	if cfg.Engine.Enemies.SlimeHealth <= 0 {
		cfg.Engine.Enemies = def.Engine.Enemies
	}
	if cfg.Engine.Hazards.SpikePeriod <= 0 {
		cfg.Engine.Hazards = def.Engine.Hazards
	}
	cfg.Engine.Items.DropChance = clampF(cfg.Engine.Items.DropChance, 0.0, 1.0)

	if len(cfg.Difficulties) == 0 {
		cfg.Difficulties = def.Difficulties
	}
	for id, d := range cfg.Difficulties {
		if d.ID == "" {
			d.ID = id
		}
		cfg.Difficulties[id] = d
	}
	return cfg
}
