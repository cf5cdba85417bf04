package config

import (
	_ "embed"
)

//go:embed defaults/maze.yaml
var defaultMazeYAML []byte

// DefaultConfig returns the hardcoded configuration used when no YAML
// source (including the embedded one) can be parsed.
func DefaultConfig() Config {
	return Config{
		Engine: DefaultEngineConfig(),
		Difficulties: map[string]DifficultyConfig{
			string(DifficultyEasy): {
				ID:                    string(DifficultyEasy),
				MazeWidth:             21,
				MazeHeight:            15,
				EnemyCount:            4,
				TrapCount:             3,
				ObstacleCount:         2,
				EnemyHealthMultiplier: 0.75,
				EnemyDamageMultiplier: 1.0,
				EnemySpeedMultiplier:  0.8,
				InitialLives:          5,
			},
			string(DifficultyNormal): {
				ID:                    string(DifficultyNormal),
				MazeWidth:             27,
				MazeHeight:            19,
				EnemyCount:            7,
				TrapCount:             5,
				ObstacleCount:         3,
				EnemyHealthMultiplier: 1.0,
				EnemyDamageMultiplier: 1.0,
				EnemySpeedMultiplier:  1.0,
				InitialLives:          3,
			},
			string(DifficultyHard): {
				ID:                    string(DifficultyHard),
				MazeWidth:             33,
				MazeHeight:            23,
				EnemyCount:            11,
				TrapCount:             8,
				ObstacleCount:         5,
				EnemyHealthMultiplier: 1.5,
				EnemyDamageMultiplier: 2.0,
				EnemySpeedMultiplier:  1.3,
				InitialLives:          2,
			},
		},
	}
}

// DefaultEngineConfig returns the default engine tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickRate:           60,
		AutoSaveInterval:   30.0,
		TransitionDuration: 1.2,
		HitStopKill:        0.08,
		HitStopDamage:      0.12,
		ShakeDuration:      0.25,
		RevivalDelay:       5.0,
		RevivalHealth:      1,
		Player: PlayerTuning{
			Speed:               6.0,
			MaxMana:             10,
			ManaRegenInterval:   2.0,
			DamageInvincibility: 1.0,
			HitStun:             0.3,
			SlowFactor:          0.5,
			SlowDuration:        2.0,
		},
		Enemies: EnemyTuning{
			SlimeHealth:       2,
			SlimeMoveInterval: 0.6,
			SlimeChaseRange:   6,
			BatHealth:         1,
			BatSpeed:          3.0,
			BatRadius:         0.45,
			GolemHealth:       6,
			GolemFireInterval: 2.5,
			ProjectileSpeed:   5.0,
			ProjectileRadius:  0.35,
			ProjectileTTL:     4.0,
			ContactDamage:     1,
			DashDamage:        1,
		},
		Hazards: HazardTuning{
			SpikePeriod:    1.5,
			SpikeDamage:    1,
			ObstaclePeriod: 3.0,
		},
		Items: ItemsTuning{
			DropChance:    0.2,
			TreasureCount: 2,
			HeartCount:    1,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultMazeYAML
}
