// Package config provides YAML-based engine configuration loading and
// difficulty presets for the maze runtime.
package config

import "sort"

// Config is the root of the YAML configuration file.
type Config struct {
	Engine       EngineConfig                `yaml:"engine"`
	Difficulties map[string]DifficultyConfig `yaml:"difficulties"`
}

// EngineConfig holds the tick engine timing and tuning values.
// All durations are in seconds.
type EngineConfig struct {
	TickRate int `yaml:"tick_rate"`

	AutoSaveInterval   float64 `yaml:"auto_save_interval"`
	TransitionDuration float64 `yaml:"transition_duration"`
	HitStopKill        float64 `yaml:"hit_stop_kill"`
	HitStopDamage      float64 `yaml:"hit_stop_damage"`
	ShakeDuration      float64 `yaml:"shake_duration"`

	RevivalDelay  float64 `yaml:"revival_delay"`
	RevivalHealth int     `yaml:"revival_health"`

	Player  PlayerTuning `yaml:"player"`
	Enemies EnemyTuning  `yaml:"enemies"`
	Hazards HazardTuning `yaml:"hazards"`
	Items   ItemsTuning  `yaml:"items"`
}

// PlayerTuning defines player movement and resource parameters.
type PlayerTuning struct {
	Speed               float64 `yaml:"speed"` // cells per second
	MaxMana             int     `yaml:"max_mana"`
	ManaRegenInterval   float64 `yaml:"mana_regen_interval"`
	DamageInvincibility float64 `yaml:"damage_invincibility"`
	HitStun             float64 `yaml:"hit_stun"`
	SlowFactor          float64 `yaml:"slow_factor"`
	SlowDuration        float64 `yaml:"slow_duration"`
}

// EnemyTuning defines base enemy parameters before difficulty scaling.
type EnemyTuning struct {
	SlimeHealth       int     `yaml:"slime_health"`
	SlimeMoveInterval float64 `yaml:"slime_move_interval"`
	SlimeChaseRange   int     `yaml:"slime_chase_range"`
	BatHealth         int     `yaml:"bat_health"`
	BatSpeed          float64 `yaml:"bat_speed"`
	BatRadius         float64 `yaml:"bat_radius"`
	GolemHealth       int     `yaml:"golem_health"`
	GolemFireInterval float64 `yaml:"golem_fire_interval"`
	ProjectileSpeed   float64 `yaml:"projectile_speed"`
	ProjectileRadius  float64 `yaml:"projectile_radius"`
	ProjectileTTL     float64 `yaml:"projectile_ttl"`
	ContactDamage     int     `yaml:"contact_damage"`
	DashDamage        int     `yaml:"dash_damage"`
}

// HazardTuning defines trap and obstacle cycles.
type HazardTuning struct {
	SpikePeriod    float64 `yaml:"spike_period"`
	SpikeDamage    int     `yaml:"spike_damage"`
	ObstaclePeriod float64 `yaml:"obstacle_period"`
}

// ItemsTuning defines pickup behaviour.
type ItemsTuning struct {
	DropChance    float64 `yaml:"drop_chance"` // 0.0 - 1.0
	TreasureCount int     `yaml:"treasure_count"`
	HeartCount    int     `yaml:"heart_count"`
}

// DifficultyConfig is an immutable per-session value object.
// It is created once per session and shared by pointer; nothing mutates it.
type DifficultyConfig struct {
	ID                    string  `yaml:"id"`
	MazeWidth             int     `yaml:"maze_width"`
	MazeHeight            int     `yaml:"maze_height"`
	EnemyCount            int     `yaml:"enemy_count"`
	TrapCount             int     `yaml:"trap_count"`
	ObstacleCount         int     `yaml:"obstacle_count"`
	EnemyHealthMultiplier float64 `yaml:"enemy_health_multiplier"`
	EnemyDamageMultiplier float64 `yaml:"enemy_damage_multiplier"`
	EnemySpeedMultiplier  float64 `yaml:"enemy_speed_multiplier"`
	InitialLives          int     `yaml:"initial_lives"`
}

// Difficulty returns a copy of the named preset.
func (c Config) Difficulty(id string) (*DifficultyConfig, bool) {
	d, ok := c.Difficulties[id]
	if !ok {
		return nil, false
	}
	if d.ID == "" {
		d.ID = id
	}
	return &d, true
}

// DifficultyIDs returns the configured preset names, sorted.
func (c Config) DifficultyIDs() []string {
	ids := make([]string, 0, len(c.Difficulties))
	for id := range c.Difficulties {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
