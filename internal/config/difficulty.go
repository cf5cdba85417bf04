package config

import "math"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ScaleHealth applies the health multiplier, never going below 1.
func (d *DifficultyConfig) ScaleHealth(base int) int {
	return scaleInt(base, d.EnemyHealthMultiplier)
}

// ScaleDamage applies the damage multiplier, never going below 1.
func (d *DifficultyConfig) ScaleDamage(base int) int {
	return scaleInt(base, d.EnemyDamageMultiplier)
}

// ScaleSpeed applies the enemy speed multiplier.
func (d *DifficultyConfig) ScaleSpeed(base float64) float64 {
	m := d.EnemySpeedMultiplier
	if m <= 0 {
		m = 1
	}
	return base * m
}

// Lives returns the starting lives, defaulting to 3.
func (d *DifficultyConfig) Lives() int {
	if d.InitialLives <= 0 {
		return 3
	}
	return d.InitialLives
}

func scaleInt(base int, mult float64) int {
	if mult <= 0 {
		mult = 1
	}
	v := int(math.Round(float64(base) * mult))
	if v < 1 {
		return 1
	}
	return v
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
