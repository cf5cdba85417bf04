package core

// RuntimeConfig contains configuration passed to the simulation at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDelta returns the fixed step length in seconds.
func (c RuntimeConfig) TickDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}
