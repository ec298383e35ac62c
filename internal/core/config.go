package core

// RuntimeConfig contains process-wide settings handed to the engine at startup.
type RuntimeConfig struct {
	Seed int64 // RNG seed for deterministic play, 0 means use current time
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Seed: 0,
	}
}

// Rand builds the randomness source described by the config.
func (c RuntimeConfig) Rand() Rand {
	return NewRand(c.Seed)
}
