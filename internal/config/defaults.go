package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

//go:embed defaults/reversi.yaml
var defaultReversiYAML []byte

// DefaultConfig returns the built-in configuration. It mirrors
// defaults/reversi.yaml.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			OverrideBudget: 10,
		},
		Bot: BotConfig{
			ID:         "bot",
			Difficulty: DifficultyNormal,
			ThinkDelay: 800 * time.Millisecond,
			Schedule:   reversi.DefaultSchedule(),
		},
		Timeouts: TimeoutConfig{
			AwaitOpponent: 2 * time.Minute,
			Preliminary:   time.Minute,
			Entry:         30 * time.Second,
		},
		Games: GamesConfig{
			ShowdownWindow: 5 * time.Second,
			HitBlowTurns:   6,
		},
		Storage: StorageConfig{
			DBPath: "~/.reversi/reversi.db",
		},
		Server: ServerConfig{
			Address:        ":23235",
			IdleTimeout:    30 * time.Minute,
			DefaultChannel: "lobby",
		},
		Log: LogConfig{
			Level: "info",
		},
		Cleanup: 5 * time.Second,
	}
}
