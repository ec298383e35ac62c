// Package config provides YAML-based configuration loading for the reversi
// host, with environment overrides and bot difficulty presets.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

// Config contains all configuration for the reversi host.
type Config struct {
	Engine   EngineConfig  `yaml:"engine"`
	Bot      BotConfig     `yaml:"bot"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Games    GamesConfig   `yaml:"games"`
	Storage  StorageConfig `yaml:"storage"`
	Server   ServerConfig  `yaml:"server"`
	Log      LogConfig     `yaml:"log"`
	Cleanup  time.Duration `yaml:"cleanup_period" env:"CLEANUP_PERIOD"`
}

// EngineConfig defines the rules shared by every game.
type EngineConfig struct {
	OverrideBudget int `yaml:"override_budget" env:"OVERRIDE_BUDGET"`
}

// BotConfig defines the automated opponent.
type BotConfig struct {
	ID             string           `yaml:"id" env:"BOT_ID"`
	Difficulty     DifficultyPreset `yaml:"difficulty" env:"BOT_DIFFICULTY"`
	OverrideCapped bool             `yaml:"override_capped" env:"BOT_OVERRIDE_CAPPED"`
	ThinkDelay     time.Duration    `yaml:"think_delay" env:"BOT_THINK_DELAY"`
	Schedule       reversi.Schedule `yaml:"override_schedule" envPrefix:"BOT_SCHEDULE_"`
}

// TimeoutConfig defines stage deadlines. Zero disables a deadline.
type TimeoutConfig struct {
	AwaitOpponent time.Duration `yaml:"await_opponent" env:"AWAIT_TIMEOUT"`
	Preliminary   time.Duration `yaml:"preliminary" env:"PRELIMINARY_TIMEOUT"`
	Entry         time.Duration `yaml:"entry" env:"ENTRY_TIMEOUT"`
}

// GamesConfig tunes the games played besides reversi.
type GamesConfig struct {
	ShowdownWindow time.Duration `yaml:"showdown_window" env:"SHOWDOWN_WINDOW"`
	HitBlowTurns   int           `yaml:"hitblow_turns" env:"HITBLOW_TURNS"`
}

// StorageConfig defines where match history is kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path" env:"DB_PATH"`
}

// ServerConfig defines the SSH host and the status API.
type ServerConfig struct {
	Address        string        `yaml:"address" env:"SSH_ADDR"`
	HostKeyPath    string        `yaml:"host_key" env:"HOST_KEY"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	HTTPAddr       string        `yaml:"http_addr" env:"HTTP_ADDR"`
	DefaultChannel string        `yaml:"default_channel" env:"DEFAULT_CHANNEL"`
}

// LogConfig defines logger verbosity.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Engine.OverrideBudget < 0 {
		return fmt.Errorf("engine.override_budget must not be negative, got %d", c.Engine.OverrideBudget)
	}
	if c.Bot.ID == "" {
		return fmt.Errorf("bot.id must not be empty")
	}
	if _, err := ParseDifficulty(string(c.Bot.Difficulty)); err != nil {
		return err
	}
	for i, t := range c.Bot.Schedule {
		if t.Probability < 0 || t.Probability > 1 {
			return fmt.Errorf("bot.override_schedule[%d].probability must be within [0, 1], got %g", i, t.Probability)
		}
		if t.Through < 0 {
			return fmt.Errorf("bot.override_schedule[%d].through must not be negative, got %d", i, t.Through)
		}
	}
	if c.Timeouts.AwaitOpponent < 0 || c.Timeouts.Preliminary < 0 || c.Timeouts.Entry < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Games.ShowdownWindow <= 0 {
		return fmt.Errorf("games.showdown_window must be positive, got %s", c.Games.ShowdownWindow)
	}
	if n := c.Games.HitBlowTurns; n < multiplayer.MinHitBlowTurns || n > multiplayer.MaxHitBlowTurns {
		return fmt.Errorf("games.hitblow_turns must be within [%d, %d], got %d",
			multiplayer.MinHitBlowTurns, multiplayer.MaxHitBlowTurns, n)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel returns the configured level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// MatchConfig converts the file settings into session rules.
func (c Config) MatchConfig() multiplayer.MatchConfig {
	return multiplayer.MatchConfig{
		OverrideBudget:     c.Engine.OverrideBudget,
		BotOverrideCapped:  c.Bot.OverrideCapped,
		BotID:              multiplayer.PlayerID(c.Bot.ID),
		Schedule:           ScheduleForPreset(c.Bot.Schedule, c.Bot.Difficulty),
		ThinkDelay:         c.Bot.ThinkDelay,
		AwaitTimeout:       c.Timeouts.AwaitOpponent,
		PreliminaryTimeout: c.Timeouts.Preliminary,
		EntryTimeout:       c.Timeouts.Entry,
		ShowdownWindow:     c.Games.ShowdownWindow,
		HitBlowTurns:       c.Games.HitBlowTurns,
	}
}

// CoordinatorConfig converts the file settings into coordinator settings.
func (c Config) CoordinatorConfig() multiplayer.CoordinatorConfig {
	return multiplayer.CoordinatorConfig{
		Match:         c.MatchConfig(),
		CleanupPeriod: c.Cleanup,
	}
}
