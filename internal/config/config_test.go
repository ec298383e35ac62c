package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

// isolate points the user config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("embedded defaults drifted:\n got %+v\nwant %+v", cfg, DefaultConfig())
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, `
engine:
  override_budget: 3
bot:
  think_delay: 0s
  override_schedule:
    - through: 0
      probability: 0.5
log:
  level: debug
`)

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.OverrideBudget != 3 {
		t.Errorf("override budget = %d, want 3", cfg.Engine.OverrideBudget)
	}
	if cfg.Bot.ThinkDelay != 0 {
		t.Errorf("think delay = %v, want 0", cfg.Bot.ThinkDelay)
	}
	want := reversi.Schedule{{Through: 0, Probability: 0.5}}
	if !reflect.DeepEqual(cfg.Bot.Schedule, want) {
		t.Errorf("schedule = %+v, want %+v", cfg.Bot.Schedule, want)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Bot.ID != "bot" {
		t.Errorf("bot id = %q, want default", cfg.Bot.ID)
	}
	if cfg.Timeouts.Preliminary != time.Minute {
		t.Errorf("preliminary = %v, want 1m", cfg.Timeouts.Preliminary)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMalformedCustomPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "engine: [unterminated")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".reversi", "config.yaml"), "bot:\n  id: cpu\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bot.ID != "cpu" {
		t.Fatalf("bot id = %q, want cpu", cfg.Bot.ID)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("REVERSI_OVERRIDE_BUDGET", "4")
	t.Setenv("REVERSI_BOT_THINK_DELAY", "250ms")
	t.Setenv("REVERSI_BOT_OVERRIDE_CAPPED", "true")
	t.Setenv("REVERSI_SSH_ADDR", ":2222")
	t.Setenv("REVERSI_HITBLOW_TURNS", "8")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.OverrideBudget != 4 {
		t.Errorf("override budget = %d, want 4", cfg.Engine.OverrideBudget)
	}
	if cfg.Bot.ThinkDelay != 250*time.Millisecond {
		t.Errorf("think delay = %v, want 250ms", cfg.Bot.ThinkDelay)
	}
	if !cfg.Bot.OverrideCapped {
		t.Error("expected capped bot overrides")
	}
	if cfg.Server.Address != ":2222" {
		t.Errorf("address = %q, want :2222", cfg.Server.Address)
	}
	if cfg.Games.HitBlowTurns != 8 {
		t.Errorf("hitblow turns = %d, want 8", cfg.Games.HitBlowTurns)
	}
}

func TestEnvParseError(t *testing.T) {
	isolate(t)
	t.Setenv("REVERSI_OVERRIDE_BUDGET", "lots")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative budget", func(c *Config) { c.Engine.OverrideBudget = -1 }, "override_budget"},
		{"empty bot id", func(c *Config) { c.Bot.ID = "" }, "bot.id"},
		{"unknown difficulty", func(c *Config) { c.Bot.Difficulty = "brutal" }, "unknown difficulty"},
		{"probability above one", func(c *Config) { c.Bot.Schedule[0].Probability = 1.5 }, "probability"},
		{"negative timeout", func(c *Config) { c.Timeouts.Preliminary = -time.Second }, "timeouts"},
		{"negative entry window", func(c *Config) { c.Timeouts.Entry = -time.Second }, "timeouts"},
		{"no showdown window", func(c *Config) { c.Games.ShowdownWindow = 0 }, "showdown_window"},
		{"too many guesses", func(c *Config) { c.Games.HitBlowTurns = 12 }, "hitblow_turns"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestMatchConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.OverrideBudget = 7
	cfg.Bot.OverrideCapped = true
	cfg.Bot.Difficulty = DifficultyHard

	mc := cfg.MatchConfig()
	if mc.OverrideBudget != 7 || !mc.BotOverrideCapped {
		t.Fatalf("rules not carried over: %+v", mc)
	}
	if mc.BotID != "bot" {
		t.Fatalf("bot id = %q", mc.BotID)
	}
	if got := mc.Schedule.Probability(1); got < 0.149 || got > 0.151 {
		t.Fatalf("hard first tier = %v, want 0.15", got)
	}
	if mc.EntryTimeout != 30*time.Second || mc.ShowdownWindow != 5*time.Second || mc.HitBlowTurns != 6 {
		t.Fatalf("game settings not carried over: %+v", mc)
	}
	if cc := cfg.CoordinatorConfig(); cc.CleanupPeriod != 5*time.Second {
		t.Fatalf("cleanup period = %v", cc.CleanupPeriod)
	}
}
