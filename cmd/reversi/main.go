// reversi hosts 6x6 override reversi, plus a few party games, in the terminal.
//
// Usage:
//
//	reversi play               - Play locally, hot-seat or against the bot
//	reversi serve              - Start the SSH server for channel play
//	reversi history [player]   - Show finished matches and standings
//	reversi games              - List the games a channel can start
//
// Global flags:
//
//	--config <path>       - Load settings from a YAML file
//	--db <path>           - Set database path (default: ~/.reversi/reversi.db)
//	--seed <value>        - Set RNG seed for reproducible bot play
//	--log-level <level>   - debug, info, warn or error
//	--difficulty <preset> - Bot override preset: easy, normal, hard, fixed
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/reversi-bot/internal/config"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagSeed       int64
	flagLogLevel   string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reversi",
	Short: "Reversi with overrides, played in your terminal",
	Long: `A 6x6 reversi variant where each side may spend a limited number of
overrides to place a disc on any cell, even an occupied one.

Available commands:
  play     - Local game in this terminal
  serve    - SSH server, one game per channel
  history  - Finished matches and standings
  games    - Games a channel can start

Examples:
  reversi play --vs-cpu
  reversi serve --ssh :2222 --http :9100
  reversi history alice`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to match database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Bot preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(gamesCmd)
}

// loadConfig reads the layered config and applies explicit flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		lvl, lvlErr := log.ParseLevel(flagLogLevel)
		if lvlErr != nil {
			return nil, fmt.Errorf("--log-level: %w", lvlErr)
		}
		cfg.Log.Level = lvl.String()
	}
	if flags.Changed("difficulty") {
		preset, presetErr := config.ParseDifficulty(flagDifficulty)
		if presetErr != nil {
			return nil, presetErr
		}
		cfg.Bot.Difficulty = preset
	}
	return &cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "reversi",
		Level:           cfg.LogLevel(),
	})
}
