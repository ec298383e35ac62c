package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/reversi-bot/internal/platform/tui"
	"github.com/vovakirdan/reversi-bot/internal/storage"
)

var (
	flagHistoryTUI   bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [player]",
	Short: "Show finished matches",
	Long: `List recent matches, or one player's record and matches.

Examples:
  reversi history
  reversi history alice
  reversi history --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse history interactively")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of matches to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("cannot open match database: %w", err)
	}
	defer store.Close()

	player := ""
	if len(args) == 1 {
		player = args[0]
	}

	if flagHistoryTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunHistory(store, player, width, height)
	}

	if player == "" {
		matches, listErr := store.RecentMatches(flagHistoryLimit)
		if listErr != nil {
			return fmt.Errorf("cannot load matches: %w", listErr)
		}
		fmt.Println("Recent matches")
		fmt.Println()
		printMatches(matches)
		return nil
	}

	rec, err := store.PlayerRecord(player)
	if err != nil {
		return fmt.Errorf("cannot load record: %w", err)
	}
	matches, err := store.PlayerMatches(player, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("cannot load matches: %w", err)
	}

	fmt.Printf("%s - %d played, %d won, %d lost, %d drawn, %d unfinished\n",
		rec.Player, rec.Played(), rec.Wins, rec.Losses, rec.Draws, rec.Aborted)
	fmt.Println()
	printMatches(matches)
	return nil
}

func printMatches(matches []storage.MatchRecord) {
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'reversi play --vs-cpu' to play the first one!")
		return
	}

	fmt.Printf("  %-16s  %-9s  %-12s  %-12s  %-7s  %s\n", "Date", "Game", "Black", "White", "Score", "Result")
	fmt.Printf("  %-16s  %-9s  %-12s  %-12s  %-7s  %s\n", "----", "----", "-----", "-----", "-----", "------")
	for _, m := range matches {
		score := fmt.Sprintf("%d-%d", m.BlackCount, m.WhiteCount)
		fmt.Printf("  %-16s  %-9s  %-12s  %-12s  %-7s  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Game, m.BlackPlayer, m.WhitePlayer, score, outcome(m))
	}
}

func outcome(m storage.MatchRecord) string {
	switch {
	case m.EndReason != "completed":
		return m.EndReason
	case m.Draw():
		return "draw"
	default:
		return m.Winner + " won"
	}
}
