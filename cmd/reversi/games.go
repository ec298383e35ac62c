package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the games a channel can start",
	Long:  `Shows every registered game with the chat commands that open it.`,
	Args:  cobra.NoArgs,
	Run:   runGames,
}

func runGames(*cobra.Command, []string) {
	games := multiplayer.Games.List()

	maxCmdLen := len("Commands")
	cmds := make([]string, len(games))
	for i, g := range games {
		names := []string{"!" + g.ID}
		for _, a := range g.Aliases {
			names = append(names, "!"+a)
		}
		cmds[i] = strings.Join(names, " ")
		maxCmdLen = max(maxCmdLen, len(cmds[i]))
	}

	fmt.Println("Available games:")
	fmt.Println()
	fmt.Printf("  %-*s  %-18s  %s\n", maxCmdLen, "Commands", "Title", "Rules")
	fmt.Printf("  %-*s  %-18s  %s\n", maxCmdLen, "--------", "-----", "-----")
	for i, g := range games {
		fmt.Printf("  %-*s  %-18s  %s\n", maxCmdLen, cmds[i], g.Title, g.Summary)
	}

	fmt.Println()
	fmt.Println("Type a command in the chat, or run 'reversi play --game <id>'.")
}
