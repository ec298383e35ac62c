package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/platform/tui"
)

const localChannel multiplayer.ChannelID = "local"

var (
	flagName    string
	flagVsCPU   bool
	flagGame    string
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a local game",
	Long: `Open the game chat in this terminal.

Both seats can be played from one keyboard: type /as <name> to speak as
another player. With --vs-cpu a reversi game against the bot starts right
away; --game opens any other game (see 'reversi games').

Commands:
  !reversi     - Open a game in the channel (!c4, !hit, !hoi, !rps for the others)
  @name        - Name your opponent (host only)
  rock, paper, scissors (or r, p, s) - Throw a hand
  D3, d3       - Place a disc
  !budget      - Remaining overrides
  !join, !go   - Enter a game, start it early
  !end         - Abort the game
  /games       - List the games
  /quit        - Leave

Examples:
  reversi play --vs-cpu
  reversi play --name alice --difficulty hard --vs-cpu
  reversi play --game c4
  reversi play --log-file reversi.log`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name (default: $USER)")
	playCmd.Flags().BoolVar(&flagVsCPU, "vs-cpu", false, "Start a game against the bot")
	playCmd.Flags().StringVar(&flagGame, "game", "", "Open this game on start, by ID or alias")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagGame != "" && flagVsCPU {
		return fmt.Errorf("--vs-cpu plays reversi and cannot be combined with --game")
	}
	if flagGame != "" && !multiplayer.Games.Exists(flagGame) {
		return fmt.Errorf("unknown game %q, see 'reversi games'", flagGame)
	}

	// The chat owns the terminal, so logs go elsewhere.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if openErr != nil {
			return fmt.Errorf("cannot open log file: %w", openErr)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	h := newHost(cfg, nil, logger)
	defer h.Close()

	user := multiplayer.PlayerID(playerName())
	sub := multiplayer.NewChannelSubscriber("local", 256)
	h.fanout.Register(localChannel, sub)
	defer func() {
		h.fanout.Unregister(localChannel, sub.ID())
		sub.Close()
	}()

	switch {
	case flagGame != "":
		h.coord.Send(multiplayer.StartGameMsg{Channel: localChannel, Requester: user, Game: flagGame})
	case flagVsCPU:
		h.coord.Send(multiplayer.StartGameMsg{Channel: localChannel, Requester: user})
		h.coord.Send(multiplayer.NameOpponentMsg{
			Channel:   localChannel,
			Requester: user,
			Opponent:  multiplayer.PlayerID(cfg.Bot.ID),
		})
	}

	width, height := 80, 24
	if w, ht, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, ht
	}

	return tui.RunChat(tui.ChatOptions{
		Channel: localChannel,
		User:    user,
		HotSeat: true,
		Width:   width,
		Height:  height,
	}, h.coord, sub)
}

func playerName() string {
	if flagName != "" {
		return flagName
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
