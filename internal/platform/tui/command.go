package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/reversi-bot/internal/janken"
	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

// CommandKind classifies a line typed into the chat.
type CommandKind int

const (
	CommandNone     CommandKind = iota // blank line
	CommandStart                       // !osero, !c4, !hit dup 5, ...
	CommandEnd                         // !end
	CommandBudget                      // !budget
	CommandOpponent                    // @name
	CommandGesture                     // rock, paper, scissors
	CommandMove                        // anything else: a coordinate, column, guess or direction
	CommandAs                          // /as name
	CommandHelp                        // /help
	CommandQuit                        // /quit
	CommandJoin                        // !join
	CommandBegin                       // !go
	CommandLeave                       // !leave
	CommandHistory                     // !history
	CommandGames                       // /games
)

// Command is a parsed chat line.
type Command struct {
	Kind    CommandKind
	Arg     string
	Game    string   // registered game ID, for CommandStart
	Args    []string // options after the game command
	Gesture janken.Gesture
}

// ParseCommand classifies a chat line. Lines that are not recognised as a
// command are treated as move text and left for the session to judge.
func ParseCommand(line string) Command {
	text := strings.TrimSpace(line)
	if text == "" {
		return Command{Kind: CommandNone}
	}

	fields := strings.Fields(text)
	switch strings.ToLower(fields[0]) {
	case "!end", "!stop":
		return Command{Kind: CommandEnd}
	case "!budget", "!overrides":
		return Command{Kind: CommandBudget}
	case "/help", "!help":
		return Command{Kind: CommandHelp}
	case "/quit", "/exit":
		return Command{Kind: CommandQuit}
	case "/games", "!games":
		return Command{Kind: CommandGames}
	case "!join", "!entry":
		return Command{Kind: CommandJoin}
	case "!go", "!begin":
		return Command{Kind: CommandBegin}
	case "!leave", "!exit":
		return Command{Kind: CommandLeave}
	case "!his", "!history":
		return Command{Kind: CommandHistory}
	case "/as":
		if len(fields) < 2 {
			return Command{Kind: CommandAs}
		}
		return Command{Kind: CommandAs, Arg: fields[1]}
	}

	if strings.HasPrefix(fields[0], "!") {
		if info, _, ok := multiplayer.Games.Lookup(fields[0]); ok {
			cmd := Command{Kind: CommandStart, Game: info.ID}
			if len(fields) > 1 {
				cmd.Args = fields[1:]
			}
			return cmd
		}
	}

	if name, ok := strings.CutPrefix(text, "@"); ok {
		return Command{Kind: CommandOpponent, Arg: strings.TrimSpace(name)}
	}
	if g, err := janken.ParseGesture(text); err == nil {
		return Command{Kind: CommandGesture, Gesture: g}
	}
	return Command{Kind: CommandMove, Arg: text}
}

// Message converts the command into a coordinator message sent on behalf
// of player. Local commands return nil.
func (c Command) Message(ch multiplayer.ChannelID, player multiplayer.PlayerID) multiplayer.CoordinatorMessage {
	switch c.Kind {
	case CommandStart:
		return multiplayer.StartGameMsg{Channel: ch, Requester: player, Game: c.Game, Args: c.Args}
	case CommandEnd:
		return multiplayer.AbortGameMsg{Channel: ch, Requester: player}
	case CommandBudget:
		return multiplayer.QueryOverrideBudgetMsg{Channel: ch, Requester: player}
	case CommandOpponent:
		return multiplayer.NameOpponentMsg{Channel: ch, Requester: player, Opponent: multiplayer.PlayerID(c.Arg)}
	case CommandGesture:
		return multiplayer.SubmitGestureMsg{Channel: ch, Player: player, Gesture: c.Gesture}
	case CommandMove:
		return multiplayer.SubmitMoveMsg{Channel: ch, Player: player, Text: c.Arg}
	case CommandJoin:
		return multiplayer.JoinGameMsg{Channel: ch, Player: player}
	case CommandLeave:
		return multiplayer.LeaveGameMsg{Channel: ch, Player: player}
	case CommandBegin:
		return multiplayer.BeginGameMsg{Channel: ch, Requester: player}
	case CommandHistory:
		return multiplayer.ShowHistoryMsg{Channel: ch, Requester: player}
	}
	return nil
}

// helpLines documents the chat commands.
var helpLines = []string{
	"!osero             start reversi in this channel (/games lists the others)",
	"@name              name your opponent (@bot plays the computer)",
	"rock|paper|scissors  throw a hand (グー/チョキ/パー work too)",
	"D3                 place a disc, or override an opponent disc",
	"!budget            show your overrides",
	"!join  !go         enter a game, start it early",
	"!leave !history    quit a guessing game, list its guesses",
	"!end               end the game",
	"/as name           switch identity (local play only)",
	"/quit              leave",
}

// gameLines lists the registered games with their commands.
func gameLines() []string {
	games := multiplayer.Games.List()
	lines := make([]string, 0, len(games))
	for _, g := range games {
		cmds := []string{"!" + g.ID}
		for _, a := range g.Aliases {
			cmds = append(cmds, "!"+a)
		}
		lines = append(lines, fmt.Sprintf("%-24s %s: %s", strings.Join(cmds, " "), g.Title, g.Summary))
	}
	return lines
}
