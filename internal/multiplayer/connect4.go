package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/reversi-bot/internal/games/connect4"
	"github.com/vovakirdan/reversi-bot/internal/registry"
)

func init() {
	Games.Register(registry.GameInfo{
		ID:      GameConnect4,
		Title:   "Connect Four",
		Aliases: []string{"con", "c4"},
		Summary: "drop pieces into a 7x6 grid, four in a line wins",
	}, func(p SessionParams) (Session, error) {
		return newConnectFour(p), nil
	})
}

// ConnectFour is a Connect Four session. The host waits for a challenger
// to join, then seats are drawn at random and red drops first.
type ConnectFour struct {
	session

	players [2]PlayerID // seat 0 plays red
	grid    connect4.Grid
	turn    int
	last    int
	moves   int
}

func newConnectFour(p SessionParams) *ConnectFour {
	g := &ConnectFour{session: newSession(GameConnect4, p), last: -1}
	g.stage = StageAwaitingOpponent
	g.deadline = deadlineAfter(p.Now, p.Config.AwaitTimeout)
	return g
}

// Players returns the seats; index 0 plays red. Empty before play starts.
func (g *ConnectFour) Players() [2]PlayerID { return g.players }

// Grid returns a copy of the grid.
func (g *ConnectFour) Grid() connect4.Grid { return g.grid }

// Turn returns the player to move, or empty outside the playing stage.
func (g *ConnectFour) Turn() PlayerID {
	if g.stage != StagePlaying {
		return ""
	}
	return g.players[g.turn]
}

// Announce greets the channel right after the session is created.
func (g *ConnectFour) Announce() {
	g.say(TextPrompt, "Connect Four started by %s. Send !join to take them on.", g.host)
}

// Join seats a challenger and starts play with random seats.
func (g *ConnectFour) Join(_ context.Context, player PlayerID, now time.Time) error {
	g.now = now
	if g.stage != StageAwaitingOpponent {
		return reject(ErrAlreadyInProgress, "Both seats are already taken.")
	}
	if player == g.host {
		return reject(ErrSelfChallenge, "You cannot play against yourself.")
	}

	seats := [2]PlayerID{g.host, player}
	g.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
	g.players = seats
	g.stage = StagePlaying
	g.startedAt = now
	g.deadline = time.Time{}
	g.stats.GameStarted(false)

	g.logger.Info("game started", "red", seats[0], "blue", seats[1])
	g.say(TextInfo, "%s vs %s! %s plays red and drops first.", seats[0], seats[1], seats[0])
	g.publishGrid(seats[0])
	g.prompt()
	return nil
}

// SubmitMove drops a piece into the column named by text. Anything that is
// not a column letter is treated as chat.
func (g *ConnectFour) SubmitMove(_ context.Context, player PlayerID, text string, now time.Time) error {
	g.now = now
	if g.stage != StagePlaying {
		return ErrWrongPhase
	}
	if player != g.players[g.turn] {
		return ErrNotYourTurn
	}

	col, err := connect4.ParseColumn(text)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedInput, text)
	}
	row, err := g.grid.Drop(col, connect4.PieceOf(g.turn))
	switch {
	case errors.Is(err, connect4.ErrColumnFull):
		return reject(ErrIllegalMove, "Column %s is full.", connect4.ColumnLabel(col))
	case err != nil:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	g.last = col
	g.moves++
	g.stats.MoveApplied("drop")
	g.logger.Debug("piece dropped", "column", connect4.ColumnLabel(col), "row", row, "player", player)

	switch {
	case g.grid.Connects(col, row):
		g.publishGrid("")
		g.finish(EndReasonCompleted, player, "")
	case g.grid.Full():
		g.publishGrid("")
		g.finish(EndReasonCompleted, "", "")
	default:
		g.turn = 1 - g.turn
		g.publishGrid(g.players[g.turn])
		g.prompt()
	}
	return nil
}

func (g *ConnectFour) prompt() {
	piece := connect4.PieceOf(g.turn)
	g.say(TextPrompt, "%s's turn (%s). Send a column letter A-G.", g.players[g.turn], piece)
}

func (g *ConnectFour) publishGrid(turn PlayerID) {
	g.out.Publish(GridEvent{
		Channel: g.channel,
		Cells:   g.grid.Cells(),
		Red:     g.players[0],
		Blue:    g.players[1],
		Turn:    turn,
		Piece:   connect4.PieceOf(g.turn),
		Last:    g.last,
	})
}

// Abort discards the session at the request of any player in the channel.
func (g *ConnectFour) Abort(requester PlayerID, now time.Time) {
	g.now = now
	g.finish(EndReasonAborted, "", fmt.Sprintf("%s ended the game.", requester))
}

// Expire cancels a game nobody joined in time.
func (g *ConnectFour) Expire(_ context.Context, now time.Time) (bool, error) {
	if g.deadline.IsZero() || now.Before(g.deadline) || g.stage != StageAwaitingOpponent {
		return false, nil
	}
	g.now = now
	g.finish(EndReasonTimeout, "", "Nobody joined in time. The game was cancelled.")
	return true, nil
}

func (g *ConnectFour) finish(reason EndReason, winner PlayerID, text string) {
	res := g.outcome(reason)
	res.Black = g.players[0]
	res.White = g.players[1]
	res.BlackCount = g.grid.Count(connect4.Red)
	res.WhiteCount = g.grid.Count(connect4.Blue)
	res.Moves = g.moves

	if reason == EndReasonCompleted {
		res.Winner = winner
		res.Draw = winner == ""
		g.out.Publish(ResultEvent{
			Channel:    g.channel,
			MatchID:    g.id,
			Game:       g.game,
			Black:      res.Black,
			White:      res.White,
			BlackCount: res.BlackCount,
			WhiteCount: res.WhiteCount,
			Winner:     res.Winner,
			Draw:       res.Draw,
		})
	}
	g.end(res, text)
}
