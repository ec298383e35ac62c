package multiplayer

import (
	"time"

	"github.com/vovakirdan/reversi-bot/internal/games/connect4"
	"github.com/vovakirdan/reversi-bot/internal/janken"
	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

// Notification is published by a session to everyone watching its channel.
type Notification interface {
	ChannelID() ChannelID
	notification()
}

// BoardEvent asks the host to render the current position.
type BoardEvent struct {
	Channel    ChannelID
	Board      reversi.Board
	Black      PlayerID
	White      PlayerID
	Turn       PlayerID        // player to move next
	Color      reversi.Disc    // colour of Turn
	Legal      []reversi.Coord // legal moves for Turn
	LastMove   *reversi.Coord
	BlackCount int
	WhiteCount int
}

func (e BoardEvent) ChannelID() ChannelID { return e.Channel }
func (BoardEvent) notification()          {}

// GridEvent asks the host to render a Connect Four grid.
type GridEvent struct {
	Channel ChannelID
	Cells   [connect4.Rows][connect4.Columns]connect4.Piece
	Red     PlayerID
	Blue    PlayerID
	Turn    PlayerID // empty once the game is over
	Piece   connect4.Piece
	Last    int // column of the last drop, -1 before the first
}

func (e GridEvent) ChannelID() ChannelID { return e.Channel }
func (GridEvent) notification()          {}

// TextKind classifies a status line so hosts can style it.
type TextKind int

const (
	TextInfo TextKind = iota
	TextPrompt
	TextRejected
	TextSkip
	TextOverride
	TextBudget
	TextSelection
	TextGuess
	TextHistory
)

// TextEvent is a plain status message. To is set when the text is meant
// for a single player (rejections, budget replies).
type TextEvent struct {
	Channel ChannelID
	Kind    TextKind
	To      PlayerID
	Text    string
}

func (e TextEvent) ChannelID() ChannelID { return e.Channel }
func (TextEvent) notification()          {}

// ResultEvent carries the final tally of a two-player game. For Connect
// Four Black is the red seat and the counts are pieces on the grid.
type ResultEvent struct {
	Channel    ChannelID
	MatchID    MatchID
	Game       string
	Black      PlayerID
	White      PlayerID
	BlackCount int
	WhiteCount int
	Winner     PlayerID // empty on a draw
	Draw       bool
}

func (e ResultEvent) ChannelID() ChannelID { return e.Channel }
func (ResultEvent) notification()          {}

// TerminatedEvent tells the host the session is gone.
type TerminatedEvent struct {
	Channel ChannelID
	Game    string
	Reason  EndReason
	Text    string
}

func (e TerminatedEvent) ChannelID() ChannelID { return e.Channel }
func (TerminatedEvent) notification()          {}

// InternalErrorEvent signals a broken invariant. The session is left as it was.
type InternalErrorEvent struct {
	Channel ChannelID
	Err     error
}

func (e InternalErrorEvent) ChannelID() ChannelID { return e.Channel }
func (InternalErrorEvent) notification()          {}

// CoordinatorMessage represents a message from the host to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// StartGameMsg opens a session in a channel. Game is a registered ID or
// alias; empty means reversi.
type StartGameMsg struct {
	Channel   ChannelID
	Requester PlayerID
	Game      string
	Args      []string
}

func (StartGameMsg) coordinatorMessage() {}

// NameOpponentMsg picks the opponent for a waiting session.
type NameOpponentMsg struct {
	Channel   ChannelID
	Requester PlayerID
	Opponent  PlayerID
}

func (NameOpponentMsg) coordinatorMessage() {}

// SubmitMoveMsg carries raw coordinate text such as "D3".
type SubmitMoveMsg struct {
	Channel ChannelID
	Player  PlayerID
	Text    string
}

func (SubmitMoveMsg) coordinatorMessage() {}

// SubmitGestureMsg carries a preliminary-selection hand.
type SubmitGestureMsg struct {
	Channel ChannelID
	Player  PlayerID
	Gesture janken.Gesture
}

func (SubmitGestureMsg) coordinatorMessage() {}

// AbortGameMsg discards the channel's session.
type AbortGameMsg struct {
	Channel   ChannelID
	Requester PlayerID
}

func (AbortGameMsg) coordinatorMessage() {}

// QueryOverrideBudgetMsg asks for the requester's remaining overrides.
type QueryOverrideBudgetMsg struct {
	Channel   ChannelID
	Requester PlayerID
}

func (QueryOverrideBudgetMsg) coordinatorMessage() {}

// JoinGameMsg enters a player into the channel's session.
type JoinGameMsg struct {
	Channel ChannelID
	Player  PlayerID
}

func (JoinGameMsg) coordinatorMessage() {}

// LeaveGameMsg takes a player out of the channel's session.
type LeaveGameMsg struct {
	Channel ChannelID
	Player  PlayerID
}

func (LeaveGameMsg) coordinatorMessage() {}

// BeginGameMsg closes the entry window early.
type BeginGameMsg struct {
	Channel   ChannelID
	Requester PlayerID
}

func (BeginGameMsg) coordinatorMessage() {}

// ShowHistoryMsg asks for the guesses made so far.
type ShowHistoryMsg struct {
	Channel   ChannelID
	Requester PlayerID
}

func (ShowHistoryMsg) coordinatorMessage() {}

// botTurnMsg wakes the bot once its think delay has passed. It is dropped
// when the session or the generation no longer match.
type botTurnMsg struct {
	channel ChannelID
	match   MatchID
	gen     int
}

func (botTurnMsg) coordinatorMessage() {}

// sweepMsg expires sessions whose stage deadline passed.
type sweepMsg struct {
	now time.Time
}

func (sweepMsg) coordinatorMessage() {}
