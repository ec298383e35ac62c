package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/reversi-bot/internal/janken"
	"github.com/vovakirdan/reversi-bot/internal/registry"
	"github.com/vovakirdan/reversi-bot/internal/reversi"
)

func init() {
	Games.Register(registry.GameInfo{
		ID:      GameReversi,
		Title:   "Reversi",
		Aliases: []string{"osero", "othello", "start"},
		Summary: "6x6 Othello with overrides, against a player or the computer",
	}, func(p SessionParams) (Session, error) {
		return newMatch(p), nil
	})
}

// MatchConfig holds the rules applied to every session.
type MatchConfig struct {
	OverrideBudget     int              // overrides per player, or per shared pool against the bot
	BotOverrideCapped  bool             // stop bot overrides once the shared pool is spent
	BotID              PlayerID         // opponent name that selects the automated player
	Schedule           reversi.Schedule // bot override probability by turn
	ThinkDelay         time.Duration    // pause before each bot move
	AwaitTimeout       time.Duration    // zero disables the opponent deadline
	PreliminaryTimeout time.Duration    // zero disables the selection deadline
	EntryTimeout       time.Duration    // how long Hit and Blow and the tournament take entries
	ShowdownWindow     time.Duration    // how long a group janken round collects hands
	HitBlowTurns       int              // Hit and Blow guesses when the host names no limit
}

// DefaultMatchConfig returns the standard rules.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		OverrideBudget:     10,
		BotID:              "bot",
		Schedule:           reversi.DefaultSchedule(),
		AwaitTimeout:       2 * time.Minute,
		PreliminaryTimeout: time.Minute,
		EntryTimeout:       30 * time.Second,
		ShowdownWindow:     5 * time.Second,
		HitBlowTurns:       6,
	}
}

// MatchResult contains the outcome of a discarded session. Black and White
// name the first and second seat of two-player games and stay empty for
// the group games.
type MatchResult struct {
	MatchID    MatchID
	Game       string
	Channel    ChannelID
	Reason     EndReason
	Black      PlayerID
	White      PlayerID
	BlackCount int
	WhiteCount int
	Winner     PlayerID   // empty on a draw or when play never started
	Winners    []PlayerID // group janken can have several
	Draw       bool
	Moves      int
	Overrides  int
	Duration   time.Duration
	Played     bool // the session reached the playing stage
}

// Seated reports whether the result records two seated players.
func (r MatchResult) Seated() bool {
	return r.Black != "" && r.White != ""
}

var seatLabels = map[string][2]string{
	GameReversi:  {"black", "white"},
	GameConnect4: {"red", "blue"},
}

// Outcome labels the result for metrics and history.
func (r MatchResult) Outcome() string {
	labels, seated := seatLabels[r.Game]
	if r.Game == "" {
		labels, seated = seatLabels[GameReversi], true
	}
	switch {
	case r.Reason != EndReasonCompleted:
		return r.Reason.String()
	case r.Draw:
		return "draw"
	case r.Winner == "" && len(r.Winners) == 0:
		return "unsolved"
	case !seated:
		return "won"
	case r.Winner == r.Black:
		return labels[0]
	default:
		return labels[1]
	}
}

// Match is the reversi session of one channel.
type Match struct {
	session

	players   [2]PlayerID // seat 0 plays black
	bot       *reversi.Opponent
	botSeat   int
	botGen    int         // bumped for every scheduled bot turn
	stopBot   func() bool // cancels the pending bot turn
	selection *janken.Round
	board     reversi.Board
	turn      int
	overrides *OverrideLedger
	lastMove  *reversi.Coord
	moves     int
}

func newMatch(p SessionParams) *Match {
	m := &Match{
		session: newSession(GameReversi, p),
		botSeat: -1,
		board:   reversi.NewBoard(),
	}
	m.stage = StageAwaitingOpponent
	m.deadline = deadlineAfter(p.Now, p.Config.AwaitTimeout)
	return m
}

// Players returns the seats; index 0 plays black. Empty before play starts.
func (m *Match) Players() [2]PlayerID { return m.players }

// Board returns a copy of the current board.
func (m *Match) Board() reversi.Board { return m.board.Clone() }

// Turn returns the player to move, or empty outside the playing stage.
func (m *Match) Turn() PlayerID {
	if m.stage != StagePlaying {
		return ""
	}
	return m.players[m.turn]
}

// LegalMoves returns the legal moves of the player to move.
func (m *Match) LegalMoves() []reversi.Coord {
	if m.stage != StagePlaying {
		return nil
	}
	return m.board.LegalMoves(colorOf(m.turn))
}

// Overrides returns the override ledger, nil before play starts.
func (m *Match) Overrides() *OverrideLedger { return m.overrides }

func colorOf(seat int) reversi.Disc {
	if seat == 0 {
		return reversi.Black
	}
	return reversi.White
}

func (m *Match) isBot(seat int) bool {
	return m.bot != nil && seat == m.botSeat
}

// Announce greets the channel right after the session is created.
func (m *Match) Announce() {
	m.say(TextPrompt, "Reversi started by %s. Name your opponent with @name, or @%s to play the computer.",
		m.host, m.cfg.BotID)
}

// NameOpponent moves a waiting session on. A human opponent leads to the
// preliminary selection; the automated opponent starts play with random seats.
func (m *Match) NameOpponent(ctx context.Context, requester, opponent PlayerID, now time.Time) error {
	m.now = now
	if m.stage != StageAwaitingOpponent {
		return ErrWrongPhase
	}
	if requester != m.host {
		return ErrNotYourTurn
	}
	if opponent == "" {
		return ErrMalformedInput
	}
	if opponent == requester {
		return reject(ErrSelfChallenge, "You cannot name yourself as the opponent.")
	}

	if opponent == m.cfg.BotID {
		seats := [2]PlayerID{requester, opponent}
		m.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
		m.bot = reversi.NewOpponent(m.rng, m.cfg.Schedule)
		m.say(TextInfo, "%s vs %s: seats are drawn at random.", requester, opponent)
		return m.begin(ctx, seats)
	}

	m.stage = StagePreliminary
	m.selection = janken.NewRound(requester, opponent)
	m.deadline = deadlineAfter(now, m.cfg.PreliminaryTimeout)
	m.say(TextSelection, "%s vs %s: rock-paper-scissors decides who plays black. Send rock, paper or scissors.",
		requester, opponent)
	return nil
}

// SubmitGesture records a preliminary-selection hand.
func (m *Match) SubmitGesture(ctx context.Context, player PlayerID, g janken.Gesture, now time.Time) error {
	m.now = now
	if m.stage != StagePreliminary {
		return ErrWrongPhase
	}

	res, err := m.selection.Submit(player, g)
	switch {
	case errors.Is(err, janken.ErrNotParticipant):
		return fmt.Errorf("%w: %w", ErrNotYourTurn, err)
	case errors.Is(err, janken.ErrAlreadySubmitted):
		return reject(ErrWrongPhase, "You already chose this round.")
	case err != nil:
		return fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	switch res.Outcome {
	case janken.Pending:
		m.say(TextSelection, "%s has chosen.", player)
	case janken.Tie:
		m.deadline = deadlineAfter(now, m.cfg.PreliminaryTimeout)
		m.say(TextSelection, "Both chose %s. It's a tie! Round %d: choose again.", g, m.selection.Number())
	case janken.Decided:
		m.say(TextSelection, "%s (%s) beats %s (%s).",
			res.Winner, res.Hands[res.Winner], res.Loser, res.Hands[res.Loser])
		return m.begin(ctx, [2]PlayerID{res.Winner, res.Loser})
	}
	return nil
}

// begin seats the players and opens the playing stage.
func (m *Match) begin(ctx context.Context, seats [2]PlayerID) error {
	m.players = seats
	m.botSeat = -1
	for i, p := range seats {
		if m.bot != nil && p == m.cfg.BotID {
			m.botSeat = i
		}
	}
	m.board = reversi.NewBoard()
	m.turn = 0
	m.overrides = NewOverrideLedger(m.cfg.OverrideBudget, m.bot != nil)
	m.stage = StagePlaying
	m.startedAt = m.now
	m.deadline = time.Time{}
	m.stats.GameStarted(m.bot != nil)

	m.logger.Info("game started", "black", seats[0], "white", seats[1], "vs_bot", m.bot != nil)
	m.say(TextInfo, "%s plays black %s and moves first. %s plays white %s.",
		seats[0], reversi.Black.Symbol(), seats[1], reversi.White.Symbol())
	m.publishBoard()
	m.prompt()
	return m.runBot(ctx)
}

// SubmitMove handles coordinate text from a player. Targeting an opposing
// disc spends one override from the player's budget.
func (m *Match) SubmitMove(ctx context.Context, player PlayerID, text string, now time.Time) error {
	m.now = now
	if m.stage != StagePlaying {
		return ErrWrongPhase
	}
	if player != m.players[m.turn] || m.isBot(m.turn) {
		return ErrNotYourTurn
	}

	c, err := reversi.ParseCoord(text)
	switch {
	case errors.Is(err, reversi.ErrOutOfRange):
		return reject(ErrIllegalMove, "%s is off the board. Columns run A-F and rows 1-6.",
			strings.ToUpper(strings.TrimSpace(text)))
	case err != nil:
		return fmt.Errorf("%w: %q", ErrMalformedInput, text)
	}

	color := colorOf(m.turn)
	switch m.board.At(c) {
	case color:
		return reject(ErrIllegalMove, "%s already holds your disc.", c)
	case color.Opponent():
		if err := m.overrides.Spend(player); err != nil {
			return reject(ErrOverrideBudgetExceeded, "No overrides left (%d/%d used).",
				m.overrides.Used(player), m.overrides.Budget())
		}
		mv, ok := m.board.Apply(c, color)
		if !ok {
			return fmt.Errorf("%w: override at %s refused by board", ErrInternal, c)
		}
		m.stats.OverrideUsed("human")
		m.say(TextOverride, "%s overrode %s! %s", player, c, m.budgetLine(player))
		m.afterMove(mv)
	default:
		mv, ok := m.board.Apply(c, color)
		if !ok {
			return reject(ErrIllegalMove, "You can't place at %s. It is not a legal move.", c)
		}
		m.afterMove(mv)
	}

	return m.runBot(ctx)
}

func (m *Match) budgetLine(p PlayerID) string {
	if m.overrides.Shared() {
		return fmt.Sprintf("Shared overrides used: %d/%d.", m.overrides.Used(p), m.overrides.Budget())
	}
	return fmt.Sprintf("Overrides left: %d.", m.overrides.Remaining(p))
}

// afterMove hands the turn over and settles skips or the end of the game.
func (m *Match) afterMove(mv reversi.Move) {
	at := mv.At
	m.lastMove = &at
	m.moves++
	kind := "place"
	if mv.Override {
		kind = "override"
	}
	m.stats.MoveApplied(kind)
	m.logger.Debug("move applied", "at", mv.At, "color", mv.Color, "flipped", len(mv.Flipped), "override", mv.Override)

	m.turn = 1 - m.turn
	m.settle()
}

// settle makes sure the player to move has a legal move: otherwise the turn
// is skipped, or the game ends when neither colour can move.
func (m *Match) settle() {
	var skipped PlayerID
	over := false
	if !m.board.HasLegalMove(colorOf(m.turn)) {
		if m.board.HasLegalMove(colorOf(1 - m.turn)) {
			skipped = m.players[m.turn]
			m.turn = 1 - m.turn
		} else {
			over = true
		}
	}

	m.publishBoard()
	if over {
		m.finish(EndReasonCompleted, "")
		return
	}
	if skipped != "" {
		m.say(TextSkip, "%s has no legal moves and is skipped.", skipped)
	}
	m.prompt()
}

func (m *Match) prompt() {
	if m.isBot(m.turn) {
		return
	}
	color := colorOf(m.turn)
	m.say(TextPrompt, "%s's turn (%s %s). Send a coordinate such as 'D3'.",
		m.players[m.turn], color, color.Symbol())
}

func (m *Match) publishBoard() {
	var last *reversi.Coord
	if m.lastMove != nil {
		c := *m.lastMove
		last = &c
	}
	black, white := m.board.Tally()
	m.out.Publish(BoardEvent{
		Channel:    m.channel,
		Board:      m.board.Clone(),
		Black:      m.players[0],
		White:      m.players[1],
		Turn:       m.players[m.turn],
		Color:      colorOf(m.turn),
		Legal:      m.board.LegalMoves(colorOf(m.turn)),
		LastMove:   last,
		BlackCount: black,
		WhiteCount: white,
	})
}

// runBot plays the automated opponent's consecutive turns. With a think
// delay the next turn is scheduled instead and played by ResumeBot, so the
// coordinator stays free for other channels meanwhile.
func (m *Match) runBot(ctx context.Context) error {
	for m.stage == StagePlaying && m.isBot(m.turn) {
		if err := m.interrupted(ctx); err != nil {
			return err
		}
		if m.cfg.ThinkDelay > 0 && m.after != nil {
			m.botGen++
			m.stopBot = m.after(m.cfg.ThinkDelay, botTurnMsg{channel: m.channel, match: m.id, gen: m.botGen})
			return nil
		}
		if err := m.botTurn(); err != nil {
			return err
		}
	}
	return nil
}

// ResumeBot plays the bot turn scheduled as gen. Stale wake-ups, the ones
// arriving after the game moved on or ended, are dropped.
func (m *Match) ResumeBot(ctx context.Context, gen int, now time.Time) error {
	if gen != m.botGen || m.stage != StagePlaying || !m.isBot(m.turn) {
		return nil
	}
	m.now = now
	m.stopBot = nil
	if err := m.interrupted(ctx); err != nil {
		return err
	}
	if err := m.botTurn(); err != nil {
		return err
	}
	return m.runBot(ctx)
}

func (m *Match) interrupted(ctx context.Context) error {
	if err := m.ctx.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

func (m *Match) botTurn() error {
	color := colorOf(m.turn)
	botID := m.players[m.turn]
	canOverride := !m.cfg.BotOverrideCapped || m.overrides.CanSpend(botID)
	d := m.bot.Decide(&m.board, color, canOverride)
	m.logger.Debug("bot decided", "kind", d.Kind, "at", d.At, "turn", d.Turn, "p", d.Probability)

	switch d.Kind {
	case reversi.DecisionOverride:
		mv, ok := m.board.Apply(d.At, color)
		if !ok {
			return fmt.Errorf("%w: bot override at %s refused by board", ErrInternal, d.At)
		}
		m.overrides.Charge(botID)
		m.stats.OverrideUsed("bot")
		m.say(TextOverride, "%s overrode %s! %s", botID, d.At, m.budgetLine(botID))
		m.afterMove(mv)
	case reversi.DecisionPlace:
		mv, ok := m.board.Apply(d.At, color)
		if !ok {
			return fmt.Errorf("%w: bot move %s refused by board", ErrInternal, d.At)
		}
		m.afterMove(mv)
	default:
		m.settle()
	}
	return nil
}

// QueryBudget replies to requester with their override counter.
func (m *Match) QueryBudget(requester PlayerID) error {
	if m.overrides == nil {
		return reject(ErrWrongPhase, "Overrides are counted once the game starts.")
	}
	if requester != m.players[0] && requester != m.players[1] {
		return ErrNotYourTurn
	}
	m.tell(requester, TextBudget, "Overrides used: %d/%d (%d left).",
		m.overrides.Used(requester), m.overrides.Budget(), m.overrides.Remaining(requester))
	return nil
}

// Abort discards the session at the request of any player in the channel.
func (m *Match) Abort(requester PlayerID, now time.Time) {
	m.now = now
	m.cancel()
	m.finish(EndReasonAborted, fmt.Sprintf("%s ended the game.", requester))
}

// Expire resolves a stage whose deadline has passed. It reports whether
// anything happened.
func (m *Match) Expire(ctx context.Context, now time.Time) (bool, error) {
	if m.deadline.IsZero() || now.Before(m.deadline) {
		return false, nil
	}
	m.now = now

	switch m.stage {
	case StageAwaitingOpponent:
		m.finish(EndReasonTimeout, "No opponent was named in time. The game was cancelled.")
		return true, nil
	case StagePreliminary:
		res, ok := m.selection.Forfeit()
		if !ok {
			m.finish(EndReasonTimeout, "Nobody chose in time. The game was cancelled.")
			return true, nil
		}
		m.say(TextSelection, "%s did not choose in time.", res.Loser)
		return true, m.begin(ctx, [2]PlayerID{res.Winner, res.Loser})
	}
	return false, nil
}

// finish tallies the board, publishes the result and marks the session finished.
func (m *Match) finish(reason EndReason, text string) {
	if m.stopBot != nil {
		m.stopBot()
		m.stopBot = nil
	}
	m.botGen++

	black, white := m.board.Tally()
	res := m.outcome(reason)
	res.Black = m.players[0]
	res.White = m.players[1]
	res.BlackCount = black
	res.WhiteCount = white
	res.Moves = m.moves
	if m.overrides != nil {
		res.Overrides = m.overrides.Total()
	}

	if reason == EndReasonCompleted {
		switch {
		case black > white:
			res.Winner = m.players[0]
		case white > black:
			res.Winner = m.players[1]
		default:
			res.Draw = true
		}
		m.out.Publish(ResultEvent{
			Channel:    m.channel,
			MatchID:    m.id,
			Game:       m.game,
			Black:      res.Black,
			White:      res.White,
			BlackCount: black,
			WhiteCount: white,
			Winner:     res.Winner,
			Draw:       res.Draw,
		})
	}

	m.logger.Debug("final tally", "black", black, "white", white)
	m.end(res, text)
}
