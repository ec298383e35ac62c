package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/reversi-bot/internal/games/hoi"
	"github.com/vovakirdan/reversi-bot/internal/janken"
	"github.com/vovakirdan/reversi-bot/internal/registry"
)

func init() {
	Games.Register(registry.GameInfo{
		ID:      GameTournament,
		Title:   "Janken tournament",
		Aliases: []string{"h", "hoi"},
		Summary: "elimination bracket of rock-paper-scissors and look-that-way bouts",
	}, func(p SessionParams) (Session, error) {
		return newTournament(p), nil
	})
}

// boutStep is the position inside one bout.
type boutStep int

const (
	stepJanken boutStep = iota // both players throw a hand
	stepPoint                  // the janken winner points a direction
	stepLook                   // the janken loser turns their face
)

// Tournament is an elimination bracket. Each bout is a janken round whose
// winner points a direction while the loser turns their face: a match
// sends the pointer on, a miss replays the bout from the janken.
type Tournament struct {
	session

	entrants []PlayerID
	bracket  *hoi.Bracket
	round    *janken.Round
	step     boutStep
	pointer  PlayerID
	looker   PlayerID
	finger   hoi.Direction
	bouts    int
}

func newTournament(p SessionParams) *Tournament {
	t := &Tournament{
		session:  newSession(GameTournament, p),
		entrants: []PlayerID{p.Host},
	}
	t.stage = StageEntry
	t.deadline = deadlineAfter(p.Now, p.Config.EntryTimeout)
	return t
}

// Entrants returns the players who entered.
func (t *Tournament) Entrants() []PlayerID { return slices.Clone(t.entrants) }

// Pair returns the players of the current bout.
func (t *Tournament) Pair() [2]PlayerID {
	if t.round == nil {
		return [2]PlayerID{}
	}
	return t.round.Players()
}

// Announce greets the channel right after the session is created.
func (t *Tournament) Announce() {
	when := fmt.Sprintf("when %s sends !go", t.host)
	if !t.deadline.IsZero() {
		when = fmt.Sprintf("in %s or %s", t.deadline.Sub(t.now).Round(time.Second), when)
	}
	t.say(TextPrompt, "Janken tournament opened by %s. Send !join to enter. The bracket is drawn %s.", t.host, when)
}

// Join enters a player while entries are open.
func (t *Tournament) Join(_ context.Context, player PlayerID, now time.Time) error {
	t.now = now
	if t.stage != StageEntry {
		return reject(ErrWrongPhase, "The tournament has already started.")
	}
	if slices.Contains(t.entrants, player) {
		return reject(ErrAlreadyInProgress, "You have already entered.")
	}
	t.entrants = append(t.entrants, player)
	t.say(TextInfo, "%s entered (%d players).", player, len(t.entrants))
	return nil
}

// Begin draws the bracket early. Only the host may do so.
func (t *Tournament) Begin(_ context.Context, requester PlayerID, now time.Time) error {
	t.now = now
	if t.stage != StageEntry {
		return reject(ErrWrongPhase, "The tournament has already started.")
	}
	if requester != t.host {
		return reject(ErrNotYourTurn, "Only %s can start the tournament.", t.host)
	}
	if len(t.entrants) < 2 {
		return reject(ErrWrongPhase, "At least two players are needed.")
	}
	t.start()
	return nil
}

func (t *Tournament) start() {
	t.bracket = hoi.NewBracket(t.rng, t.entrants)
	t.stage = StagePlaying
	t.startedAt = t.now
	t.stats.GameStarted(false)

	t.logger.Info("tournament started", "players", len(t.entrants))
	t.say(TextInfo, "The bracket: %s.", joinPlayers(t.bracket.Waiting()))
	t.nextBout()
}

// nextBout pairs the front of the bracket, or crowns the champion.
func (t *Tournament) nextBout() {
	a, b, ok := t.bracket.Next()
	if !ok {
		champ, _ := t.bracket.Champion()
		t.finish(EndReasonCompleted, champ, fmt.Sprintf("%s wins the tournament!", champ))
		return
	}
	t.openJanken(a, b)
}

func (t *Tournament) openJanken(a, b PlayerID) {
	t.round = janken.NewRound(a, b)
	t.step = stepJanken
	t.pointer, t.looker, t.finger = "", "", hoi.NoDirection
	t.deadline = deadlineAfter(t.now, t.cfg.PreliminaryTimeout)
	t.say(TextSelection, "%s vs %s: rock, paper, scissors!", a, b)
}

// SubmitGesture records a hand of the current bout.
func (t *Tournament) SubmitGesture(_ context.Context, player PlayerID, g janken.Gesture, now time.Time) error {
	t.now = now
	if t.stage != StagePlaying || t.step != stepJanken {
		return ErrWrongPhase
	}

	res, err := t.round.Submit(player, g)
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
		t.say(TextSelection, "%s has chosen.", player)
	case janken.Tie:
		t.deadline = deadlineAfter(now, t.cfg.PreliminaryTimeout)
		t.say(TextSelection, "Both chose %s. It's a tie, go again!", g)
	case janken.Decided:
		t.pointer, t.looker = res.Winner, res.Loser
		t.step = stepPoint
		t.deadline = deadlineAfter(now, t.cfg.PreliminaryTimeout)
		t.say(TextSelection, "%s (%s) beats %s (%s).",
			res.Winner, res.Hands[res.Winner], res.Loser, res.Hands[res.Loser])
		t.say(TextPrompt, "%s, point a direction: up, down, left or right.", t.pointer)
	}
	return nil
}

// SubmitMove takes the pointed direction, then the face direction. Other
// text is treated as chat.
func (t *Tournament) SubmitMove(_ context.Context, player PlayerID, text string, now time.Time) error {
	t.now = now
	if t.stage != StagePlaying || t.step == stepJanken {
		return ErrWrongPhase
	}

	var want PlayerID
	if t.step == stepPoint {
		want = t.pointer
	} else {
		want = t.looker
	}
	if player != want {
		return ErrNotYourTurn
	}
	d, err := hoi.ParseDirection(text)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedInput, text)
	}

	if t.step == stepPoint {
		t.finger = d
		t.step = stepLook
		t.deadline = deadlineAfter(now, t.cfg.PreliminaryTimeout)
		t.tell(player, TextInfo, "You point %s.", d)
		t.say(TextPrompt, "%s, look away: up, down, left or right.", t.looker)
		return nil
	}

	if d == t.finger {
		t.say(TextSelection, "%s points %s and %s looks %s. %s wins the bout!", t.pointer, t.finger, t.looker, d, t.pointer)
		t.advance(t.pointer)
		return nil
	}
	t.say(TextSelection, "%s points %s but %s looks %s. Missed, the bout starts over!", t.pointer, t.finger, t.looker, d)
	pair := t.round.Players()
	t.openJanken(pair[0], pair[1])
	return nil
}

func (t *Tournament) advance(winner PlayerID) {
	t.bouts++
	t.stats.MoveApplied("bout")
	t.bracket.Advance(winner)
	t.nextBout()
}

// Abort discards the session at the request of any player in the channel.
func (t *Tournament) Abort(requester PlayerID, now time.Time) {
	t.now = now
	t.finish(EndReasonAborted, "", fmt.Sprintf("%s ended the tournament.", requester))
}

// Expire draws the bracket when entries close. A bout step left
// unanswered goes to the other player of the bout.
func (t *Tournament) Expire(_ context.Context, now time.Time) (bool, error) {
	if t.deadline.IsZero() || now.Before(t.deadline) {
		return false, nil
	}
	t.now = now

	if t.stage == StageEntry {
		if len(t.entrants) < 2 {
			t.finish(EndReasonTimeout, "", "Not enough players entered. The tournament was cancelled.")
			return true, nil
		}
		t.start()
		return true, nil
	}
	if t.stage != StagePlaying {
		return false, nil
	}

	switch t.step {
	case stepJanken:
		res, ok := t.round.Forfeit()
		if !ok {
			pair := t.round.Players()
			t.finish(EndReasonTimeout, "", fmt.Sprintf("Neither %s nor %s chose in time. The tournament was cancelled.",
				pair[0], pair[1]))
			return true, nil
		}
		t.say(TextSelection, "%s did not choose in time. %s goes through.", res.Loser, res.Winner)
		t.advance(res.Winner)
	case stepPoint:
		t.say(TextSelection, "%s did not point in time. %s goes through.", t.pointer, t.looker)
		t.advance(t.looker)
	case stepLook:
		t.say(TextSelection, "%s did not look away in time. %s goes through.", t.looker, t.pointer)
		t.advance(t.pointer)
	}
	return true, nil
}

func (t *Tournament) finish(reason EndReason, champion PlayerID, text string) {
	res := t.outcome(reason)
	res.Winner = champion
	res.Moves = t.bouts
	t.end(res, text)
}
