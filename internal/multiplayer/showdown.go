package multiplayer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/reversi-bot/internal/janken"
	"github.com/vovakirdan/reversi-bot/internal/registry"
)

func init() {
	Games.Register(registry.GameInfo{
		ID:      GameShowdown,
		Title:   "Group janken",
		Aliases: []string{"j", "rps"},
		Summary: "everyone in the channel throws rock, paper or scissors at once",
	}, func(p SessionParams) (Session, error) {
		return newShowdown(p), nil
	})
}

// Showdown is a group janken round open to the whole channel. Hands are
// collected for a short window after the first one; a tie opens a new round.
type Showdown struct {
	session

	hands map[PlayerID]janken.Gesture
	order []PlayerID
	round int
}

func newShowdown(p SessionParams) *Showdown {
	s := &Showdown{
		session: newSession(GameShowdown, p),
		hands:   make(map[PlayerID]janken.Gesture),
		round:   1,
	}
	s.stage = StagePlaying
	s.startedAt = p.Now
	s.deadline = deadlineAfter(p.Now, p.Config.EntryTimeout)
	return s
}

// Round returns the current round number, starting at 1.
func (s *Showdown) Round() int { return s.round }

// Announce greets the channel right after the session is created.
func (s *Showdown) Announce() {
	s.stats.GameStarted(false)
	s.say(TextSelection, "Group janken called by %s! Everyone: rock, paper or scissors. Hands close %s after the first one.",
		s.host, s.cfg.ShowdownWindow)
}

// SubmitGesture records a hand. The first hand of a round starts the
// collection window.
func (s *Showdown) SubmitGesture(_ context.Context, player PlayerID, g janken.Gesture, now time.Time) error {
	s.now = now
	if s.stage != StagePlaying {
		return ErrWrongPhase
	}
	if g == janken.None {
		return ErrMalformedInput
	}
	if _, ok := s.hands[player]; ok {
		return reject(ErrWrongPhase, "You already chose this round.")
	}

	if len(s.hands) == 0 {
		s.deadline = now.Add(s.cfg.ShowdownWindow)
	}
	s.hands[player] = g
	s.order = append(s.order, player)
	s.say(TextSelection, "%s has chosen.", player)
	return nil
}

// SubmitMove ignores text; the round only takes gestures.
func (s *Showdown) SubmitMove(context.Context, PlayerID, string, time.Time) error {
	return ErrWrongPhase
}

// Begin closes the round early. Only the caller of the round may do so.
func (s *Showdown) Begin(_ context.Context, requester PlayerID, now time.Time) error {
	s.now = now
	if requester != s.host {
		return reject(ErrNotYourTurn, "Only %s can close the round.", s.host)
	}
	s.resolve()
	return nil
}

// Expire closes the round once the window has passed.
func (s *Showdown) Expire(_ context.Context, now time.Time) (bool, error) {
	if s.deadline.IsZero() || now.Before(s.deadline) {
		return false, nil
	}
	s.now = now
	s.resolve()
	return true, nil
}

func (s *Showdown) resolve() {
	switch len(s.hands) {
	case 0:
		s.finish(EndReasonTimeout, nil, "Nobody threw a hand. The round was cancelled.")
		return
	case 1:
		s.finish(EndReasonTimeout, nil, fmt.Sprintf("%s found no opponent.", s.order[0]))
		return
	}

	shown := make([]string, len(s.order))
	for i, p := range s.order {
		shown[i] = fmt.Sprintf("%s: %s", p, s.hands[p])
	}
	s.say(TextSelection, "Shoot! %s", strings.Join(shown, ", "))
	s.stats.MoveApplied("showdown")

	winning, ok := janken.Showdown(s.hands)
	if !ok {
		s.round++
		s.hands = make(map[PlayerID]janken.Gesture)
		s.order = nil
		s.deadline = deadlineAfter(s.now, s.cfg.EntryTimeout)
		s.say(TextSelection, "It's a tie! Round %d: choose again.", s.round)
		return
	}

	var winners []PlayerID
	for _, p := range s.order {
		if s.hands[p] == winning {
			winners = append(winners, p)
		}
	}
	verb := "win"
	if len(winners) == 1 {
		verb = "wins"
	}
	s.finish(EndReasonCompleted, winners, fmt.Sprintf("%s %s with %s!", joinPlayers(winners), verb, winning))
}

// Abort discards the session at the request of any player in the channel.
func (s *Showdown) Abort(requester PlayerID, now time.Time) {
	s.now = now
	s.finish(EndReasonAborted, nil, fmt.Sprintf("%s ended the round.", requester))
}

func (s *Showdown) finish(reason EndReason, winners []PlayerID, text string) {
	res := s.outcome(reason)
	res.Winners = winners
	if len(winners) == 1 {
		res.Winner = winners[0]
	}
	res.Moves = s.round
	s.end(res, text)
}
