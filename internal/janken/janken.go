// Package janken decides who moves first with rock-paper-scissors rounds
// between two players. Ties restart the round.
package janken

import (
	"errors"
	"strings"

	"github.com/vovakirdan/reversi-bot/internal/core"
)

var (
	ErrUnknownGesture   = errors.New("janken: unknown gesture")
	ErrNotParticipant   = errors.New("janken: player is not in this round")
	ErrAlreadySubmitted = errors.New("janken: gesture already submitted this round")
)

// Gesture is one of the three hand shapes.
type Gesture int

const (
	None Gesture = iota
	Rock
	Paper
	Scissors
)

func (g Gesture) String() string {
	switch g {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return "none"
	}
}

// Beats reports whether g wins against other.
func (g Gesture) Beats(other Gesture) bool {
	switch g {
	case Rock:
		return other == Scissors
	case Scissors:
		return other == Paper
	case Paper:
		return other == Rock
	}
	return false
}

var gestureNames = map[string]Gesture{
	"rock": Rock, "r": Rock, "グー": Rock, "ぐー": Rock,
	"paper": Paper, "p": Paper, "パー": Paper, "ぱー": Paper,
	"scissors": Scissors, "s": Scissors, "チョキ": Scissors, "ちょき": Scissors,
}

// ParseGesture accepts English names, their initials and the Japanese names.
func ParseGesture(text string) (Gesture, error) {
	g, ok := gestureNames[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return None, ErrUnknownGesture
	}
	return g, nil
}

// Outcome classifies a Submit result.
type Outcome int

const (
	Pending Outcome = iota // waiting for the other hand
	Tie                    // both hands equal, a new round opened
	Decided                // a winner exists
)

// Result is returned after every accepted submission.
type Result struct {
	Outcome Outcome
	Winner  core.PlayerID
	Loser   core.PlayerID
	Hands   map[core.PlayerID]Gesture // hands of the round that just closed
	Round   int                       // round the submission belonged to
}

// Round tracks one preliminary selection between two players.
type Round struct {
	players [2]core.PlayerID
	hands   map[core.PlayerID]Gesture
	number  int
	done    bool
}

// NewRound opens round 1 between a and b.
func NewRound(a, b core.PlayerID) *Round {
	return &Round{
		players: [2]core.PlayerID{a, b},
		hands:   make(map[core.PlayerID]Gesture, 2),
		number:  1,
	}
}

// Players returns both participants in the order given to NewRound.
func (r *Round) Players() [2]core.PlayerID {
	return r.players
}

// Number returns the current round number, starting at 1.
func (r *Round) Number() int {
	return r.number
}

// Waiting returns participants who have not submitted in the current round.
func (r *Round) Waiting() []core.PlayerID {
	var out []core.PlayerID
	for _, p := range r.players {
		if _, ok := r.hands[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Round) isParticipant(p core.PlayerID) bool {
	return p == r.players[0] || p == r.players[1]
}

// Submit records a gesture. Once both hands are in the round resolves:
// a tie clears the hands and opens the next round.
func (r *Round) Submit(p core.PlayerID, g Gesture) (Result, error) {
	if !r.isParticipant(p) || r.done {
		return Result{}, ErrNotParticipant
	}
	if g == None {
		return Result{}, ErrUnknownGesture
	}
	if _, ok := r.hands[p]; ok {
		return Result{}, ErrAlreadySubmitted
	}

	r.hands[p] = g
	res := Result{Outcome: Pending, Round: r.number}
	if len(r.hands) < 2 {
		return res, nil
	}

	res.Hands = r.hands
	a, b := r.players[0], r.players[1]
	ga, gb := r.hands[a], r.hands[b]
	switch {
	case ga == gb:
		res.Outcome = Tie
		r.hands = make(map[core.PlayerID]Gesture, 2)
		r.number++
	case ga.Beats(gb):
		res.Outcome, res.Winner, res.Loser = Decided, a, b
		r.done = true
	default:
		res.Outcome, res.Winner, res.Loser = Decided, b, a
		r.done = true
	}
	return res, nil
}

// Forfeit resolves a round that timed out. If exactly one player submitted,
// that player wins. Otherwise there is no winner.
func (r *Round) Forfeit() (Result, bool) {
	res := Result{Round: r.number, Hands: r.hands}
	if len(r.hands) != 1 {
		return res, false
	}
	for _, p := range r.players {
		if _, ok := r.hands[p]; ok {
			res.Winner = p
		} else {
			res.Loser = p
		}
	}
	res.Outcome = Decided
	r.done = true
	return res, true
}

// Showdown resolves a group round. It returns the winning gesture when the
// hands show exactly two shapes; one shape or all three is a tie.
func Showdown(hands map[core.PlayerID]Gesture) (Gesture, bool) {
	shapes := make(map[Gesture]bool, 3)
	for _, g := range hands {
		shapes[g] = true
	}
	if len(shapes) != 2 {
		return None, false
	}
	for g := range shapes {
		for other := range shapes {
			if g != other && g.Beats(other) {
				return g, true
			}
		}
	}
	return None, false
}
