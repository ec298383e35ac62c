// Package hoi implements the pointing game played after rock-paper-scissors
// ("look that way"): the janken winner points a direction and the loser
// turns their face. A match wins the bout, a miss replays it.
package hoi

import (
	"errors"
	"strings"

	"github.com/vovakirdan/reversi-bot/internal/core"
)

// ErrUnknownDirection is returned for text that names no direction.
var ErrUnknownDirection = errors.New("hoi: unknown direction")

// Direction is where a finger points or a face turns.
type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

var directionNames = map[string]Direction{
	"up": Up, "上": Up, "↑": Up,
	"down": Down, "下": Down, "↓": Down,
	"left": Left, "左": Left, "←": Left,
	"right": Right, "右": Right, "→": Right,
}

// ParseDirection accepts English names, arrows and the Japanese names.
// Initials are left out since "r" already means rock.
func ParseDirection(text string) (Direction, error) {
	d, ok := directionNames[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return NoDirection, ErrUnknownDirection
	}
	return d, nil
}

// Bracket is an elimination queue. The two players at the front meet and
// the winner goes to the back, until one player is left.
type Bracket struct {
	queue []core.PlayerID
}

// NewBracket shuffles entrants into a bracket.
func NewBracket(rng core.Rand, entrants []core.PlayerID) *Bracket {
	queue := append([]core.PlayerID(nil), entrants...)
	rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	return &Bracket{queue: queue}
}

// Len returns the number of players still in the bracket, the pair being
// played excluded.
func (b *Bracket) Len() int { return len(b.queue) }

// Waiting returns the queued players in order.
func (b *Bracket) Waiting() []core.PlayerID {
	return append([]core.PlayerID(nil), b.queue...)
}

// Next pops the next pair. It returns false when fewer than two remain.
func (b *Bracket) Next() (core.PlayerID, core.PlayerID, bool) {
	if len(b.queue) < 2 {
		return "", "", false
	}
	a, c := b.queue[0], b.queue[1]
	b.queue = b.queue[2:]
	return a, c, true
}

// Advance queues the winner of a bout.
func (b *Bracket) Advance(winner core.PlayerID) {
	b.queue = append(b.queue, winner)
}

// Champion returns the last player standing.
func (b *Bracket) Champion() (core.PlayerID, bool) {
	if len(b.queue) != 1 {
		return "", false
	}
	return b.queue[0], true
}
