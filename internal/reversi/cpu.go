package reversi

import "github.com/vovakirdan/reversi-bot/internal/core"

// Tier is one step of the override schedule. Through is the last turn
// (1-based) the tier applies to; zero means every later turn.
type Tier struct {
	Through     int     `yaml:"through" env:"THROUGH"`
	Probability float64 `yaml:"probability" env:"PROBABILITY"`
}

// Schedule maps the opponent's turn number to an override probability.
type Schedule []Tier

// DefaultSchedule escalates from 10% to 15% to 20%.
func DefaultSchedule() Schedule {
	return Schedule{
		{Through: 6, Probability: 0.10},
		{Through: 12, Probability: 0.15},
		{Through: 0, Probability: 0.20},
	}
}

// Probability returns the override chance for the given 1-based turn.
func (s Schedule) Probability(turn int) float64 {
	for _, t := range s {
		if t.Through == 0 || turn <= t.Through {
			return t.Probability
		}
	}
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Probability
}

// DecisionKind is what the automated opponent chose to do.
type DecisionKind int

const (
	DecisionPass DecisionKind = iota
	DecisionPlace
	DecisionOverride
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionPlace:
		return "place"
	case DecisionOverride:
		return "override"
	default:
		return "pass"
	}
}

// Decision is the outcome of one Decide call.
type Decision struct {
	Kind        DecisionKind
	At          Coord
	Gain        int     // own-disc gain of an override, zero otherwise
	Turn        int     // value of the turn counter for this decision
	Probability float64 // override chance that was rolled against
}

// Opponent is the automated player. It is not safe for concurrent use;
// a session drives its opponent from one goroutine.
type Opponent struct {
	schedule    Schedule
	rng         core.Rand
	turnsPlayed int
}

// NewOpponent creates an opponent drawing from rng. A nil schedule uses DefaultSchedule.
func NewOpponent(rng core.Rand, schedule Schedule) *Opponent {
	if len(schedule) == 0 {
		schedule = DefaultSchedule()
	}
	return &Opponent{schedule: schedule, rng: rng}
}

// TurnsPlayed returns how many decisions have been made.
func (o *Opponent) TurnsPlayed() int {
	return o.turnsPlayed
}

// Decide picks the next action for color. When canOverride is false the
// probability roll still happens but the override branch is skipped.
func (o *Opponent) Decide(b *Board, color Disc, canOverride bool) Decision {
	o.turnsPlayed++
	p := o.schedule.Probability(o.turnsPlayed)
	d := Decision{Turn: o.turnsPlayed, Probability: p}

	if o.rng.Float64() < p && canOverride {
		if at, gain, ok := BestOverride(b, color); ok {
			d.Kind = DecisionOverride
			d.At = at
			d.Gain = gain
			return d
		}
	}

	moves := b.LegalMoves(color)
	if len(moves) == 0 {
		d.Kind = DecisionPass
		return d
	}
	d.Kind = DecisionPlace
	d.At = moves[o.rng.Intn(len(moves))]
	return d
}

// BestOverride scans cells held by the opposing colour and returns the one
// whose simulated Apply yields the largest own-disc gain. Ties go to the
// first cell in row-major order. ok is false when no gain is positive.
func BestOverride(b *Board, color Disc) (at Coord, gain int, ok bool) {
	other := color.Opponent()
	before := b.Count(color)
	best := 0

	for c := range Coords() {
		if b.At(c) != other {
			continue
		}
		sim := b.Clone()
		if _, applied := sim.Apply(c, color); !applied {
			continue
		}
		if g := sim.Count(color) - before; g > best {
			best = g
			at = c
		}
	}
	return at, best, best > 0
}
