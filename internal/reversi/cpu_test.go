package reversi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed draws. Exhausted float draws return 0.99
// (never override) and exhausted int draws return 0.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRand) Shuffle(int, func(i, j int)) {}

func TestScheduleProbability(t *testing.T) {
	s := DefaultSchedule()
	tests := []struct {
		turn int
		want float64
	}{
		{1, 0.10}, {6, 0.10}, {7, 0.15}, {12, 0.15}, {13, 0.20}, {100, 0.20},
	}
	for _, tc := range tests {
		require.InDelta(t, tc.want, s.Probability(tc.turn), 1e-9, "turn %d", tc.turn)
	}

	require.Zero(t, Schedule(nil).Probability(1))
	bounded := Schedule{{Through: 2, Probability: 0.5}}
	require.InDelta(t, 0.5, bounded.Probability(10), 1e-9, "last tier extends past its bound")
}

func TestOpponentDecide(t *testing.T) {
	t.Run("places a random legal move when the roll misses", func(t *testing.T) {
		rng := &scriptedRand{floats: []float64{0.99}, ints: []int{2}}
		o := NewOpponent(rng, nil)
		b := NewBoard()

		d := o.Decide(&b, Black, true)
		require.Equal(t, DecisionPlace, d.Kind)
		require.Equal(t, Coord{4, 3}, d.At)
		require.Equal(t, 1, d.Turn)
		require.InDelta(t, 0.10, d.Probability, 1e-9)
	})

	t.Run("overrides when the roll hits", func(t *testing.T) {
		rng := &scriptedRand{floats: []float64{0.05}}
		o := NewOpponent(rng, nil)
		b := NewBoard()

		d := o.Decide(&b, Black, true)
		require.Equal(t, DecisionOverride, d.Kind)
		require.Equal(t, Coord{2, 2}, d.At, "ties resolve to the first cell in row-major order")
		require.Equal(t, 1, d.Gain)
	})

	t.Run("skips the override branch when not allowed", func(t *testing.T) {
		rng := &scriptedRand{floats: []float64{0.05}, ints: []int{0}}
		o := NewOpponent(rng, nil)
		b := NewBoard()

		d := o.Decide(&b, Black, false)
		require.Equal(t, DecisionPlace, d.Kind)
		require.Equal(t, Coord{2, 1}, d.At)
	})

	t.Run("passes without legal moves", func(t *testing.T) {
		var b Board
		for c := range Coords() {
			b.SetCell(c.X, c.Y, Black)
		}
		o := NewOpponent(&scriptedRand{}, nil)

		d := o.Decide(&b, Black, true)
		require.Equal(t, DecisionPass, d.Kind)
	})

	t.Run("probability escalates with turns played", func(t *testing.T) {
		o := NewOpponent(&scriptedRand{}, nil)
		b := NewBoard()

		var d Decision
		for range 7 {
			d = o.Decide(&b, Black, true)
		}
		require.Equal(t, 7, o.TurnsPlayed())
		require.InDelta(t, 0.15, d.Probability, 1e-9)

		for range 6 {
			d = o.Decide(&b, Black, true)
		}
		require.InDelta(t, 0.20, d.Probability, 1e-9)
	})
}

func TestBestOverride(t *testing.T) {
	t.Run("prefers the cell with the largest gain", func(t *testing.T) {
		var b Board
		b.SetCell(0, 0, Black)
		b.SetCell(1, 0, White)
		b.SetCell(2, 0, White)

		at, gain, ok := BestOverride(&b, Black)
		require.True(t, ok)
		require.Equal(t, Coord{2, 0}, at)
		require.Equal(t, 2, gain)
	})

	t.Run("no opposing discs", func(t *testing.T) {
		var b Board
		b.SetCell(0, 0, Black)

		_, _, ok := BestOverride(&b, Black)
		require.False(t, ok)
	})
}
