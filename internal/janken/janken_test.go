package janken

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/reversi-bot/internal/core"
)

const (
	alice core.PlayerID = "alice"
	bob   core.PlayerID = "bob"
)

func TestBeats(t *testing.T) {
	require.True(t, Rock.Beats(Scissors))
	require.True(t, Scissors.Beats(Paper))
	require.True(t, Paper.Beats(Rock))

	require.False(t, Scissors.Beats(Rock))
	require.False(t, Rock.Beats(Rock))
	require.False(t, None.Beats(Rock))
}

func TestParseGesture(t *testing.T) {
	tests := []struct {
		input string
		want  Gesture
	}{
		{"rock", Rock},
		{" Paper ", Paper},
		{"S", Scissors},
		{"グー", Rock},
		{"チョキ", Scissors},
		{"パー", Paper},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseGesture(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := ParseGesture("lizard")
	require.ErrorIs(t, err, ErrUnknownGesture)
}

func TestRoundSubmit(t *testing.T) {
	t.Run("tie opens a new round without a winner", func(t *testing.T) {
		r := NewRound(alice, bob)

		res, err := r.Submit(alice, Rock)
		require.NoError(t, err)
		require.Equal(t, Pending, res.Outcome)

		res, err = r.Submit(bob, Rock)
		require.NoError(t, err)
		require.Equal(t, Tie, res.Outcome)
		require.Empty(t, res.Winner)
		require.Equal(t, 1, res.Round)
		require.Equal(t, 2, r.Number())
		require.ElementsMatch(t, []core.PlayerID{alice, bob}, r.Waiting(), "hands are cleared")
	})

	t.Run("decides a winner", func(t *testing.T) {
		r := NewRound(alice, bob)

		_, err := r.Submit(bob, Scissors)
		require.NoError(t, err)
		res, err := r.Submit(alice, Rock)
		require.NoError(t, err)

		require.Equal(t, Decided, res.Outcome)
		require.Equal(t, alice, res.Winner)
		require.Equal(t, bob, res.Loser)
		require.Equal(t, Scissors, res.Hands[bob])
	})

	t.Run("second player wins", func(t *testing.T) {
		r := NewRound(alice, bob)

		_, _ = r.Submit(alice, Paper)
		res, err := r.Submit(bob, Scissors)
		require.NoError(t, err)
		require.Equal(t, bob, res.Winner)
	})

	t.Run("rejects outsiders and duplicates", func(t *testing.T) {
		r := NewRound(alice, bob)

		_, err := r.Submit("carol", Rock)
		require.ErrorIs(t, err, ErrNotParticipant)

		_, err = r.Submit(alice, Rock)
		require.NoError(t, err)
		_, err = r.Submit(alice, Paper)
		require.ErrorIs(t, err, ErrAlreadySubmitted)

		_, err = r.Submit(bob, None)
		require.ErrorIs(t, err, ErrUnknownGesture)
	})

	t.Run("closed round rejects further hands", func(t *testing.T) {
		r := NewRound(alice, bob)
		_, _ = r.Submit(alice, Rock)
		_, _ = r.Submit(bob, Scissors)

		_, err := r.Submit(bob, Rock)
		require.ErrorIs(t, err, ErrNotParticipant)
	})
}

func TestRoundForfeit(t *testing.T) {
	t.Run("single hand wins", func(t *testing.T) {
		r := NewRound(alice, bob)
		_, _ = r.Submit(bob, Paper)

		res, ok := r.Forfeit()
		require.True(t, ok)
		require.Equal(t, bob, res.Winner)
		require.Equal(t, alice, res.Loser)
	})

	t.Run("no hands means no winner", func(t *testing.T) {
		r := NewRound(alice, bob)

		_, ok := r.Forfeit()
		require.False(t, ok)
	})
}

func TestShowdown(t *testing.T) {
	tests := []struct {
		name  string
		hands map[core.PlayerID]Gesture
		want  Gesture
		ok    bool
	}{
		{"two shapes", map[core.PlayerID]Gesture{alice: Rock, bob: Scissors, "carol": Rock}, Rock, true},
		{"paper covers rock", map[core.PlayerID]Gesture{alice: Rock, bob: Paper}, Paper, true},
		{"all alike", map[core.PlayerID]Gesture{alice: Paper, bob: Paper, "carol": Paper}, None, false},
		{"all three", map[core.PlayerID]Gesture{alice: Rock, bob: Paper, "carol": Scissors}, None, false},
		{"nobody", nil, None, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Showdown(tt.hands)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
