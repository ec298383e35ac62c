package hitblow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/reversi-bot/internal/core"
)

func code(s string) Code {
	c, err := ParseGuess(s)
	if err != nil {
		panic(err)
	}
	return c
}

func TestCompare(t *testing.T) {
	tests := []struct {
		secret, guess string
		want          Score
	}{
		{"rygb", "rygb", Score{Hits: 4}},
		{"rygb", "bgyr", Score{Blows: 4}},
		{"rygb", "rpwg", Score{Hits: 1, Blows: 1}},
		{"rygb", "pwpw", Score{}},
		{"rryb", "rrrr", Score{Hits: 2}},
		{"rryb", "yrrw", Score{Hits: 1, Blows: 2}},
		{"rygb", "rrrr", Score{Hits: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.secret+"/"+tt.guess, func(t *testing.T) {
			got := Compare(code(tt.secret), code(tt.guess))
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want.Hits == CodeLength, got.Solved())
		})
	}
}

func TestParseGuess(t *testing.T) {
	c, err := ParseGuess(" RYGB ")
	require.NoError(t, err)
	require.Equal(t, "rygb", c.String())

	for _, text := range []string{"", "ryg", "rygbp", "rygx", "d3", "ｒｙｇｂ"} {
		_, err := ParseGuess(text)
		require.ErrorIs(t, err, ErrBadGuess, text)
	}
}

func TestParseMode(t *testing.T) {
	for text, want := range map[string]Mode{"": ModeRandom, "DUP": ModeDuplicates, "unique": ModeUnique} {
		m, ok := ParseMode(text)
		require.True(t, ok, text)
		require.Equal(t, want, m)
	}
	_, ok := ParseMode("maybe")
	require.False(t, ok)
}

// repeats counts the colours that appear more than once.
func repeats(t *testing.T, c Code) int {
	t.Helper()
	seen := map[Color]int{}
	n := 0
	for _, col := range c {
		seen[col]++
		require.LessOrEqual(t, seen[col], 2, c.String())
		if seen[col] == 2 {
			n++
		}
	}
	return n
}

func TestNewSecret(t *testing.T) {
	t.Run("unique secrets never repeat", func(t *testing.T) {
		rng := core.NewRand(3)
		for range 200 {
			s := NewSecret(rng, ModeUnique)
			require.Zero(t, repeats(t, s), s.String())
			for _, c := range s {
				require.Contains(t, Palette, c)
			}
		}
	})

	t.Run("duplicates repeat at most one colour", func(t *testing.T) {
		rng := core.NewRand(5)
		withRepeat := 0
		for range 200 {
			n := repeats(t, NewSecret(rng, ModeDuplicates))
			require.LessOrEqual(t, n, 1)
			withRepeat += n
		}
		require.Greater(t, withRepeat, 0)
		require.Less(t, withRepeat, 200)
	})
}
