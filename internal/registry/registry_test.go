package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type factory func() string

func TestRegistry(t *testing.T) {
	r := New[factory]()
	r.Register(GameInfo{ID: "reversi", Title: "Reversi", Aliases: []string{"osero", "!othello"}},
		func() string { return "reversi" })
	r.Register(GameInfo{ID: "Connect4", Title: "Connect Four", Aliases: []string{"con"}},
		func() string { return "connect4" })

	t.Run("lookup by id and alias", func(t *testing.T) {
		for _, name := range []string{"reversi", "osero", "!OSERO", "othello", " reversi "} {
			info, f, ok := r.Lookup(name)
			require.True(t, ok, name)
			require.Equal(t, "reversi", info.ID)
			require.Equal(t, "reversi", f())
		}

		info, f, ok := r.Lookup("!con")
		require.True(t, ok)
		require.Equal(t, "connect4", info.ID, "ids are stored lower case")
		require.Equal(t, "connect4", f())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, f, ok := r.Lookup("chess")
		require.False(t, ok)
		require.Nil(t, f)
		require.False(t, r.Exists("chess"))
		require.True(t, r.Exists("con"))
	})

	t.Run("list is sorted by id", func(t *testing.T) {
		list := r.List()
		require.Len(t, list, 2)
		require.Equal(t, "connect4", list[0].ID)
		require.Equal(t, "reversi", list[1].ID)
		require.Equal(t, []string{"osero", "!othello"}, list[1].Aliases)
	})

	t.Run("duplicates panic", func(t *testing.T) {
		noop := func() string { return "" }
		require.Panics(t, func() { r.Register(GameInfo{ID: "reversi"}, noop) })
		require.Panics(t, func() { r.Register(GameInfo{ID: "osero"}, noop) })
		require.Panics(t, func() { r.Register(GameInfo{ID: "chess", Aliases: []string{"con"}}, noop) })
		require.Panics(t, func() { r.Register(GameInfo{ID: "chess", Aliases: []string{"reversi"}}, noop) })
		require.Panics(t, func() { r.Register(GameInfo{ID: " "}, noop) })
		require.False(t, r.Exists("chess"), "a rejected registration leaves no trace")
	})
}
