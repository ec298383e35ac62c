package multiplayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/reversi-bot/internal/games/connect4"
	"github.com/vovakirdan/reversi-bot/internal/janken"
)

const carol PlayerID = "carol"

func isGrid(n Notification) bool {
	_, ok := n.(GridEvent)
	return ok
}

func TestConnectFour(t *testing.T) {
	start := func(t *testing.T, h *harness) *ConnectFour {
		t.Helper()
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: GameConnect4}))
		err := h.handle(JoinGameMsg{Channel: testChannel, Player: alice})
		require.ErrorIs(t, err, ErrSelfChallenge)
		require.NoError(t, h.handle(JoinGameMsg{Channel: testChannel, Player: bob}))

		g := h.session(t).(*ConnectFour)
		require.Equal(t, StagePlaying, g.Stage())
		require.Equal(t, [2]PlayerID{alice, bob}, g.Players())
		return g
	}
	drop := func(t *testing.T, h *harness, p PlayerID, col string) {
		t.Helper()
		require.NoError(t, h.handle(SubmitMoveMsg{Channel: testChannel, Player: p, Text: col}))
	}

	t.Run("four in a column wins", func(t *testing.T) {
		h := newHarness(t, nil)
		saver := &savedResults{}
		h.coord.SetResultSaver(saver)
		start(t, h)

		err := h.handle(JoinGameMsg{Channel: testChannel, Player: carol})
		require.ErrorIs(t, err, ErrAlreadyInProgress)

		for range 3 {
			drop(t, h, alice, "a")
			drop(t, h, bob, "b")
		}
		n, ok := h.out.last(isGrid)
		require.True(t, ok)
		require.Equal(t, alice, n.(GridEvent).Turn)
		require.Equal(t, connect4.Blue, n.(GridEvent).Cells[connect4.Rows-1][1])

		drop(t, h, alice, "A")
		require.Zero(t, h.store.Len())

		n, ok = h.out.last(isResult)
		require.True(t, ok)
		res := n.(ResultEvent)
		require.Equal(t, GameConnect4, res.Game)
		require.Equal(t, alice, res.Winner)
		require.Equal(t, 4, res.BlackCount)
		require.Equal(t, 3, res.WhiteCount)

		h.coord.Stop()
		saved := saver.get()
		require.Len(t, saved, 1)
		require.Equal(t, GameConnect4, saved[0].Game)
		require.Equal(t, "alice", saved[0].Winner)
		require.Equal(t, 7, saved[0].Moves)
	})

	t.Run("turns and full columns", func(t *testing.T) {
		h := newHarness(t, nil)
		start(t, h)

		err := h.handle(SubmitMoveMsg{Channel: testChannel, Player: bob, Text: "a"})
		require.ErrorIs(t, err, ErrNotYourTurn)
		err = h.handle(SubmitMoveMsg{Channel: testChannel, Player: alice, Text: "good luck"})
		require.ErrorIs(t, err, ErrMalformedInput)
		require.Empty(t, h.out.texts(TextRejected), "chat is not rejected")

		for range connect4.Rows / 2 {
			drop(t, h, alice, "a")
			drop(t, h, bob, "a")
		}
		err = h.handle(SubmitMoveMsg{Channel: testChannel, Player: alice, Text: "a"})
		require.ErrorIs(t, err, ErrIllegalMove)
		require.Len(t, h.out.texts(TextRejected), 1)
		require.Equal(t, alice, h.session(t).(*ConnectFour).Turn())
	})

	t.Run("nobody joins", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: "con"}))

		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(3 * time.Minute)}))
		require.Zero(t, h.store.Len())
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, EndReasonTimeout, n.(TerminatedEvent).Reason)
		require.Equal(t, GameConnect4, n.(TerminatedEvent).Game)
	})
}

func TestHitAndBlow(t *testing.T) {
	guess := func(t *testing.T, h *harness, p PlayerID, code string) {
		t.Helper()
		require.NoError(t, h.handle(SubmitMoveMsg{Channel: testChannel, Player: p, Text: code}))
	}

	t.Run("cracked with a late joiner", func(t *testing.T) {
		h := newHarness(t, nil)
		saver := &savedResults{}
		h.coord.SetResultSaver(saver)

		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: "hb", Args: []string{"unique", "5"}}))
		require.NoError(t, h.handle(JoinGameMsg{Channel: testChannel, Player: bob}))
		err := h.handle(JoinGameMsg{Channel: testChannel, Player: bob})
		require.ErrorIs(t, err, ErrAlreadyInProgress)

		err = h.handle(BeginGameMsg{Channel: testChannel, Requester: bob})
		require.ErrorIs(t, err, ErrNotYourTurn)
		require.NoError(t, h.handle(BeginGameMsg{Channel: testChannel, Requester: alice}))

		g := h.session(t).(*HitAndBlow)
		require.Equal(t, StagePlaying, g.Stage())
		require.Equal(t, alice, g.Turn())
		require.Equal(t, 5, g.TurnsLeft())

		guess(t, h, alice, "rygw")
		guess(t, h, bob, "YBGR")
		scores := h.out.texts(TextGuess)
		require.Len(t, scores, 2)
		require.Equal(t, "alice guessed rygw: 3 hit, 0 blow.", scores[0].Text)
		require.Equal(t, "bob guessed ybgr: 1 hit, 3 blow.", scores[1].Text)

		err = h.handle(SubmitMoveMsg{Channel: testChannel, Player: alice, Text: "close!"})
		require.ErrorIs(t, err, ErrMalformedInput)

		require.NoError(t, h.handle(ShowHistoryMsg{Channel: testChannel, Requester: carol}))
		history := h.out.texts(TextHistory)
		require.Len(t, history, 1)
		require.Contains(t, history[0].Text, "2. ybgr 1H 3B (bob)")

		require.NoError(t, h.handle(JoinGameMsg{Channel: testChannel, Player: carol}))
		require.Equal(t, []PlayerID{alice, carol, bob}, g.Players())

		guess(t, h, alice, "rygb")
		require.Zero(t, h.store.Len())
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, "alice cracked the code rygb!", n.(TerminatedEvent).Text)

		res, ok := g.Result()
		require.True(t, ok)
		require.Equal(t, alice, res.Winner)
		require.Equal(t, "won", res.Outcome())

		h.coord.Stop()
		require.Empty(t, saver.get(), "group games are not recorded")
	})

	t.Run("out of turns reveals the code", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: "hit", Args: []string{"nodup", "4"}}))
		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(time.Minute)}))

		for range 4 {
			guess(t, h, alice, "wwww")
		}
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, "Out of turns! The code was rygb.", n.(TerminatedEvent).Text)
		require.Zero(t, h.store.Len())
	})

	t.Run("everyone leaves", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: GameHitBlow}))
		require.NoError(t, h.handle(JoinGameMsg{Channel: testChannel, Player: bob}))
		require.NoError(t, h.handle(BeginGameMsg{Channel: testChannel, Requester: alice}))

		require.NoError(t, h.handle(LeaveGameMsg{Channel: testChannel, Player: alice}))
		g := h.session(t).(*HitAndBlow)
		require.Equal(t, bob, g.Turn())

		err := h.handle(LeaveGameMsg{Channel: testChannel, Player: carol})
		require.ErrorIs(t, err, ErrNotYourTurn)

		require.NoError(t, h.handle(LeaveGameMsg{Channel: testChannel, Player: bob}))
		require.Zero(t, h.store.Len())
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, EndReasonAborted, n.(TerminatedEvent).Reason)
	})
}

func TestTournament(t *testing.T) {
	open := func(t *testing.T, h *harness) *Tournament {
		t.Helper()
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: "hoi"}))
		err := h.handle(BeginGameMsg{Channel: testChannel, Requester: alice})
		require.ErrorIs(t, err, ErrWrongPhase, "a lone host cannot start")
		require.NoError(t, h.handle(JoinGameMsg{Channel: testChannel, Player: bob}))
		require.NoError(t, h.handle(JoinGameMsg{Channel: testChannel, Player: carol}))
		require.NoError(t, h.handle(BeginGameMsg{Channel: testChannel, Requester: alice}))

		tr := h.session(t).(*Tournament)
		require.Equal(t, [2]PlayerID{alice, bob}, tr.Pair())
		return tr
	}
	hand := func(t *testing.T, h *harness, p PlayerID, g janken.Gesture) {
		t.Helper()
		require.NoError(t, h.handle(SubmitGestureMsg{Channel: testChannel, Player: p, Gesture: g}))
	}
	face := func(t *testing.T, h *harness, p PlayerID, dir string) {
		t.Helper()
		require.NoError(t, h.handle(SubmitMoveMsg{Channel: testChannel, Player: p, Text: dir}))
	}

	t.Run("bracket to a champion", func(t *testing.T) {
		h := newHarness(t, nil)
		tr := open(t, h)

		err := h.handle(SubmitGestureMsg{Channel: testChannel, Player: carol, Gesture: janken.Rock})
		require.ErrorIs(t, err, ErrNotYourTurn)

		hand(t, h, alice, janken.Paper)
		hand(t, h, bob, janken.Rock)
		err = h.handle(SubmitMoveMsg{Channel: testChannel, Player: bob, Text: "up"})
		require.ErrorIs(t, err, ErrNotYourTurn, "the janken winner points first")

		face(t, h, alice, "up")
		var private []TextEvent
		for _, ev := range h.out.texts(TextInfo) {
			if ev.To != "" {
				private = append(private, ev)
			}
		}
		require.Len(t, private, 1)
		require.Equal(t, alice, private[0].To)

		face(t, h, bob, "↑")
		require.Equal(t, [2]PlayerID{carol, alice}, tr.Pair())

		hand(t, h, carol, janken.Scissors)
		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(2 * time.Minute)}))

		require.Zero(t, h.store.Len())
		res, ok := tr.Result()
		require.True(t, ok)
		require.Equal(t, carol, res.Winner)
		require.Equal(t, 2, res.Moves)
		n, _ := h.out.last(isTerminated)
		require.Equal(t, "carol wins the tournament!", n.(TerminatedEvent).Text)
	})

	t.Run("a miss replays the bout", func(t *testing.T) {
		h := newHarness(t, nil)
		tr := open(t, h)

		hand(t, h, alice, janken.Rock)
		hand(t, h, bob, janken.Paper)
		face(t, h, bob, "left")
		face(t, h, alice, "down")

		require.Equal(t, [2]PlayerID{alice, bob}, tr.Pair())
		require.Equal(t, stepJanken, tr.step)
		hand(t, h, alice, janken.Rock)
	})

	t.Run("entries close with one player", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: GameTournament}))
		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(time.Minute)}))
		require.Zero(t, h.store.Len())
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, EndReasonTimeout, n.(TerminatedEvent).Reason)
	})
}

func TestShowdown(t *testing.T) {
	hand := func(t *testing.T, h *harness, p PlayerID, g janken.Gesture) {
		t.Helper()
		require.NoError(t, h.handle(SubmitGestureMsg{Channel: testChannel, Player: p, Gesture: g}))
	}

	t.Run("two shapes decide", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: "rps"}))

		hand(t, h, alice, janken.Rock)
		hand(t, h, bob, janken.Scissors)
		hand(t, h, carol, janken.Rock)
		err := h.handle(SubmitGestureMsg{Channel: testChannel, Player: bob, Gesture: janken.Paper})
		require.ErrorIs(t, err, ErrWrongPhase)

		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(2 * time.Second)}))
		require.Equal(t, 1, h.store.Len(), "the window is still open")

		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(6 * time.Second)}))
		require.Zero(t, h.store.Len())
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, "alice, carol win with rock!", n.(TerminatedEvent).Text)
	})

	t.Run("a tie opens a new round", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: GameShowdown}))
		s := h.session(t).(*Showdown)

		hand(t, h, alice, janken.Paper)
		hand(t, h, bob, janken.Paper)
		err := h.handle(BeginGameMsg{Channel: testChannel, Requester: bob})
		require.ErrorIs(t, err, ErrNotYourTurn)
		require.NoError(t, h.handle(BeginGameMsg{Channel: testChannel, Requester: alice}))
		require.Equal(t, 2, s.Round())
		require.False(t, s.Finished())

		hand(t, h, alice, janken.Paper)
		hand(t, h, bob, janken.Scissors)
		require.NoError(t, h.handle(BeginGameMsg{Channel: testChannel, Requester: alice}))

		res, ok := s.Result()
		require.True(t, ok)
		require.Equal(t, bob, res.Winner)
		require.Equal(t, []PlayerID{bob}, res.Winners)
		require.Equal(t, "won", res.Outcome())
	})

	t.Run("a lone hand finds no opponent", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice, Game: "j"}))
		hand(t, h, alice, janken.Rock)

		require.NoError(t, h.handle(sweepMsg{now: h.now.Add(10 * time.Second)}))
		n, ok := h.out.last(isTerminated)
		require.True(t, ok)
		require.Equal(t, EndReasonTimeout, n.(TerminatedEvent).Reason)
	})
}

func TestOutcomeLabels(t *testing.T) {
	tests := []struct {
		name string
		res  MatchResult
		want string
	}{
		{"reversi black", MatchResult{Reason: EndReasonCompleted, Black: alice, White: bob, Winner: alice}, "black"},
		{"connect four blue", MatchResult{Game: GameConnect4, Reason: EndReasonCompleted, Black: alice, White: bob, Winner: bob}, "blue"},
		{"draw", MatchResult{Game: GameConnect4, Reason: EndReasonCompleted, Draw: true}, "draw"},
		{"unsolved code", MatchResult{Game: GameHitBlow, Reason: EndReasonCompleted}, "unsolved"},
		{"group winners", MatchResult{Game: GameShowdown, Reason: EndReasonCompleted, Winners: []PlayerID{alice, bob}}, "won"},
		{"aborted", MatchResult{Game: GameTournament, Reason: EndReasonAborted}, "aborted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.res.Outcome())
		})
	}
}
