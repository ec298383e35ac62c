package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/storage"
)

type fakeMatches struct {
	records   []storage.MatchRecord
	err       error
	lastLimit int
}

func (f *fakeMatches) RecentMatches(limit int) ([]storage.MatchRecord, error) {
	f.lastLimit = limit
	return f.records, f.err
}

func (f *fakeMatches) PlayerMatches(player string, limit int) ([]storage.MatchRecord, error) {
	f.lastLimit = limit
	var out []storage.MatchRecord
	for _, r := range f.records {
		if r.BlackPlayer == player || r.WhitePlayer == player {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeMatches) PlayerRecord(player string) (*storage.PlayerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec := &storage.PlayerRecord{Player: player}
	for _, r := range f.records {
		if r.Winner == player {
			rec.Wins++
		}
	}
	return rec, nil
}

func (f *fakeMatches) Leaderboard(limit int) ([]storage.PlayerRecord, error) {
	f.lastLimit = limit
	return []storage.PlayerRecord{{Player: "alice", Wins: 2}, {Player: "bob", Wins: 1}}, f.err
}

func (f *fakeMatches) MatchByID(id string) (*storage.MatchRecord, error) {
	for _, r := range f.records {
		if r.MatchID == id {
			return &r, f.err
		}
	}
	return nil, f.err
}

func newTestRouter(t *testing.T, src MatchSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "reversi_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	h := NewHandler(src)
	h.now = func() time.Time { return h.startTime.Add(90 * time.Second) }
	return NewRouter(h, reg, log.New(io.Discard))
}

func get(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func sampleMatches() *fakeMatches {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeMatches{records: []storage.MatchRecord{
		{MatchID: "m1", Channel: "lobby", BlackPlayer: "alice", WhitePlayer: "bob", BlackCount: 19, WhiteCount: 17, Winner: "alice", EndReason: "completed", CreatedAt: at},
		{MatchID: "m2", Game: "connect4", Channel: "lobby", BlackPlayer: "bob", WhitePlayer: "carol", BlackCount: 18, WhiteCount: 18, EndReason: "completed", CreatedAt: at},
	}}
}

func TestLiveness(t *testing.T) {
	r := newTestRouter(t, nil)

	w, body := get(t, r, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "1m30s", body["uptime"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	w, _ := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "reversi_test_total 1")
}

func TestRecentMatches(t *testing.T) {
	src := sampleMatches()
	r := newTestRouter(t, src)

	w, body := get(t, r, "/api/matches")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, defaultLimit, src.lastLimit)

	matches := body["matches"].([]any)
	require.Len(t, matches, 2)
	first := matches[0].(map[string]any)
	require.Equal(t, "m1", first["match_id"])
	require.Equal(t, "alice", first["winner"])
	require.Equal(t, false, first["draw"])
	require.Equal(t, true, matches[1].(map[string]any)["draw"])

	t.Run("limit is clamped", func(t *testing.T) {
		get(t, r, "/api/matches?limit=5000")
		require.Equal(t, maxLimit, src.lastLimit)
	})

	t.Run("bad limit", func(t *testing.T) {
		w, body := get(t, r, "/api/matches?limit=-1")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, body["error"], "limit")
	})
}

func TestMatchByID(t *testing.T) {
	r := newTestRouter(t, sampleMatches())

	w, body := get(t, r, "/api/matches/m2")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "carol", body["white"])
	require.Equal(t, "connect4", body["game"])

	w, body = get(t, r, "/api/matches/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "match not found", body["error"])
}

func TestPlayer(t *testing.T) {
	r := newTestRouter(t, sampleMatches())

	w, body := get(t, r, "/api/players/alice")
	require.Equal(t, http.StatusOK, w.Code)

	record := body["record"].(map[string]any)
	require.Equal(t, "alice", record["player"])
	require.EqualValues(t, 1, record["wins"])
	require.Len(t, body["matches"].([]any), 1)
}

func TestLeaderboard(t *testing.T) {
	r := newTestRouter(t, sampleMatches())

	w, body := get(t, r, "/api/leaderboard?limit=3")
	require.Equal(t, http.StatusOK, w.Code)
	board := body["leaderboard"].([]any)
	require.Len(t, board, 2)
	require.Equal(t, "alice", board[0].(map[string]any)["player"])
}

func TestGames(t *testing.T) {
	r := newTestRouter(t, nil)

	w, body := get(t, r, "/api/games")
	require.Equal(t, http.StatusOK, w.Code, "the catalogue needs no database")
	games := body["games"].([]any)
	require.Len(t, games, len(multiplayer.Games.List()))

	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.(map[string]any)["id"].(string)
	}
	require.Contains(t, ids, multiplayer.GameReversi)
	require.Contains(t, ids, multiplayer.GameConnect4)
}

func TestStoreErrors(t *testing.T) {
	r := newTestRouter(t, &fakeMatches{err: errors.New("disk on fire")})

	w, body := get(t, r, "/api/matches")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "failed to load matches", body["error"])
}

func TestHistoryUnavailable(t *testing.T) {
	r := newTestRouter(t, nil)

	w, body := get(t, r, "/api/leaderboard")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "match history unavailable", body["error"])
}
