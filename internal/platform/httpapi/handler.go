// Package httpapi serves a read-only status API for the reversi host:
// liveness, Prometheus metrics, the game catalogue and match history.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
	"github.com/vovakirdan/reversi-bot/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// MatchSource is the read side of the match store.
type MatchSource interface {
	RecentMatches(limit int) ([]storage.MatchRecord, error)
	PlayerMatches(player string, limit int) ([]storage.MatchRecord, error)
	PlayerRecord(player string) (*storage.PlayerRecord, error)
	Leaderboard(limit int) ([]storage.PlayerRecord, error)
	MatchByID(matchID string) (*storage.MatchRecord, error)
}

// Handler serves the API endpoints.
type Handler struct {
	matches   MatchSource // nil when the database is unavailable
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a handler. matches may be nil.
func NewHandler(matches MatchSource) *Handler {
	return &Handler{
		matches:   matches,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// NewRouter wires the endpoints onto a gin engine.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/api/games", h.Games)

	api := r.Group("/api")
	api.Use(h.requireStore)
	api.GET("/matches", h.RecentMatches)
	api.GET("/matches/:id", h.MatchByID)
	api.GET("/players/:name", h.Player)
	api.GET("/leaderboard", h.Leaderboard)

	return r
}

// requestLogger logs every request at debug level.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

func (h *Handler) requireStore(c *gin.Context) {
	if h.matches == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "match history unavailable"})
		return
	}
	c.Next()
}

// limitParam reads ?limit=, clamped to [1, maxLimit].
func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return min(n, maxLimit), true
}

// Liveness returns simple alive status.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": h.now().Sub(h.startTime).Round(time.Second).String(),
	})
}

// RecentMatches returns the latest matches across all channels.
func (h *Handler) RecentMatches(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	matches, err := h.matches.RecentMatches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": toMatchJSON(matches)})
}

// MatchByID returns one match.
func (h *Handler) MatchByID(c *gin.Context) {
	rec, err := h.matches.MatchByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load match"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}
	c.JSON(http.StatusOK, newMatchJSON(*rec))
}

// Player returns a player's record and recent matches.
func (h *Handler) Player(c *gin.Context) {
	name := c.Param("name")
	limit, ok := limitParam(c)
	if !ok {
		return
	}

	rec, err := h.matches.PlayerRecord(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load player"})
		return
	}
	matches, err := h.matches.PlayerMatches(name, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":  newRecordJSON(*rec),
		"matches": toMatchJSON(matches),
	})
}

// Leaderboard returns players ranked by completed wins.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	board, err := h.matches.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	out := make([]recordJSON, len(board))
	for i, r := range board {
		out[i] = newRecordJSON(r)
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}

// Games lists the games a channel can start.
func (h *Handler) Games(c *gin.Context) {
	games := multiplayer.Games.List()
	out := make([]gameJSON, len(games))
	for i, g := range games {
		out[i] = newGameJSON(g)
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}
