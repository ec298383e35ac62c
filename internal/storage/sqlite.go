// Package storage provides SQLite-based persistence for finished matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/reversi-bot/internal/multiplayer"
)

const (
	completed   = "completed"
	defaultGame = multiplayer.GameReversi
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished match.
type MatchRecord struct {
	ID            int64
	MatchID       string
	Game          string // registered game ID; reversi when empty
	Channel       string
	BlackPlayer   string
	WhitePlayer   string
	BlackCount    int
	WhiteCount    int
	Winner        string // Empty on a draw or when the game did not complete
	EndReason     string // "completed", "aborted", "timeout"
	Moves         int
	OverridesUsed int
	Duration      int // Duration in seconds
	CreatedAt     time.Time
}

// Draw reports whether the match completed without a winner.
func (r MatchRecord) Draw() bool {
	return r.EndReason == completed && r.Winner == ""
}

// PlayerRecord aggregates one player's results.
type PlayerRecord struct {
	Player  string
	Wins    int
	Losses  int
	Draws   int
	Aborted int // aborted or timed out
	Discs   int // discs held at the end of completed reversi games
}

// Played returns the number of recorded matches.
func (r PlayerRecord) Played() int {
	return r.Wins + r.Losses + r.Draws + r.Aborted
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game TEXT NOT NULL DEFAULT 'reversi',
			channel TEXT NOT NULL,
			black_player TEXT NOT NULL,
			white_player TEXT NOT NULL,
			black_count INTEGER NOT NULL DEFAULT 0,
			white_count INTEGER NOT NULL DEFAULT 0,
			winner TEXT,
			end_reason TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			overrides_used INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_channel ON matches(channel);
		CREATE INDEX IF NOT EXISTS idx_matches_black ON matches(black_player);
		CREATE INDEX IF NOT EXISTS idx_matches_white ON matches(white_player);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addGameColumn()
}

// addGameColumn upgrades databases created before the game column existed.
func (s *Store) addGameColumn() error {
	rows, err := s.db.Query(`PRAGMA table_info(matches)`)
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var (
			cid       int
			name      string
			typ       string
			notNull   int
			dflt      sql.NullString
			primaryKy int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &primaryKy); err != nil {
			rows.Close()
			return err
		}
		if name == "game" {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if !found {
		if _, err := s.db.Exec(`ALTER TABLE matches ADD COLUMN game TEXT NOT NULL DEFAULT 'reversi'`); err != nil {
			return err
		}
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_matches_game ON matches(game)`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(rec MatchRecord) (int64, error) {
	var winner sql.NullString
	if rec.Winner != "" {
		winner = sql.NullString{String: rec.Winner, Valid: true}
	}

	game := rec.Game
	if game == "" {
		game = defaultGame
	}

	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, game, channel, black_player, white_player, black_count, white_count,
		  winner, end_reason, moves, overrides_used, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID,
		game,
		rec.Channel,
		rec.BlackPlayer,
		rec.WhitePlayer,
		rec.BlackCount,
		rec.WhiteCount,
		winner,
		rec.EndReason,
		rec.Moves,
		rec.OverridesUsed,
		rec.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:       data.MatchID,
		Game:          data.Game,
		Channel:       data.Channel,
		BlackPlayer:   data.BlackPlayer,
		WhitePlayer:   data.WhitePlayer,
		BlackCount:    data.BlackCount,
		WhiteCount:    data.WhiteCount,
		Winner:        data.Winner,
		EndReason:     data.EndReason,
		Moves:         data.Moves,
		OverridesUsed: data.OverridesUsed,
		Duration:      data.DurationSecs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

const matchColumns = `id, match_id, game, channel, black_player, white_player, black_count, white_count,
		        winner, end_reason, moves, overrides_used, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var rec MatchRecord
	var winner sql.NullString
	var createdAt any

	if err := row.Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.Game,
		&rec.Channel,
		&rec.BlackPlayer,
		&rec.WhitePlayer,
		&rec.BlackCount,
		&rec.WhiteCount,
		&winner,
		&rec.EndReason,
		&rec.Moves,
		&rec.OverridesUsed,
		&rec.Duration,
		&createdAt,
	); err != nil {
		return rec, err
	}

	if winner.Valid {
		rec.Winner = winner.String
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match by its match ID. It returns nil when absent.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE match_id = ?`,
		matchID,
	)

	rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &rec, nil
}

// RecentMatches retrieves the most recent matches across all channels.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerMatches retrieves match history for a specific player.
func (s *Store) PlayerMatches(player string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE black_player = ? OR white_player = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, player, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]MatchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerRecord aggregates wins, losses and draws for a player.
func (s *Store) PlayerRecord(player string) (*PlayerRecord, error) {
	rec := &PlayerRecord{Player: player}

	err := s.db.QueryRow(
		`SELECT
		   COALESCE(SUM(CASE WHEN end_reason = ? AND winner = ? THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN end_reason = ? AND winner IS NOT NULL AND winner <> ? THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN end_reason = ? AND winner IS NULL THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN end_reason <> ? THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN end_reason <> ? OR game <> ? THEN 0
		                     WHEN black_player = ? THEN black_count
		                     ELSE white_count END), 0)
		 FROM matches
		 WHERE black_player = ? OR white_player = ?`,
		completed, player,
		completed, player,
		completed,
		completed,
		completed, defaultGame, player,
		player, player,
	).Scan(&rec.Wins, &rec.Losses, &rec.Draws, &rec.Aborted, &rec.Discs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player record: %w", err)
	}

	return rec, nil
}

// Leaderboard ranks players by completed wins.
func (s *Store) Leaderboard(limit int) ([]PlayerRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT winner, COUNT(*) AS wins
		 FROM matches
		 WHERE end_reason = ? AND winner IS NOT NULL
		 GROUP BY winner
		 ORDER BY wins DESC, winner ASC
		 LIMIT ?`,
		completed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}

	var names []string
	for rows.Next() {
		var name string
		var wins int
		if err := rows.Scan(&name, &wins); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan leaderboard row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	board := make([]PlayerRecord, 0, len(names))
	for _, name := range names {
		rec, err := s.PlayerRecord(name)
		if err != nil {
			return nil, err
		}
		board = append(board, *rec)
	}
	return board, nil
}
