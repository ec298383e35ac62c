package httpapi

import (
	"time"

	"github.com/vovakirdan/reversi-bot/internal/registry"
	"github.com/vovakirdan/reversi-bot/internal/storage"
)

type matchJSON struct {
	MatchID       string    `json:"match_id"`
	Game          string    `json:"game"`
	Channel       string    `json:"channel"`
	Black         string    `json:"black"`
	White         string    `json:"white"`
	BlackCount    int       `json:"black_count"`
	WhiteCount    int       `json:"white_count"`
	Winner        string    `json:"winner,omitempty"`
	Draw          bool      `json:"draw"`
	EndReason     string    `json:"end_reason"`
	Moves         int       `json:"moves"`
	OverridesUsed int       `json:"overrides_used"`
	DurationSecs  int       `json:"duration_secs"`
	PlayedAt      time.Time `json:"played_at"`
}

func newMatchJSON(r storage.MatchRecord) matchJSON {
	return matchJSON{
		MatchID:       r.MatchID,
		Game:          r.Game,
		Channel:       r.Channel,
		Black:         r.BlackPlayer,
		White:         r.WhitePlayer,
		BlackCount:    r.BlackCount,
		WhiteCount:    r.WhiteCount,
		Winner:        r.Winner,
		Draw:          r.Draw(),
		EndReason:     r.EndReason,
		Moves:         r.Moves,
		OverridesUsed: r.OverridesUsed,
		DurationSecs:  r.Duration,
		PlayedAt:      r.CreatedAt,
	}
}

func toMatchJSON(records []storage.MatchRecord) []matchJSON {
	out := make([]matchJSON, len(records))
	for i, r := range records {
		out[i] = newMatchJSON(r)
	}
	return out
}

type recordJSON struct {
	Player  string `json:"player"`
	Played  int    `json:"played"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	Draws   int    `json:"draws"`
	Aborted int    `json:"unfinished"`
	Discs   int    `json:"discs"`
}

func newRecordJSON(r storage.PlayerRecord) recordJSON {
	return recordJSON{
		Player:  r.Player,
		Played:  r.Played(),
		Wins:    r.Wins,
		Losses:  r.Losses,
		Draws:   r.Draws,
		Aborted: r.Aborted,
		Discs:   r.Discs,
	}
}

type gameJSON struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Aliases []string `json:"aliases"`
	Summary string   `json:"summary"`
}

func newGameJSON(g registry.GameInfo) gameJSON {
	aliases := g.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return gameJSON{ID: g.ID, Title: g.Title, Aliases: aliases, Summary: g.Summary}
}
