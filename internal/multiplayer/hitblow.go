package multiplayer

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/reversi-bot/internal/games/hitblow"
	"github.com/vovakirdan/reversi-bot/internal/registry"
)

// Turn limits a host may pick for Hit and Blow.
const (
	MinHitBlowTurns = 4
	MaxHitBlowTurns = 8
)

func init() {
	Games.Register(registry.GameInfo{
		ID:      GameHitBlow,
		Title:   "Hit and Blow",
		Aliases: []string{"hit", "hb"},
		Summary: "crack a four-colour code in turns; options: dup|unique|random, 4-8 turns",
	}, newHitAndBlow)
}

type guessRecord struct {
	player PlayerID
	code   hitblow.Code
	score  hitblow.Score
}

// HitAndBlow is a Hit and Blow session. Entries are taken until the entry
// window closes or the host sends !go, then the players guess in turns
// against a shared turn limit. Players may join or leave mid-game.
type HitAndBlow struct {
	session

	mode     hitblow.Mode
	maxTurns int
	secret   hitblow.Code
	players  []PlayerID // entrants, then the guessing order
	current  int
	guesses  []guessRecord
}

func newHitAndBlow(p SessionParams) (Session, error) {
	mode, turns, err := parseHitBlowArgs(p.Args, p.Config.HitBlowTurns)
	if err != nil {
		return nil, err
	}
	g := &HitAndBlow{
		session:  newSession(GameHitBlow, p),
		mode:     mode,
		maxTurns: turns,
		players:  []PlayerID{p.Host},
	}
	g.stage = StageEntry
	g.deadline = deadlineAfter(p.Now, p.Config.EntryTimeout)
	return g, nil
}

func parseHitBlowArgs(args []string, turns int) (hitblow.Mode, int, error) {
	mode := hitblow.ModeRandom
	if turns < MinHitBlowTurns || turns > MaxHitBlowTurns {
		turns = DefaultMatchConfig().HitBlowTurns
	}
	for _, a := range args {
		if n, err := strconv.Atoi(a); err == nil {
			if n < MinHitBlowTurns || n > MaxHitBlowTurns {
				return 0, 0, reject(ErrMalformedInput, "The turn limit must be between %d and %d.",
					MinHitBlowTurns, MaxHitBlowTurns)
			}
			turns = n
			continue
		}
		m, ok := hitblow.ParseMode(a)
		if !ok {
			return 0, 0, reject(ErrMalformedInput, "Unknown option %q. Use dup, unique or random and a turn limit of %d-%d.",
				a, MinHitBlowTurns, MaxHitBlowTurns)
		}
		mode = m
	}
	return mode, turns, nil
}

// Players returns the entrants or the guessing order.
func (g *HitAndBlow) Players() []PlayerID { return slices.Clone(g.players) }

// Turn returns the player to guess, or empty outside the playing stage.
func (g *HitAndBlow) Turn() PlayerID {
	if g.stage != StagePlaying || len(g.players) == 0 {
		return ""
	}
	return g.players[g.current]
}

// TurnsLeft returns how many guesses remain.
func (g *HitAndBlow) TurnsLeft() int { return g.maxTurns - len(g.guesses) }

// Announce greets the channel right after the session is created.
func (g *HitAndBlow) Announce() {
	when := fmt.Sprintf("when %s sends !go", g.host)
	if !g.deadline.IsZero() {
		when = fmt.Sprintf("in %s or %s", g.deadline.Sub(g.now).Round(time.Second), when)
	}
	g.say(TextPrompt, "Hit and Blow (%s, %d turns) opened by %s. Send !join to take part. The game starts %s.",
		g.mode, g.maxTurns, g.host, when)
}

// Join enters a player. During play the newcomer guesses next.
func (g *HitAndBlow) Join(_ context.Context, player PlayerID, now time.Time) error {
	g.now = now
	if slices.Contains(g.players, player) {
		return reject(ErrAlreadyInProgress, "You are already in this game.")
	}

	switch g.stage {
	case StageEntry:
		g.players = append(g.players, player)
		g.say(TextInfo, "%s joined (%d players).", player, len(g.players))
	case StagePlaying:
		g.players = slices.Insert(g.players, g.current+1, player)
		g.say(TextInfo, "%s joined and guesses next.", player)
	default:
		return ErrWrongPhase
	}
	return nil
}

// Begin closes the entry window early. Only the host may do so.
func (g *HitAndBlow) Begin(_ context.Context, requester PlayerID, now time.Time) error {
	g.now = now
	if g.stage != StageEntry {
		return reject(ErrWrongPhase, "The game has already started.")
	}
	if requester != g.host {
		return reject(ErrNotYourTurn, "Only %s can start the game.", g.host)
	}
	g.start()
	return nil
}

func (g *HitAndBlow) start() {
	g.rng.Shuffle(len(g.players), func(i, j int) { g.players[i], g.players[j] = g.players[j], g.players[i] })
	g.secret = hitblow.NewSecret(g.rng, g.mode)
	g.stage = StagePlaying
	g.startedAt = g.now
	g.deadline = time.Time{}
	g.current = 0
	g.stats.GameStarted(false)

	g.logger.Info("game started", "players", len(g.players), "mode", g.mode, "turns", g.maxTurns)
	g.say(TextInfo, "Let's play Hit and Blow! Guess the %d-colour code in %d turns. Order: %s.",
		hitblow.CodeLength, g.maxTurns, joinPlayers(g.players))
	g.prompt()
}

func (g *HitAndBlow) prompt() {
	g.say(TextPrompt, "%s's turn (%d turns left). Colours: %s", g.players[g.current], g.TurnsLeft(), hitblow.Legend())
}

// SubmitMove scores a guess from the player whose turn it is. Text that is
// not a guess is treated as chat.
func (g *HitAndBlow) SubmitMove(_ context.Context, player PlayerID, text string, now time.Time) error {
	g.now = now
	if g.stage != StagePlaying {
		return ErrWrongPhase
	}
	if player != g.players[g.current] {
		return ErrNotYourTurn
	}
	code, err := hitblow.ParseGuess(text)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedInput, text)
	}

	score := hitblow.Compare(g.secret, code)
	g.guesses = append(g.guesses, guessRecord{player: player, code: code, score: score})
	g.stats.MoveApplied("guess")
	g.say(TextGuess, "%s guessed %s: %d hit, %d blow.", player, code, score.Hits, score.Blows)

	switch {
	case score.Solved():
		g.finish(EndReasonCompleted, player, fmt.Sprintf("%s cracked the code %s!", player, g.secret))
	case g.TurnsLeft() <= 0:
		g.finish(EndReasonCompleted, "", fmt.Sprintf("Out of turns! The code was %s.", g.secret))
	default:
		g.current = (g.current + 1) % len(g.players)
		g.prompt()
	}
	return nil
}

// History lists the guesses made so far.
func (g *HitAndBlow) History(PlayerID) error {
	if len(g.guesses) == 0 {
		g.say(TextHistory, "No guesses yet.")
		return nil
	}
	g.say(TextHistory, "Guesses so far:\n%s", g.historyLines())
	return nil
}

func (g *HitAndBlow) historyLines() string {
	lines := make([]string, 0, len(g.guesses))
	for i, r := range g.guesses {
		lines = append(lines, fmt.Sprintf("%d. %s %dH %dB (%s)", i+1, r.code, r.score.Hits, r.score.Blows, r.player))
	}
	return strings.Join(lines, "\n")
}

// Leave takes a player out. The game ends once nobody is left.
func (g *HitAndBlow) Leave(_ context.Context, player PlayerID, now time.Time) error {
	g.now = now
	i := slices.Index(g.players, player)
	if i < 0 {
		return reject(ErrNotYourTurn, "You are not in this game.")
	}
	g.players = slices.Delete(g.players, i, i+1)
	g.say(TextInfo, "%s left the game.", player)

	if len(g.players) == 0 {
		g.finish(EndReasonAborted, "", "Everyone left. "+g.reveal())
		return nil
	}
	if g.stage != StagePlaying {
		return nil
	}
	switch {
	case i < g.current:
		g.current--
	case i == g.current:
		g.current %= len(g.players)
		g.prompt()
	}
	return nil
}

// Abort discards the session at the request of any player in the channel.
func (g *HitAndBlow) Abort(requester PlayerID, now time.Time) {
	g.now = now
	g.finish(EndReasonAborted, "", fmt.Sprintf("%s ended the game. %s", requester, g.reveal()))
}

// Expire starts the game once the entry window closes.
func (g *HitAndBlow) Expire(_ context.Context, now time.Time) (bool, error) {
	if g.deadline.IsZero() || now.Before(g.deadline) || g.stage != StageEntry {
		return false, nil
	}
	g.now = now
	g.start()
	return true, nil
}

func (g *HitAndBlow) reveal() string {
	if g.stage != StagePlaying {
		return "The game was cancelled."
	}
	return fmt.Sprintf("The code was %s.", g.secret)
}

func (g *HitAndBlow) finish(reason EndReason, winner PlayerID, text string) {
	if len(g.guesses) > 0 {
		g.say(TextHistory, "Final guesses:\n%s", g.historyLines())
	}
	res := g.outcome(reason)
	res.Winner = winner
	res.Moves = len(g.guesses)
	g.end(res, text)
}

func joinPlayers(players []PlayerID) string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
