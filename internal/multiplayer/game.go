package multiplayer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/reversi-bot/internal/core"
	"github.com/vovakirdan/reversi-bot/internal/janken"
	"github.com/vovakirdan/reversi-bot/internal/registry"
)

// Game IDs of the registered sessions.
const (
	GameReversi    = "reversi"
	GameConnect4   = "connect4"
	GameHitBlow    = "hitblow"
	GameTournament = "tournament"
	GameShowdown   = "janken"
)

// Session is the game running in one channel. It is driven from the
// coordinator's processing goroutine and is not safe for concurrent use,
// except for Cancel.
type Session interface {
	ID() MatchID
	Game() string
	Channel() ChannelID
	Stage() Stage
	Finished() bool
	Result() (MatchResult, bool)
	// Deadline returns when the current stage expires; zero when it never does.
	Deadline() time.Time
	// Cancel interrupts pending automated work. Safe to call from any goroutine.
	Cancel()

	// Announce greets the channel right after the session is created.
	Announce()
	// SubmitMove handles free text from a player.
	SubmitMove(ctx context.Context, player PlayerID, text string, now time.Time) error
	// Abort discards the session at the request of any player in the channel.
	Abort(requester PlayerID, now time.Time)
	// Expire resolves a stage whose deadline has passed. It reports whether
	// anything happened.
	Expire(ctx context.Context, now time.Time) (bool, error)
}

// Optional session capabilities, looked up by the coordinator per message.
type (
	opponentNamer interface {
		NameOpponent(ctx context.Context, requester, opponent PlayerID, now time.Time) error
	}
	gestureTaker interface {
		SubmitGesture(ctx context.Context, player PlayerID, g janken.Gesture, now time.Time) error
	}
	budgetReporter interface {
		QueryBudget(requester PlayerID) error
	}
	joiner interface {
		Join(ctx context.Context, player PlayerID, now time.Time) error
	}
	leaver interface {
		Leave(ctx context.Context, player PlayerID, now time.Time) error
	}
	starter interface {
		Begin(ctx context.Context, requester PlayerID, now time.Time) error
	}
	historian interface {
		History(requester PlayerID) error
	}
	botDriver interface {
		ResumeBot(ctx context.Context, gen int, now time.Time) error
	}
)

// scheduler delivers msg to the coordinator after d. The returned func
// cancels the delivery if it has not happened yet.
type scheduler func(d time.Duration, msg CoordinatorMessage) (stop func() bool)

// SessionParams is what a Factory gets to build a session.
type SessionParams struct {
	ID      MatchID
	Channel ChannelID
	Host    PlayerID
	Args    []string // words after the start command
	Config  MatchConfig
	Now     time.Time
	env     matchEnv
}

// Factory creates the session of one game.
type Factory func(p SessionParams) (Session, error)

// Games lists every game a channel can start. Sessions register themselves
// in init().
var Games = registry.New[Factory]()

type matchEnv struct {
	rng    core.Rand
	out    Outbox
	stats  StatsRecorder
	logger *log.Logger
	after  scheduler
}

// session holds what every game shares: identity, notification plumbing,
// the stage and its deadline.
type session struct {
	id      MatchID
	game    string
	channel ChannelID
	cfg     MatchConfig
	rng     core.Rand
	out     Outbox
	stats   StatsRecorder
	logger  *log.Logger
	after   scheduler

	ctx    context.Context
	cancel context.CancelFunc

	stage     Stage
	host      PlayerID
	startedAt time.Time
	deadline  time.Time
	now       time.Time // time of the message being handled
	result    *MatchResult
}

func newSession(game string, p SessionParams) session {
	ctx, cancel := context.WithCancel(context.Background())
	logger := p.env.logger
	if logger == nil {
		logger = log.Default()
	}
	stats := p.env.stats
	if stats == nil {
		stats = nopStats{}
	}
	return session{
		id:      p.ID,
		game:    game,
		channel: p.Channel,
		cfg:     p.Config,
		rng:     p.env.rng,
		out:     p.env.out,
		stats:   stats,
		logger:  logger.With("game", game, "channel", p.Channel, "match", p.ID),
		after:   p.env.after,
		ctx:     ctx,
		cancel:  cancel,
		host:    p.Host,
		now:     p.Now,
	}
}

func deadlineAfter(now time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return now.Add(d)
}

// ID returns the match identifier.
func (s *session) ID() MatchID { return s.id }

// Game returns the registered game ID.
func (s *session) Game() string { return s.game }

// Channel returns the channel the session lives in.
func (s *session) Channel() ChannelID { return s.channel }

// Stage returns the current stage.
func (s *session) Stage() Stage { return s.stage }

// Finished reports whether the session should be discarded.
func (s *session) Finished() bool { return s.stage == StageFinished }

// Result returns the outcome once Finished.
func (s *session) Result() (MatchResult, bool) {
	if s.result == nil {
		return MatchResult{}, false
	}
	return *s.result, true
}

// Deadline returns when the current stage expires; zero when it never does.
func (s *session) Deadline() time.Time { return s.deadline }

// Cancel interrupts pending automated work. Safe to call from any goroutine.
func (s *session) Cancel() { s.cancel() }

func (s *session) say(kind TextKind, format string, args ...any) {
	s.out.Publish(TextEvent{Channel: s.channel, Kind: kind, Text: fmt.Sprintf(format, args...)})
}

func (s *session) tell(to PlayerID, kind TextKind, format string, args ...any) {
	s.out.Publish(TextEvent{Channel: s.channel, Kind: kind, To: to, Text: fmt.Sprintf(format, args...)})
}

// outcome starts a result carrying the session's identity.
func (s *session) outcome(reason EndReason) MatchResult {
	res := MatchResult{
		MatchID: s.id,
		Game:    s.game,
		Channel: s.channel,
		Reason:  reason,
		Played:  s.stage == StagePlaying,
	}
	if res.Played {
		res.Duration = s.now.Sub(s.startedAt)
	}
	return res
}

// end marks the session finished and tells the host it is gone.
func (s *session) end(res MatchResult, text string) {
	s.stage = StageFinished
	s.deadline = time.Time{}
	s.result = &res
	s.logger.Info("game finished", "reason", res.Reason, "winner", res.Winner, "played", res.Played)
	s.out.Publish(TerminatedEvent{Channel: s.channel, Game: s.game, Reason: res.Reason, Text: text})
	s.cancel()
}

// GameTitle returns the display name of a registered game.
func GameTitle(id string) string {
	if info, _, ok := Games.Lookup(id); ok {
		return info.Title
	}
	return id
}
