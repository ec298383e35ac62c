package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/reversi-bot/internal/core"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	Match         MatchConfig
	CleanupPeriod time.Duration // how often stage deadlines are checked
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		Match:         DefaultMatchConfig(),
		CleanupPeriod: 5 * time.Second,
	}
}

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID       string
	Game          string
	Channel       string
	BlackPlayer   string
	WhitePlayer   string
	BlackCount    int
	WhiteCount    int
	Winner        string
	EndReason     string
	Moves         int
	OverridesUsed int
	DurationSecs  int
}

// StatsRecorder receives gameplay counters. Implementations must be safe
// for concurrent use.
type StatsRecorder interface {
	GameStarted(vsBot bool)
	GameFinished(outcome string)
	MoveApplied(kind string)
	OverrideUsed(actor string)
	Rejected(reason string)
	SetActiveSessions(n int)
}

type nopStats struct{}

func (nopStats) GameStarted(bool)      {}
func (nopStats) GameFinished(string)   {}
func (nopStats) MoveApplied(string)    {}
func (nopStats) OverrideUsed(string)   {}
func (nopStats) Rejected(string)       {}
func (nopStats) SetActiveSessions(int) {}

// Coordinator routes host messages to the session of their channel.
// Messages are processed one at a time, either synchronously through
// Handle or from the queue fed by Send once Start has been called.
type Coordinator struct {
	config      CoordinatorConfig
	store       Store
	out         Outbox
	rng         core.Rand
	logger      *log.Logger
	stats       StatsRecorder
	resultSaver MatchResultSaver // Optional, can be nil
	now         func() time.Time

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopped  chan struct{} // closed when processMessages returns
	running  atomic.Bool
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	saves    sync.WaitGroup
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, store Store, out Outbox, rng core.Rand, logger *log.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	return &Coordinator{
		config:  cfg,
		store:   store,
		out:     out,
		rng:     rng,
		logger:  logger.WithPrefix("coordinator"),
		stats:   nopStats{},
		now:     time.Now,
		msgChan: make(chan CoordinatorMessage, 256),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetStats sets the metrics sink.
func (c *Coordinator) SetStats(stats StatsRecorder) {
	if stats == nil {
		stats = nopStats{}
	}
	c.stats = stats
}

// SetClock replaces the time source.
func (c *Coordinator) SetClock(now func() time.Time) {
	c.now = now
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator. It returns once the message being
// handled is done and every pending result save has finished.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		c.cancel()
		close(c.done)
	})
	if c.running.Load() {
		<-c.stopped
	}
	c.saves.Wait()
}

// Send queues a message for async processing. An abort also cancels the
// channel's session right away so a bot mid-turn stops before its next move.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	if abort, ok := msg.(AbortGameMsg); ok {
		if s, exists := c.store.Get(abort.Channel); exists {
			s.Cancel()
		}
	}

	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			return
		default:
		}
		select {
		case msg := <-c.msgChan:
			_ = c.Handle(c.ctx, msg) //nolint:errcheck // reported inside Handle
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Send(sweepMsg{now: c.now()})
		case <-c.done:
			return
		}
	}
}

// schedule delivers msg through Send once d has passed.
func (c *Coordinator) schedule(d time.Duration, msg CoordinatorMessage) func() bool {
	t := time.AfterFunc(d, func() { c.Send(msg) })
	return t.Stop
}

// Handle processes one message synchronously. Rejections are published to
// the channel before the error is returned.
func (c *Coordinator) Handle(ctx context.Context, msg CoordinatorMessage) error {
	err := c.dispatch(ctx, msg)
	if err != nil {
		ch, who := route(msg)
		c.report(ch, who, err)
	}
	return err
}

func route(msg CoordinatorMessage) (ChannelID, PlayerID) {
	switch m := msg.(type) {
	case StartGameMsg:
		return m.Channel, m.Requester
	case NameOpponentMsg:
		return m.Channel, m.Requester
	case SubmitMoveMsg:
		return m.Channel, m.Player
	case SubmitGestureMsg:
		return m.Channel, m.Player
	case AbortGameMsg:
		return m.Channel, m.Requester
	case QueryOverrideBudgetMsg:
		return m.Channel, m.Requester
	case JoinGameMsg:
		return m.Channel, m.Player
	case LeaveGameMsg:
		return m.Channel, m.Player
	case BeginGameMsg:
		return m.Channel, m.Requester
	case ShowHistoryMsg:
		return m.Channel, m.Requester
	case botTurnMsg:
		return m.channel, ""
	}
	return "", ""
}

func (c *Coordinator) dispatch(ctx context.Context, msg CoordinatorMessage) error {
	now := c.now()

	switch m := msg.(type) {
	case StartGameMsg:
		return c.handleStart(m, now)

	case NameOpponentMsg:
		s, err := c.lookup(m.Channel, false)
		if err != nil {
			return err
		}
		n, ok := s.(opponentNamer)
		if !ok {
			return fmt.Errorf("%w: %s takes no named opponent", ErrWrongPhase, s.Game())
		}
		defer c.reap(s)
		return n.NameOpponent(ctx, m.Requester, m.Opponent, now)

	case SubmitGestureMsg:
		s, err := c.lookup(m.Channel, false)
		if err != nil {
			return err
		}
		g, ok := s.(gestureTaker)
		if !ok {
			return fmt.Errorf("%w: %s takes no gestures", ErrWrongPhase, s.Game())
		}
		defer c.reap(s)
		return g.SubmitGesture(ctx, m.Player, m.Gesture, now)

	case SubmitMoveMsg:
		s, err := c.lookup(m.Channel, false)
		if err != nil {
			return err
		}
		defer c.reap(s)
		return s.SubmitMove(ctx, m.Player, m.Text, now)

	case AbortGameMsg:
		s, err := c.lookup(m.Channel, true)
		if err != nil {
			return err
		}
		defer c.reap(s)
		s.Abort(m.Requester, now)
		return nil

	case QueryOverrideBudgetMsg:
		s, err := c.lookup(m.Channel, true)
		if err != nil {
			return err
		}
		b, ok := s.(budgetReporter)
		if !ok {
			return unsupported(s, "has no overrides")
		}
		return b.QueryBudget(m.Requester)

	case JoinGameMsg:
		s, err := c.lookup(m.Channel, true)
		if err != nil {
			return err
		}
		j, ok := s.(joiner)
		if !ok {
			return unsupported(s, "takes no entries")
		}
		defer c.reap(s)
		return j.Join(ctx, m.Player, now)

	case LeaveGameMsg:
		s, err := c.lookup(m.Channel, true)
		if err != nil {
			return err
		}
		l, ok := s.(leaver)
		if !ok {
			return unsupported(s, "cannot be left, use !end to stop it")
		}
		defer c.reap(s)
		return l.Leave(ctx, m.Player, now)

	case BeginGameMsg:
		s, err := c.lookup(m.Channel, true)
		if err != nil {
			return err
		}
		b, ok := s.(starter)
		if !ok {
			return unsupported(s, "starts on its own")
		}
		defer c.reap(s)
		return b.Begin(ctx, m.Requester, now)

	case ShowHistoryMsg:
		s, err := c.lookup(m.Channel, true)
		if err != nil {
			return err
		}
		h, ok := s.(historian)
		if !ok {
			return unsupported(s, "keeps no guess history")
		}
		return h.History(m.Requester)

	case botTurnMsg:
		s, ok := c.store.Get(m.channel)
		if !ok || s.ID() != m.match {
			c.logger.Debug("stale bot turn dropped", "channel", m.channel, "match", m.match)
			return nil
		}
		d, ok := s.(botDriver)
		if !ok {
			return fmt.Errorf("%w: %s session has no bot", ErrInternal, s.Game())
		}
		defer c.reap(s)
		return d.ResumeBot(ctx, m.gen, now)

	case sweepMsg:
		c.sweep(ctx, m.now)
		return nil
	}

	return fmt.Errorf("%w: unknown message %T", ErrInternal, msg)
}

func unsupported(s Session, what string) error {
	return reject(ErrWrongPhase, "%s %s.", GameTitle(s.Game()), what)
}

func (c *Coordinator) lookup(ch ChannelID, visible bool) (Session, error) {
	s, ok := c.store.Get(ch)
	if ok {
		return s, nil
	}
	if visible {
		return nil, reject(ErrNoSession, "There is no game in progress in this channel.")
	}
	return nil, ErrNoSession
}

func (c *Coordinator) handleStart(msg StartGameMsg, now time.Time) error {
	name := msg.Game
	if name == "" {
		name = GameReversi
	}
	info, factory, ok := Games.Lookup(name)
	if !ok {
		return reject(ErrMalformedInput, "There is no game called %q.", name)
	}
	if _, exists := c.store.Get(msg.Channel); exists {
		return reject(ErrAlreadyInProgress, "A game is already running in this channel.")
	}

	s, err := factory(SessionParams{
		ID:      MatchID(fmt.Sprintf("%s-%s-%d", info.ID, msg.Channel, now.UnixNano())),
		Channel: msg.Channel,
		Host:    msg.Requester,
		Args:    msg.Args,
		Config:  c.config.Match,
		Now:     now,
		env: matchEnv{
			rng:    c.rng,
			out:    c.out,
			stats:  c.stats,
			logger: c.logger,
			after:  c.schedule,
		},
	})
	if err != nil {
		return err
	}
	if err := c.store.Create(msg.Channel, s); err != nil {
		return err
	}
	c.stats.SetActiveSessions(c.store.Len())
	c.logger.Info("session created", "game", info.ID, "channel", msg.Channel, "host", msg.Requester)
	s.Announce()
	return nil
}

func (c *Coordinator) sweep(ctx context.Context, now time.Time) {
	for _, s := range c.store.List() {
		fired, err := s.Expire(ctx, now)
		if fired {
			c.logger.Debug("stage deadline passed", "channel", s.Channel())
		}
		if err != nil {
			c.report(s.Channel(), "", err)
		}
		c.reap(s)
	}
}

// reap discards a finished session and persists its result.
func (c *Coordinator) reap(s Session) {
	if !s.Finished() {
		return
	}
	c.store.Remove(s.Channel())
	c.stats.SetActiveSessions(c.store.Len())

	res, ok := s.Result()
	if !ok {
		return
	}
	c.stats.GameFinished(res.Outcome())

	if c.resultSaver == nil || !res.Played || !res.Seated() {
		return
	}
	data := MatchResultData{
		MatchID:       string(res.MatchID),
		Game:          res.Game,
		Channel:       string(res.Channel),
		BlackPlayer:   string(res.Black),
		WhitePlayer:   string(res.White),
		BlackCount:    res.BlackCount,
		WhiteCount:    res.WhiteCount,
		Winner:        string(res.Winner),
		EndReason:     res.Reason.String(),
		Moves:         res.Moves,
		OverridesUsed: res.Overrides,
		DurationSecs:  int(res.Duration / time.Second),
	}
	// Best effort save, don't block the message loop
	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		if err := c.resultSaver.SaveMatchResult(data); err != nil {
			c.logger.Warn("cannot save match result", "match", data.MatchID, "err", err)
		}
	}()
}

func (c *Coordinator) report(ch ChannelID, who PlayerID, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.logger.Debug("session interrupted", "channel", ch, "err", err)
		return
	}

	c.stats.Rejected(Reason(err))

	var rej *Rejection
	switch {
	case errors.As(err, &rej):
		c.logger.Debug("rejected", "channel", ch, "player", who, "err", err)
		c.out.Publish(TextEvent{Channel: ch, Kind: TextRejected, To: who, Text: rej.Message})
	case errors.Is(err, ErrInternal):
		c.logger.Error("internal error", "channel", ch, "player", who, "err", err)
		c.out.Publish(InternalErrorEvent{Channel: ch, Err: err})
	default:
		c.logger.Debug("ignored", "channel", ch, "player", who, "err", err)
	}
}
