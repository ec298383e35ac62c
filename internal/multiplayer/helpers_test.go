package multiplayer

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/reversi-bot/internal/janken"
)

const (
	testChannel ChannelID = "general"
	alice       PlayerID  = "alice"
	bob         PlayerID  = "bob"
)

// scriptedRand replays fixed draws. Exhausted float draws return 0.99 so the
// bot never overrides, exhausted int draws return 0.
type scriptedRand struct {
	mu      sync.Mutex
	floats  []float64
	ints    []int
	reverse bool // Shuffle reverses instead of keeping the order
}

func (s *scriptedRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRand) Shuffle(n int, swap func(i, j int)) {
	if s.reverse && n == 2 {
		swap(0, 1)
	}
}

// recorder is an Outbox that keeps every notification.
type recorder struct {
	mu     sync.Mutex
	events []Notification
}

func (r *recorder) Publish(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recorder) texts(kind TextKind) []TextEvent {
	var out []TextEvent
	for _, n := range r.all() {
		if t, ok := n.(TextEvent); ok && t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (r *recorder) last(match func(Notification) bool) (Notification, bool) {
	events := r.all()
	for i := len(events) - 1; i >= 0; i-- {
		if match(events[i]) {
			return events[i], true
		}
	}
	return nil, false
}

func isTerminated(n Notification) bool {
	_, ok := n.(TerminatedEvent)
	return ok
}

func isResult(n Notification) bool {
	_, ok := n.(ResultEvent)
	return ok
}

func isBoard(n Notification) bool {
	_, ok := n.(BoardEvent)
	return ok
}

// savedResults collects results from the coordinator's async saver.
type savedResults struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (s *savedResults) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *savedResults) get() []MatchResultData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchResultData(nil), s.results...)
}

type harness struct {
	coord *Coordinator
	store *MemoryStore
	out   *recorder
	rng   *scriptedRand
	now   time.Time
}

func newHarness(t *testing.T, mutate func(*CoordinatorConfig)) *harness {
	t.Helper()
	cfg := DefaultCoordinatorConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{
		store: NewMemoryStore(),
		out:   &recorder{},
		rng:   &scriptedRand{},
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.coord = NewCoordinator(cfg, h.store, h.out, h.rng, log.New(io.Discard))
	h.coord.SetClock(func() time.Time { return h.now })
	t.Cleanup(h.coord.Stop)
	return h
}

func (h *harness) handle(msg CoordinatorMessage) error {
	return h.coord.Handle(context.Background(), msg)
}

func (h *harness) session(t *testing.T) Session {
	t.Helper()
	s, ok := h.store.Get(testChannel)
	require.True(t, ok, "session should exist")
	return s
}

func (h *harness) match(t *testing.T) *Match {
	t.Helper()
	m, ok := h.session(t).(*Match)
	require.True(t, ok, "session should be a reversi match")
	return m
}

// startHumanGame seats alice as black and bob as white.
func (h *harness) startHumanGame(t *testing.T) *Match {
	t.Helper()
	require.NoError(t, h.handle(StartGameMsg{Channel: testChannel, Requester: alice}))
	require.NoError(t, h.handle(NameOpponentMsg{Channel: testChannel, Requester: alice, Opponent: bob}))
	require.NoError(t, h.handle(SubmitGestureMsg{Channel: testChannel, Player: alice, Gesture: janken.Paper}))
	require.NoError(t, h.handle(SubmitGestureMsg{Channel: testChannel, Player: bob, Gesture: janken.Rock}))

	m := h.match(t)
	require.Equal(t, StagePlaying, m.Stage())
	require.Equal(t, [2]PlayerID{alice, bob}, m.Players())
	return m
}
