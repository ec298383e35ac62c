package multiplayer

import (
	"slices"
	"sync"
)

// Outbox receives every notification a session produces.
type Outbox interface {
	Publish(n Notification)
}

// OutboxFunc adapts a function to Outbox.
type OutboxFunc func(n Notification)

// Publish calls f(n).
func (f OutboxFunc) Publish(n Notification) { f(n) }

// Subscriber is the transport-neutral interface for a connected host session.
// It allows the coordinator to publish without depending on Wish/Bubble Tea.
type Subscriber interface {
	// ID returns the unique subscriber identifier.
	ID() SubscriberID

	// Send delivers a notification asynchronously.
	// Must be non-blocking.
	Send(n Notification)

	// Done returns a channel that closes when the subscriber goes away.
	Done() <-chan struct{}
}

// ChannelSubscriber is a Subscriber with a bounded queue, read by the TUI
// layer. A new board snapshot replaces the one still queued, and a full
// queue makes room by dropping its oldest status line. Results,
// terminations and internal errors are never dropped.
type ChannelSubscriber struct {
	id       SubscriberID
	limit    int
	mu       sync.Mutex
	queue    []Notification
	ready    chan struct{} // holds a token while the queue may be non-empty
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSubscriber creates a new queue-backed subscriber.
// bufferSize bounds the queue, final notifications excepted.
func NewChannelSubscriber(id SubscriberID, bufferSize int) *ChannelSubscriber {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSubscriber{
		id:    id,
		limit: bufferSize,
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *ChannelSubscriber) ID() SubscriberID {
	return s.id
}

// Send queues a notification without blocking.
func (s *ChannelSubscriber) Send(n Notification) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	queued := s.enqueue(n)
	s.mu.Unlock()

	if queued {
		s.signal()
	}
}

func (s *ChannelSubscriber) enqueue(n Notification) bool {
	if s.replaceSnapshot(n) {
		return true
	}
	if len(s.queue) >= s.limit {
		if i := slices.IndexFunc(s.queue, droppable); i >= 0 {
			s.queue = slices.Delete(s.queue, i, i+1)
		} else if !final(n) {
			return false
		}
	}
	s.queue = append(s.queue, n)
	return true
}

// replaceSnapshot swaps n for a queued snapshot of the same kind that was
// queued after the last final notification.
func (s *ChannelSubscriber) replaceSnapshot(n Notification) bool {
	if !snapshot(n) {
		return false
	}
	for i := len(s.queue) - 1; i >= 0; i-- {
		q := s.queue[i]
		if final(q) {
			return false
		}
		if sameKind(q, n) {
			s.queue[i] = n
			return true
		}
	}
	return false
}

func (s *ChannelSubscriber) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Next pops the oldest queued notification.
func (s *ChannelSubscriber) Next() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	n := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	if len(s.queue) > 0 {
		s.signal()
	}
	return n, true
}

// Ready returns a channel that receives when notifications may be queued.
func (s *ChannelSubscriber) Ready() <-chan struct{} {
	return s.ready
}

// Len returns the number of queued notifications.
func (s *ChannelSubscriber) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Done returns the done channel.
func (s *ChannelSubscriber) Done() <-chan struct{} {
	return s.done
}

// Close marks the subscriber as done and drops whatever is still queued.
// Safe to call multiple times.
func (s *ChannelSubscriber) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.queue = nil
		s.mu.Unlock()
	})
}

func snapshot(n Notification) bool {
	switch n.(type) {
	case BoardEvent, GridEvent:
		return true
	}
	return false
}

func sameKind(a, b Notification) bool {
	switch a.(type) {
	case BoardEvent:
		_, ok := b.(BoardEvent)
		return ok
	case GridEvent:
		_, ok := b.(GridEvent)
		return ok
	}
	return false
}

// final notifications close a game and are never dropped.
func final(n Notification) bool {
	switch n.(type) {
	case ResultEvent, TerminatedEvent, InternalErrorEvent:
		return true
	}
	return false
}

func droppable(n Notification) bool {
	return !final(n)
}

// Fanout routes notifications to the subscribers watching each channel.
// Thread-safe for concurrent access.
type Fanout struct {
	mu       sync.RWMutex
	channels map[ChannelID]map[SubscriberID]Subscriber
}

// NewFanout creates an empty fanout.
func NewFanout() *Fanout {
	return &Fanout{
		channels: make(map[ChannelID]map[SubscriberID]Subscriber),
	}
}

// Register adds a subscriber to a channel.
func (f *Fanout) Register(ch ChannelID, s Subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs, ok := f.channels[ch]
	if !ok {
		subs = make(map[SubscriberID]Subscriber)
		f.channels[ch] = subs
	}
	subs[s.ID()] = s
}

// Unregister removes a subscriber from a channel.
func (f *Fanout) Unregister(ch ChannelID, id SubscriberID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs, ok := f.channels[ch]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(f.channels, ch)
	}
}

// Count returns the number of subscribers on a channel.
func (f *Fanout) Count(ch ChannelID) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.channels[ch])
}

// Publish delivers n to every live subscriber of its channel.
func (f *Fanout) Publish(n Notification) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.channels[n.ChannelID()] {
		select {
		case <-s.Done():
			continue
		default:
		}
		s.Send(n)
	}
}
