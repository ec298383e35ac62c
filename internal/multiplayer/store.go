package multiplayer

import (
	"cmp"
	"slices"
	"sync"
)

// Store holds the live session of each channel.
type Store interface {
	// Create registers m for ch, failing with ErrAlreadyInProgress if one exists.
	Create(ch ChannelID, m Session) error
	Get(ch ChannelID) (Session, bool)
	Remove(ch ChannelID)
	// List returns every live session sorted by channel.
	List() []Session
	Len() int
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[ChannelID]Session
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{matches: make(map[ChannelID]Session)}
}

func (s *MemoryStore) Create(ch ChannelID, m Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.matches[ch]; exists {
		return reject(ErrAlreadyInProgress, "A game is already running in this channel.")
	}
	s.matches[ch] = m
	return nil
}

func (s *MemoryStore) Get(ch ChannelID) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[ch]
	return m, ok
}

func (s *MemoryStore) Remove(ch ChannelID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, ch)
}

func (s *MemoryStore) List() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Session) int {
		return cmp.Compare(a.Channel(), b.Channel())
	})
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}
