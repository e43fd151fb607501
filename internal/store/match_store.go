package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
)

// OverrideReader supplies the overrides folded into each snapshot.
type OverrideReader interface {
	Get() match.Overrides
}

// MatchStore owns the single match state. Every mutation and the snapshot it produces happen
// under one lock so sinks observe changes in the order they were applied.
type MatchStore struct {
	mu        sync.Mutex
	state     match.MatchState
	seq       uint64
	overrides OverrideReader
	publisher publish.Publisher
	now       func() time.Time
}

// NewMatchStore builds a store seeded with the default board.
// overrides and publisher may be nil.
func NewMatchStore(overrides OverrideReader, publisher publish.Publisher) *MatchStore {
	return &MatchStore{
		state:     match.NewMatchState(),
		overrides: overrides,
		publisher: publisher,
		now:       time.Now,
	}
}

// Update runs fn against the state under the store lock. When fn reports a change the new
// state is committed and offered to the publisher before the lock is released.
func (s *MatchStore) Update(fn func(*match.MatchState) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state
	if !fn(&working) {
		return false
	}
	s.state = working
	s.publishLocked()
	return true
}

// Advance runs fn against the state under the store lock and always commits the result.
// The new state is offered to the publisher only when fn reports a visible change, so
// sub-display progress such as a clock moving within the same second is kept.
func (s *MatchStore) Advance(fn func(*match.MatchState) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	notify := fn(&s.state)
	if notify {
		s.publishLocked()
	}
	return notify
}

// Republish offers the current state again, e.g. after overrides change.
func (s *MatchStore) Republish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked()
}

// State returns a copy of the current match state.
func (s *MatchStore) State() match.MatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot builds a snapshot of the current state without publishing it.
func (s *MatchStore) Snapshot() publish.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *MatchStore) snapshotLocked() publish.Snapshot {
	var ov match.Overrides
	if s.overrides != nil {
		ov = s.overrides.Get()
	}
	return publish.NewSnapshot(s.seq, s.now(), s.state, ov)
}

func (s *MatchStore) publishLocked() {
	s.seq++
	if s.publisher == nil {
		return
	}
	s.publisher.Offer(s.snapshotLocked())
}
