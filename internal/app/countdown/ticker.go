package countdown

import (
	"context"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/metrics"
)

// JobName identifies the countdown job in logs and metrics.
const JobName = "countdown"

// Store is the slice of the match store the ticker needs. Advance commits every
// mutation and publishes only when fn reports a visible change.
type Store interface {
	Advance(fn func(*match.MatchState) bool) bool
}

// Ticker advances running clocks by the real time elapsed between runs.
// Run is called from a single goroutine.
type Ticker struct {
	store   Store
	metrics *metrics.Recorder
	now     func() time.Time
	last    time.Time
}

// NewTicker builds a ticker over store.
func NewTicker(store Store, recorder *metrics.Recorder) *Ticker {
	return &Ticker{store: store, metrics: recorder, now: time.Now}
}

func (t *Ticker) Name() string { return JobName }

// Run measures the time since the previous run and counts the clocks down by it.
// The first run only records the starting instant.
func (t *Ticker) Run(context.Context) error {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		return nil
	}
	elapsed := now.Sub(t.last)
	t.last = now

	changed := t.store.Advance(func(m *match.MatchState) bool {
		return m.Advance(elapsed)
	})
	t.metrics.RecordTick(changed)
	return nil
}
