package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
)

// StubSink is a test double for publish.Sink that records every snapshot.
type StubSink struct {
	SinkName string
	Err      error
	// Notify receives the sequence number of each published snapshot when set.
	Notify chan uint64
	// Entered, when set, is closed on the first Publish call.
	Entered chan struct{}
	// Block, when set, holds Publish until it is closed or the context ends.
	Block chan struct{}

	enterOnce sync.Once

	mu    sync.Mutex
	snaps []publish.Snapshot
}

// Name returns SinkName or "stub".
func (s *StubSink) Name() string {
	if s.SinkName == "" {
		return "stub"
	}
	return s.SinkName
}

// Publish records snap and returns Err.
func (s *StubSink) Publish(ctx context.Context, snap publish.Snapshot) error {
	if s.Entered != nil {
		s.enterOnce.Do(func() { close(s.Entered) })
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	s.snaps = append(s.snaps, snap)
	s.mu.Unlock()
	if s.Notify != nil {
		s.Notify <- snap.Seq
	}
	return s.Err
}

// Snapshots returns a copy of everything published so far.
func (s *StubSink) Snapshots() []publish.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]publish.Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}

// StubJob is a test double for a poller job.
type StubJob struct {
	JobName string
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}
}

// Name returns JobName or "stub".
func (j *StubJob) Name() string {
	if j.JobName == "" {
		return "stub"
	}
	return j.JobName
}

// Run counts the call, signals Notify without blocking, and returns Err.
func (j *StubJob) Run(ctx context.Context) error {
	_ = ctx
	j.Calls.Add(1)
	if j.Notify != nil {
		select {
		case j.Notify <- struct{}{}:
		default:
		}
	}
	return j.Err
}

// StubPublisher records offered snapshots for store tests.
type StubPublisher struct {
	mu     sync.Mutex
	Offers []publish.Snapshot
}

// Offer appends snap.
func (p *StubPublisher) Offer(snap publish.Snapshot) {
	p.mu.Lock()
	p.Offers = append(p.Offers, snap)
	p.mu.Unlock()
}

// Last returns the most recent offer.
func (p *StubPublisher) Last() (publish.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Offers) == 0 {
		return publish.Snapshot{}, false
	}
	return p.Offers[len(p.Offers)-1], true
}

// Count returns how many snapshots were offered.
func (p *StubPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Offers)
}
