package publish

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
	"github.com/preston-bernstein/scoreboard-gateway/internal/metrics"
)

// Dispatcher delivers snapshots to sinks on its own goroutine.
// Pending snapshots coalesce: a sink always sees the newest state, in order, never an older one
// after a newer one.
type Dispatcher struct {
	sinks   []Sink
	logger  *slog.Logger
	metrics *metrics.Recorder

	offerMu sync.Mutex
	pending chan Snapshot

	latestMu sync.RWMutex
	latest   Snapshot
	hasLast  bool

	startMu  sync.Mutex
	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewDispatcher builds a dispatcher for sinks. Nil sinks are skipped.
func NewDispatcher(logger *slog.Logger, recorder *metrics.Recorder, sinks ...Sink) *Dispatcher {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Dispatcher{
		sinks:   kept,
		logger:  logger,
		metrics: recorder,
		pending: make(chan Snapshot, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Offer queues snap for delivery, replacing any snapshot not yet picked up.
func (d *Dispatcher) Offer(snap Snapshot) {
	if d == nil {
		return
	}
	d.offerMu.Lock()
	defer d.offerMu.Unlock()

	select {
	case <-d.pending:
		d.metrics.RecordCoalesced()
	default:
	}
	d.pending <- snap
}

// Latest returns the most recently delivered snapshot.
func (d *Dispatcher) Latest() (Snapshot, bool) {
	if d == nil {
		return Snapshot{}, false
	}
	d.latestMu.RLock()
	defer d.latestMu.RUnlock()
	return d.latest, d.hasLast
}

// Start begins delivery. Calling Start more than once is a no-op.
func (d *Dispatcher) Start(ctx context.Context) {
	if d == nil {
		return
	}
	d.startMu.Lock()
	if d.started {
		d.startMu.Unlock()
		return
	}
	d.started = true
	d.startMu.Unlock()

	go d.loop(ctx)
}

// Stop halts delivery and waits for the in-flight push to finish or the context to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.startMu.Lock()
	started := d.started
	d.startMu.Unlock()

	d.stopOnce.Do(func() {
		close(d.stop)
	})
	if !started {
		return nil
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stop:
			return
		case snap := <-d.pending:
			d.deliver(ctx, snap)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, snap Snapshot) {
	d.latestMu.Lock()
	d.latest = snap
	d.hasLast = true
	d.latestMu.Unlock()

	for _, sink := range d.sinks {
		start := time.Now()
		err := sink.Publish(ctx, snap)
		elapsed := time.Since(start)
		d.metrics.RecordSinkPush(sink.Name(), elapsed, err)
		if err != nil {
			logging.Warn(d.logger, "sink publish failed",
				logging.FieldSink, sink.Name(),
				"seq", snap.Seq,
				logging.FieldDurationMS, elapsed.Milliseconds(),
				"err", err,
			)
		}
	}
}
