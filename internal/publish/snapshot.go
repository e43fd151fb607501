package publish

import (
	"context"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

// Snapshot is an immutable copy of the match as handed to sinks.
type Snapshot struct {
	Seq       uint64           `json:"seq"`
	At        time.Time        `json:"at"`
	Match     match.MatchState `json:"match"`
	Overrides match.Overrides  `json:"overrides"`
	Fields    match.Fields     `json:"fields"`
}

// NewSnapshot flattens state and overrides into a snapshot.
func NewSnapshot(seq uint64, at time.Time, state match.MatchState, ov match.Overrides) Snapshot {
	return Snapshot{
		Seq:       seq,
		At:        at,
		Match:     state,
		Overrides: ov,
		Fields:    match.Flatten(state, ov),
	}
}

// Sink receives published snapshots. Pending snapshots coalesce, so a sink may see gaps
// in Seq. Implementations must not retain Fields for mutation.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap Snapshot) error
}

// Publisher accepts snapshots without blocking.
type Publisher interface {
	Offer(snap Snapshot)
}
