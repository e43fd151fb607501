package diagnostics

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/metrics"
)

// JobName identifies the dump job in logs and metrics.
const JobName = "diagnostics"

// StateReader returns the current match state.
type StateReader interface {
	State() match.MatchState
}

// Dump periodically logs the whole match state along with telemetry counters.
type Dump struct {
	state   StateReader
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func NewDump(state StateReader, logger *slog.Logger, recorder *metrics.Recorder) *Dump {
	return &Dump{state: state, logger: logger, metrics: recorder}
}

func (d *Dump) Name() string { return JobName }

// Run writes one state line. It never fails.
func (d *Dump) Run(ctx context.Context) error {
	if d.logger == nil {
		return nil
	}
	m := d.state.State()
	tel := d.metrics.Telemetry()
	d.logger.LogAttrs(ctx, slog.LevelInfo, "match state",
		slog.String("clock", m.ClockText),
		slog.Int("period", m.Period),
		slog.Int("shot", m.ShotClock),
		slog.Bool("clock_running", m.ClockRunning),
		slog.Bool("shot_running", m.ShotRunning),
		teamGroup("home", m.Home),
		teamGroup("away", m.Away),
		slog.Int("frames", tel.Frames),
		slog.Int("connections", tel.Connections),
	)
	return nil
}

func teamGroup(key string, t match.TeamState) slog.Attr {
	return slog.Group(key,
		slog.String("name", t.Name),
		slog.Int("score", t.Score),
		slog.Int("fouls", t.Fouls),
		slog.Int("timeouts", t.Timeouts),
	)
}
