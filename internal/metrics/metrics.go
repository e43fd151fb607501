package metrics

import (
	"sync"
	"time"
)

type sinkStats struct {
	pushes      int
	errors      int
	lastLatency time.Duration
}

type telemetryStats struct {
	connections int
	frames      int
	discarded   map[string]int
	messages    map[int]int
	changes     map[int]int
	ignored     int
	ticks       int
	tickChanges int
	coalesced   int
}

// Recorder captures lightweight, in-memory metrics about the gateway and mirrors them
// to OpenTelemetry instruments when configured.
type Recorder struct {
	mu        sync.Mutex
	sinks     map[string]*sinkStats
	telemetry telemetryStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		sinks: make(map[string]*sinkStats),
		telemetry: telemetryStats{
			discarded: make(map[string]int),
			messages:  make(map[int]int),
			changes:   make(map[int]int),
		},
		otel: otel,
	}
}

// RecordConnection counts an accepted scoreboard connection.
func (r *Recorder) RecordConnection() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.telemetry.connections++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordConnection()
	}
}

// RecordFrame counts a delimited frame; reason is empty for accepted frames.
func (r *Recorder) RecordFrame(reason string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if reason == "" {
		r.telemetry.frames++
	} else {
		r.telemetry.discarded[reason]++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFrame(reason)
	}
}

// RecordMessage counts a decoded message and whether it changed match state.
// known is false for ignored ids or undersized payloads.
func (r *Recorder) RecordMessage(id int, known, changed bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if !known {
		r.telemetry.ignored++
	} else {
		r.telemetry.messages[id]++
		if changed {
			r.telemetry.changes[id]++
		}
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordMessage(id, known, changed)
	}
}

// RecordTick counts a countdown tick and whether it changed a displayed value.
func (r *Recorder) RecordTick(changed bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.telemetry.ticks++
	if changed {
		r.telemetry.tickChanges++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordTick(changed)
	}
}

// RecordCoalesced counts a snapshot replaced before any sink saw it.
func (r *Recorder) RecordCoalesced() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.telemetry.coalesced++
	r.mu.Unlock()
}

// RecordSinkPush tracks one snapshot delivery to a sink.
func (r *Recorder) RecordSinkPush(sink string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.sinks[sink]
	if !ok {
		stats = &sinkStats{}
		r.sinks[sink] = stats
	}
	stats.pushes++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSinkPush(sink, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordJobRun tracks periodic job runs and errors.
func (r *Recorder) RecordJobRun(job string, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordJob(job, duration, err)
}

// SinkSnapshot is a copy of one sink's delivery stats.
type SinkSnapshot struct {
	Pushes      int
	Errors      int
	LastLatency time.Duration
}

// Sink returns the delivery stats recorded for a sink.
func (r *Recorder) Sink(sink string) SinkSnapshot {
	if r == nil {
		return SinkSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.sinks[sink]
	if !ok || stats == nil {
		return SinkSnapshot{}
	}
	return SinkSnapshot{Pushes: stats.pushes, Errors: stats.errors, LastLatency: stats.lastLatency}
}

// TelemetrySnapshot is a copy of the telemetry counters.
type TelemetrySnapshot struct {
	Connections int            `json:"connections"`
	Frames      int            `json:"frames"`
	Discarded   map[string]int `json:"discarded"`
	Messages    map[int]int    `json:"messages"`
	Changes     map[int]int    `json:"changes"`
	Ignored     int            `json:"ignored"`
	Ticks       int            `json:"ticks"`
	TickChanges int            `json:"tickChanges"`
	Coalesced   int            `json:"coalesced"`
}

// Telemetry returns a copy of the telemetry counters.
func (r *Recorder) Telemetry() TelemetrySnapshot {
	if r == nil {
		return TelemetrySnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.telemetry
	return TelemetrySnapshot{
		Connections: t.connections,
		Frames:      t.frames,
		Discarded:   copyMap(t.discarded),
		Messages:    copyMap(t.messages),
		Changes:     copyMap(t.changes),
		Ignored:     t.ignored,
		Ticks:       t.ticks,
		TickChanges: t.tickChanges,
		Coalesced:   t.coalesced,
	}
}

func copyMap[K comparable](in map[K]int) map[K]int {
	out := make(map[K]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
