package handlers

import (
	"encoding/json"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/metrics"
	"github.com/preston-bernstein/scoreboard-gateway/internal/poller"
	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
	"github.com/preston-bernstein/scoreboard-gateway/internal/telemetry"
)

const maxOverridesBody = 4 << 10

// StateSource yields the snapshot currently held by the match store.
type StateSource interface {
	Snapshot() publish.Snapshot
}

// OverrideStore is the operator-facing override boundary.
type OverrideStore interface {
	Get() match.Overrides
	Set(match.Overrides) match.Overrides
}

// Deps collects what the status API reads from. Only State is required.
type Deps struct {
	State     StateSource
	Overrides OverrideStore
	// Republish pushes a fresh snapshot after overrides change.
	Republish func()
	Telemetry func() telemetry.Status
	Ready     func() poller.Status
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
}

// Handler serves the status API.
type Handler struct {
	state     StateSource
	overrides OverrideStore
	republish func()
	telemetry func() telemetry.Status
	readyFn   func() poller.Status
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewHandler constructs a Handler from deps.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		state:     deps.State,
		overrides: deps.Overrides,
		republish: deps.Republish,
		telemetry: deps.Telemetry,
		readyFn:   deps.Ready,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

type stateResponse struct {
	Snapshot  publish.Snapshot           `json:"snapshot"`
	Listener  *telemetry.Status          `json:"listener,omitempty"`
	Telemetry *metrics.TelemetrySnapshot `json:"telemetry,omitempty"`
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports 200 once the countdown job has run and the telemetry port is bound.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.telemetry != nil && !h.telemetry().Listening {
		writeError(w, r, nethttp.StatusServiceUnavailable, "telemetry listener not bound", h.logger)
		return
	}
	if h.readyFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.readyFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// State returns the current snapshot with listener status and telemetry counters.
func (h *Handler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.state == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "state unavailable", h.logger)
		return
	}
	resp := stateResponse{Snapshot: h.state.Snapshot()}
	if h.telemetry != nil {
		status := h.telemetry()
		resp.Listener = &status
	}
	if h.metrics != nil {
		counters := h.metrics.Telemetry()
		resp.Telemetry = &counters
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// GetOverrides returns the active overrides.
func (h *Handler) GetOverrides(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.overrides == nil {
		writeError(w, r, nethttp.StatusNotFound, "overrides disabled", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, h.overrides.Get(), h.logger)
}

// PutOverrides replaces the overrides and republishes the snapshot so sinks pick them up.
func (h *Handler) PutOverrides(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.overrides == nil {
		writeError(w, r, nethttp.StatusNotFound, "overrides disabled", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)

	var ov match.Overrides
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxOverridesBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ov); err != nil {
		if logger != nil {
			logger.Warn("invalid overrides body", "err", err)
		}
		writeError(w, r, nethttp.StatusBadRequest, "invalid overrides body", h.logger)
		return
	}

	stored := h.overrides.Set(ov)
	if h.republish != nil {
		h.republish()
	}
	if logger != nil {
		logger.Info("overrides updated",
			slog.String("home_name", stored.HomeName),
			slog.String("away_name", stored.AwayName),
			slog.Bool("force_team_names", stored.ForceTeamNames),
		)
	}
	writeJSON(w, nethttp.StatusOK, stored, h.logger)
}

// NotFound renders unknown routes as a JSON error.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed renders unsupported methods as a JSON error.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
