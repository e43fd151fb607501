package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/scoreboard-gateway/internal/app/countdown"
	"github.com/preston-bernstein/scoreboard-gateway/internal/app/diagnostics"
	"github.com/preston-bernstein/scoreboard-gateway/internal/config"
	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	httpserver "github.com/preston-bernstein/scoreboard-gateway/internal/http"
	"github.com/preston-bernstein/scoreboard-gateway/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-gateway/internal/http/middleware"
	"github.com/preston-bernstein/scoreboard-gateway/internal/live"
	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
	"github.com/preston-bernstein/scoreboard-gateway/internal/metrics"
	"github.com/preston-bernstein/scoreboard-gateway/internal/poller"
	"github.com/preston-bernstein/scoreboard-gateway/internal/protocol"
	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
	"github.com/preston-bernstein/scoreboard-gateway/internal/store"
	"github.com/preston-bernstein/scoreboard-gateway/internal/telemetry"
	"github.com/preston-bernstein/scoreboard-gateway/internal/vmix"
)

var metricsSetup = metrics.Setup

// telemetryRunner is the listener surface the server drives.
type telemetryRunner interface {
	Run(ctx context.Context) error
	Status() telemetry.Status
}

// foulResetter clears the foul images before the first publish.
type foulResetter interface {
	ResetFouls(ctx context.Context) error
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	matches       *store.MatchStore
	overrides     *store.OverrideStore
	dispatcher    *publish.Dispatcher
	mixer         foulResetter
	hub           *live.Hub
	listener      telemetryRunner
	httpServer    httpServer
	metricsServer httpServer
	countdown     Poller
	diagnostics   Poller
	metricsStop   func(context.Context) error
	listenerDone  chan struct{}
}

// New constructs a gateway with the configured sinks, listener and jobs.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithMetrics(cfg, logger, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	overrides := store.NewOverrideStore(loadOverrides(cfg.OverridesFile, logger))
	hub := live.NewHub(logger)

	var mixer *vmix.Client
	sinks := []publish.Sink{hub}
	if cfg.VMix.Enabled {
		mixer = buildMixer(cfg.VMix, logger)
		sinks = append([]publish.Sink{mixer}, sinks...)
	}
	dispatcher := publish.NewDispatcher(logger, recorder, sinks...)
	matches := store.NewMatchStore(overrides, dispatcher)

	decoder := protocol.NewDecoder(buildNameDecoder(cfg.NameCharset, logger))
	listener := telemetry.NewListener(cfg.Telemetry.Addr(), cfg.Telemetry.ReadSize, matches, decoder, logger, recorder)

	countdownPoller := poller.New(countdown.NewTicker(matches, recorder), logger, recorder, cfg.TickInterval)
	diagnosticsPoller := poller.New(diagnostics.NewDump(matches, logger, recorder), logger, recorder, cfg.DumpInterval)

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		matches:       matches,
		overrides:     overrides,
		dispatcher:    dispatcher,
		hub:           hub,
		listener:      listener,
		metricsServer: metricsSrv,
		countdown:     countdownPoller,
		diagnostics:   diagnosticsPoller,
		metricsStop:   metricsShutdown,
	}
	// mixer stays a nil interface when vMix is disabled.
	if mixer != nil {
		srv.mixer = mixer
	}
	srv.httpServer = buildHTTPServer(cfg, srv, logger, recorder)
	return srv
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, listener telemetryRunner, countdown, diagnostics Poller) *Server {
	overrides := store.NewOverrideStore(match.Overrides{})
	return &Server{
		cfg:         cfg,
		logger:      logger,
		overrides:   overrides,
		matches:     store.NewMatchStore(overrides, nil),
		httpServer:  httpSrv,
		listener:    listener,
		countdown:   countdown,
		diagnostics: diagnostics,
	}
}

func buildMixer(cfg config.VMixConfig, logger *slog.Logger) *vmix.Client {
	return vmix.NewClient(vmix.Config{
		Host:    cfg.Host,
		Port:    cfg.Port,
		Input:   cfg.Input,
		Timeout: cfg.Timeout,
		Fields:  cfg.Fields,
		Fouls: vmix.FoulImages{
			BasePath:         cfg.Fouls.BasePath,
			HomeSelectedName: cfg.Fouls.HomeSelectedName,
			AwaySelectedName: cfg.Fouls.AwaySelectedName,
			HomeFiles:        cfg.Fouls.HomeFiles,
			AwayFiles:        cfg.Fouls.AwayFiles,
		},
		Logger: logger,
	})
}

func buildNameDecoder(charset string, logger *slog.Logger) protocol.NameDecoder {
	names, err := protocol.NewNameDecoder(charset)
	if err != nil {
		logging.Warn(logger, "unknown name charset, falling back to utf-8", "charset", charset, "err", err)
	}
	return names
}

func loadOverrides(path string, logger *slog.Logger) match.Overrides {
	if path == "" {
		return match.Overrides{}
	}
	ov, err := store.LoadOverridesFile(path)
	if err != nil {
		logging.Warn(logger, "overrides file ignored", "path", path, "err", err)
		return match.Overrides{}
	}
	logging.Info(logger, "overrides loaded", "path", path, "force_team_names", ov.ForceTeamNames)
	return ov
}

func buildHTTPServer(cfg config.Config, s *Server, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	deps := handlers.Deps{
		State:     s.matches,
		Overrides: s.overrides,
		Republish: s.matches.Republish,
		Metrics:   recorder,
		Logger:    logger,
	}
	if s.listener != nil {
		deps.Telemetry = s.listener.Status
	}
	if s.countdown != nil {
		deps.Ready = s.countdown.Status
	}

	var ws http.Handler
	if s.hub != nil {
		ws = live.Handler(s.hub)
	}
	router := httpserver.NewRouter(handlers.NewHandler(deps), ws)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	// Only header and idle limits; websocket streams outlive any body or write deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: readTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the sinks, the telemetry listener, the jobs and the HTTP servers, then waits for
// context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.resetFouls(ctx)
	s.dispatcher.Start(ctx)
	s.matches.Republish()
	s.startListener(ctx, stop)
	s.startServer(stop)
	s.countdown.Start(ctx)
	s.diagnostics.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) resetFouls(ctx context.Context) {
	if s.mixer == nil {
		return
	}
	if err := s.mixer.ResetFouls(ctx); err != nil {
		logging.Warn(s.logger, "initial foul reset failed", "err", err)
	}
}

func (s *Server) startListener(ctx context.Context, stop context.CancelFunc) {
	if s.listener == nil {
		return
	}
	done := make(chan struct{})
	s.listenerDone = done
	go func() {
		defer close(done)
		if err := s.listener.Run(ctx); err != nil {
			logging.Error(s.logger, "telemetry listener failed", err)
			if stop != nil {
				stop()
			}
		}
	}()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String(logging.FieldAddr, s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String(logging.FieldAddr, s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	for _, p := range []Poller{s.countdown, s.diagnostics} {
		if p == nil {
			continue
		}
		if err := p.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop poller", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.listenerDone != nil {
		select {
		case <-s.listenerDone:
		case <-shutdownCtx.Done():
			logging.Warn(s.logger, "telemetry listener did not stop in time")
		}
	}

	if err := s.dispatcher.Stop(shutdownCtx); err != nil {
		logging.Warn(s.logger, "dispatcher stop failed", "error", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
