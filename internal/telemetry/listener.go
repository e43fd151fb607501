package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
	"github.com/preston-bernstein/scoreboard-gateway/internal/metrics"
	"github.com/preston-bernstein/scoreboard-gateway/internal/protocol"
)

const (
	defaultReadSize = 1024

	acceptInitialBackoff = 50 * time.Millisecond
	acceptMaxBackoff     = 2 * time.Second
)

// Store is the slice of the match store the listener mutates.
type Store interface {
	Update(fn func(*match.MatchState) bool) bool
}

// Status describes the listener and its current connection.
type Status struct {
	Listening   bool      `json:"listening"`
	Addr        string    `json:"addr,omitempty"`
	Connected   bool      `json:"connected"`
	RemoteAddr  string    `json:"remoteAddr,omitempty"`
	ConnectedAt time.Time `json:"connectedAt,omitempty"`
	LastFrameAt time.Time `json:"lastFrameAt,omitempty"`
	Connections int       `json:"connections"`
	LastError   string    `json:"lastError,omitempty"`
}

// Listener accepts scoreboard connections one at a time and feeds their byte stream through
// the frame reader and decoder into the store.
type Listener struct {
	addr     string
	readSize int
	store    Store
	decoder  *protocol.Decoder
	logger   *slog.Logger
	metrics  *metrics.Recorder

	listen     func(network, address string) (net.Listener, error)
	newBackoff func() backoff.BackOff
	now        func() time.Time

	statusMu sync.RWMutex
	status   Status
	active   net.Conn
}

// NewListener builds a listener for addr. readSize <= 0 uses 1024 bytes.
func NewListener(addr string, readSize int, store Store, decoder *protocol.Decoder, logger *slog.Logger, recorder *metrics.Recorder) *Listener {
	if readSize <= 0 {
		readSize = defaultReadSize
	}
	return &Listener{
		addr:       addr,
		readSize:   readSize,
		store:      store,
		decoder:    decoder,
		logger:     logger,
		metrics:    recorder,
		listen:     net.Listen,
		newBackoff: acceptBackoff,
		now:        time.Now,
	}
}

func acceptBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = acceptInitialBackoff
	b.MaxInterval = acceptMaxBackoff
	b.MaxElapsedTime = 0
	return b
}

// Run listens and serves connections until ctx is cancelled. Accept errors are retried with
// exponential backoff; only a failure to bind is returned.
func (l *Listener) Run(ctx context.Context) error {
	ln, err := l.listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("telemetry listen %s: %w", l.addr, err)
	}
	defer ln.Close()

	l.setListening(ln.Addr().String(), true)
	defer l.setListening("", false)
	logging.Info(l.logger, "telemetry listening", logging.FieldAddr, ln.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
		l.closeActive()
	})
	defer stop()

	retry := l.newBackoff()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				logging.Info(l.logger, "telemetry stopped")
				return nil
			}
			l.recordError(err)
			wait := retry.NextBackOff()
			logging.Warn(l.logger, "telemetry accept failed",
				"err", err,
				logging.FieldDurationMS, wait.Milliseconds(),
			)
			if !sleepCtx(ctx, wait) {
				return nil
			}
			continue
		}
		retry.Reset()
		l.serve(ctx, conn)
	}
}

func (l *Listener) serve(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	l.setActive(conn, remote)
	defer l.clearActive()
	defer conn.Close()

	l.metrics.RecordConnection()
	logging.Info(l.logger, "scoreboard connected", logging.FieldRemoteAddr, remote)

	if ctx.Err() != nil {
		return
	}

	frames := protocol.NewFrameReader(func(mf *protocol.MalformedFrameError) {
		l.metrics.RecordFrame(string(mf.Reason))
		logging.Debug(l.logger, "frame discarded",
			logging.FieldReason, string(mf.Reason),
			logging.FieldFrameLen, len(mf.Frame),
		)
	})

	buf := make([]byte, l.readSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			for _, payload := range frames.Feed(buf[:n]) {
				l.handlePayload(payload)
			}
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), ctx.Err() != nil, errors.Is(err, net.ErrClosed):
				logging.Info(l.logger, "scoreboard disconnected", logging.FieldRemoteAddr, remote)
			default:
				l.recordError(err)
				logging.Warn(l.logger, "scoreboard read failed", logging.FieldRemoteAddr, remote, "err", err)
			}
			return
		}
	}
}

func (l *Listener) handlePayload(payload []byte) {
	l.metrics.RecordFrame("")
	l.touchFrame()

	id, _ := protocol.MessageID(payload)
	logging.Debug(l.logger, "frame received",
		logging.FieldMessageID, id,
		logging.FieldFrameLen, len(payload),
	)

	msg, ok := l.decoder.Decode(payload)
	if !ok {
		l.metrics.RecordMessage(id, false, false)
		return
	}

	var before, after match.MatchState
	changed := l.store.Update(func(m *match.MatchState) bool {
		before = *m
		applied := msg.Apply(m)
		after = *m
		return applied
	})
	l.metrics.RecordMessage(msg.ID(), true, changed)
	if changed {
		logEvents(l.logger, before, after)
	}
}

// logEvents reports score and foul changes between two states.
func logEvents(logger *slog.Logger, before, after match.MatchState) {
	for _, side := range []match.Side{match.SideHome, match.SideAway} {
		b, a := before.Team(side), after.Team(side)
		if a.Score != b.Score {
			logging.Info(logger, "score changed",
				logging.FieldSide, string(side),
				"delta", a.Score-b.Score,
				"score", a.Score,
			)
		}
	}
	if before.Home.Fouls != after.Home.Fouls || before.Away.Fouls != after.Away.Fouls {
		logging.Info(logger, "team fouls changed",
			"home", after.Home.Fouls,
			"away", after.Away.Fouls,
		)
	}
}

// Status returns a copy of the listener status.
func (l *Listener) Status() Status {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	return l.status
}

func (l *Listener) setListening(addr string, on bool) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.status.Listening = on
	l.status.Addr = addr
}

func (l *Listener) setActive(conn net.Conn, remote string) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.active = conn
	l.status.Connected = true
	l.status.RemoteAddr = remote
	l.status.ConnectedAt = l.now()
	l.status.Connections++
}

func (l *Listener) clearActive() {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.active = nil
	l.status.Connected = false
}

func (l *Listener) closeActive() {
	l.statusMu.RLock()
	conn := l.active
	l.statusMu.RUnlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (l *Listener) touchFrame() {
	l.statusMu.Lock()
	l.status.LastFrameAt = l.now()
	l.statusMu.Unlock()
}

func (l *Listener) recordError(err error) {
	l.statusMu.Lock()
	l.status.LastError = err.Error()
	l.statusMu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
