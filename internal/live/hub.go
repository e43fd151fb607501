package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
)

// SinkName identifies the live sink in logs and metrics.
const SinkName = "live"

const defaultOutbox = 8

// Message is the envelope written to websocket clients.
type Message struct {
	Type     string           `json:"type"`
	Snapshot publish.Snapshot `json:"snapshot"`
}

type client struct {
	out chan []byte
}

// Hub fans snapshots out to connected websocket clients. Slow clients miss frames rather than
// holding up the others.
type Hub struct {
	logger     *slog.Logger
	outboxSize int

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	dropped int
}

// NewHub builds an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		outboxSize: defaultOutbox,
		clients:    make(map[*client]struct{}),
	}
}

func (h *Hub) Name() string { return SinkName }

// Publish encodes snap once and offers it to every client.
func (h *Hub) Publish(ctx context.Context, snap publish.Snapshot) error {
	_ = ctx
	payload, err := json.Marshal(Message{Type: "snapshot", Snapshot: snap})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = payload
	for c := range h.clients {
		select {
		case c.out <- payload:
		default:
			h.dropped++
			logging.Debug(h.logger, "live client lagging, frame dropped", "seq", snap.Seq)
		}
	}
	return nil
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped reports how many frames were skipped for lagging clients.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// subscribe registers a client whose outbox is primed with the latest snapshot.
func (h *Hub) subscribe() *client {
	c := &client{out: make(chan []byte, h.outboxSize)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest != nil {
		c.out <- h.latest
	}
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}
