package live

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the request to a websocket and streams snapshots until the client leaves.
// Clients are read-only; a data message from the client closes the connection.
func Handler(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logging.Warn(h.logger, "websocket accept failed", logging.FieldRemoteAddr, r.RemoteAddr, "err", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		c := h.subscribe()
		defer h.unsubscribe(c)
		logging.Info(h.logger, "live client connected", logging.FieldRemoteAddr, r.RemoteAddr)

		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				logging.Info(h.logger, "live client disconnected", logging.FieldRemoteAddr, r.RemoteAddr)
				return
			case payload := <-c.out:
				if err := write(ctx, conn, payload); err != nil {
					logging.Debug(h.logger, "live write failed", logging.FieldRemoteAddr, r.RemoteAddr, "err", err)
					return
				}
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
