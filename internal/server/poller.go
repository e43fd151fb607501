package server

import (
	"context"

	"github.com/preston-bernstein/scoreboard-gateway/internal/poller"
)

// Poller defines the minimal job runner behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
