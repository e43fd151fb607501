package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/scoreboard-gateway/internal/http/handlers"
)

// NewRouter registers the status API routes. live, when set, is mounted at /ws.
func NewRouter(handler *handlers.Handler, live nethttp.Handler) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Get("/state", handler.State)
	r.Get("/overrides", handler.GetOverrides)
	r.Put("/overrides", handler.PutOverrides)
	if live != nil {
		r.Get("/ws", live.ServeHTTP)
	}
	return r
}
