package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/worklog/internal/sse"
	"github.com/example/worklog/internal/worklog"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, receives worklog.created/worklog.moved broadcasts from
// the mutating endpoints. sseHandler, if non-nil, is mounted at GET /events
// inside the auth group.
func NewRouter(svc *worklog.Service, events *sse.Broker, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Boards (read-only dashboard input).
	r.Get("/boards", h.GetBoards)
	r.Get("/boards/{board}", h.GetBoard)

	// Worklog operations.
	r.Post("/worklogs", h.CreateWorklog)
	r.Get("/worklogs/{id}", h.GetWorklog)
	r.Post("/worklogs/{id}/move", h.MoveWorklog)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
