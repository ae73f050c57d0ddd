package http

import (
	"context"
	"log/slog"
	"net/http"
)

type counter interface {
	Len() int
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness together with the loaded reference data.
type HealthHandler struct {
	people    counter
	rooms     counter
	storage   Pinger
	responder responder
	logger    *slog.Logger
}

func NewHealthHandler(people, rooms counter, storage Pinger, logger *slog.Logger) *HealthHandler {
	base := defaultLogger(logger)
	return &HealthHandler{people: people, rooms: rooms, storage: storage, responder: newResponder(base), logger: base}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.people != nil {
		resp.DirectorySize = h.people.Len()
	}
	if h.rooms != nil {
		resp.Rooms = h.rooms.Len()
	}

	status := http.StatusOK
	if h.storage != nil {
		if err := h.storage.Ping(r.Context()); err != nil {
			handlerLogger(r.Context(), h.logger, "HealthHandler", "Get").ErrorContext(r.Context(), "storage unreachable", "error", err)
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	h.responder.writeJSON(r.Context(), w, status, resp)
}

type healthResponse struct {
	Status        string `json:"status"`
	DirectorySize int    `json:"directorySize"`
	Rooms         int    `json:"rooms"`
}
