package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type floorPlan interface {
	Floors() []int
	WingsFor(floor int) []string
}

type roomGrid interface {
	RoomGrid(floor int, wing string) []application.RoomStatus
	Selection() *application.Selection
}

// RoomHandler serves floor navigation and the room grid.
type RoomHandler struct {
	plan      floorPlan
	grid      roomGrid
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(plan floorPlan, grid roomGrid, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{plan: plan, grid: grid, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Floors(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.plan == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.plan.Floors())
}

func (h *RoomHandler) Wings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.plan == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	floor, err := strconv.Atoi(chi.URLParam(r, "floor"))
	if err != nil {
		h.log(r.Context(), "Wings", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid floor in path", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFloor)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.plan.WingsFor(floor))
}

// Grid lists rooms for ?floor=&wing=, falling back to the current selection.
func (h *RoomHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.grid == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	selection := h.grid.Selection().Snapshot()
	floor, wing := selection.Floor, selection.Wing

	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("floor")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.log(r.Context(), "Grid", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid floor query", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFloor)
			return
		}
		floor = parsed
	}
	if raw := strings.TrimSpace(query.Get("wing")); raw != "" {
		wing = strings.ToUpper(raw)
	}

	cells := h.grid.RoomGrid(floor, wing)
	resp := roomGridResponse{Floor: floor, Wing: wing, Rooms: make([]roomStatusDTO, 0, len(cells))}
	for _, cell := range cells {
		resp.Rooms = append(resp.Rooms, toRoomStatusDTO(cell))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type roomGridResponse struct {
	Floor int             `json:"floor"`
	Wing  string          `json:"wing"`
	Rooms []roomStatusDTO `json:"rooms"`
}

type roomStatusDTO struct {
	Room      catalog.Room `json:"room"`
	Available bool         `json:"available"`
	BookedBy  []string     `json:"bookedBy,omitempty"`
}

func toRoomStatusDTO(status application.RoomStatus) roomStatusDTO {
	return roomStatusDTO{Room: status.Room, Available: status.Available, BookedBy: status.BookedBy}
}
