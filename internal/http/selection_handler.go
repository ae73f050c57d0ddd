package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/catalog"
)

type selectionService interface {
	Selection() *application.Selection
	UpdateSelection(change application.SelectionChange) (application.SelectionState, error)
}

// SelectionHandler reads and moves the floor, wing and room selection.
type SelectionHandler struct {
	service   selectionService
	responder responder
	logger    *slog.Logger
}

func NewSelectionHandler(service selectionService, logger *slog.Logger) *SelectionHandler {
	base := defaultLogger(logger)
	return &SelectionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SelectionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SelectionHandler", operation, attrs...)
}

func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSelectionDTO(h.service.Selection().Snapshot()))
}

// Update moves floor, wing and room together. A rejected update changes nothing.
func (h *SelectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode selection request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update")

	state, err := h.service.UpdateSelection(application.SelectionChange{
		Floor:     req.Floor,
		Wing:      req.Wing,
		RoomID:    req.RoomID,
		ClearRoom: req.ClearRoom,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "selection update rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "selection updated", "floor", state.Floor, "wing", state.Wing)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSelectionDTO(state))
}

type selectionRequest struct {
	Floor     *int    `json:"floor"`
	Wing      *string `json:"wing"`
	RoomID    *string `json:"roomId"`
	ClearRoom bool    `json:"clearRoom"`
}

type selectionDTO struct {
	Floor int           `json:"floor"`
	Wing  string        `json:"wing"`
	Room  *catalog.Room `json:"room"`
}

func toSelectionDTO(state application.SelectionState) selectionDTO {
	return selectionDTO{Floor: state.Floor, Wing: state.Wing, Room: state.Room}
}
