package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/catalog"
	"github.com/go-chi/chi/v5"
)

type bookingService interface {
	Book(ctx context.Context, params application.BookParams) (application.Booking, error)
	BookingsFor(session application.Session) []application.BookingView
	Cancel(ctx context.Context, session application.Session, bookingID string) error
}

// BookingHandler lists, creates and cancels the signed-in student's bookings.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	session, _ := SessionFromContext(r.Context())
	views := h.service.BookingsFor(session)
	resp := make([]bookingViewDTO, 0, len(views))
	for _, view := range views {
		resp = append(resp, bookingViewDTO{bookingDTO: toBookingDTO(view.Booking), Room: view.Room})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	session, _ := SessionFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "roll_number", session.Identity, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "roll_number", session.Identity, "room_id", req.RoomID)

	booking, err := h.service.Book(r.Context(), application.BookParams{
		Session:            session,
		RoomID:             req.RoomID,
		AttendeeIdentities: req.Attendees,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(booking))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.log(r.Context(), "Cancel", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for cancel")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	session, _ := SessionFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "roll_number", session.Identity, "booking_id", id)

	if err := h.service.Cancel(r.Context(), session, id); err != nil {
		logger.ErrorContext(r.Context(), "cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type bookingRequest struct {
	RoomID    string   `json:"roomId"`
	Attendees []string `json:"attendees"`
}

type bookingDTO struct {
	ID            string   `json:"id"`
	RoomID        string   `json:"roomId"`
	AttendeeNames []string `json:"attendeeNames"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"createdAt"`
}

type bookingViewDTO struct {
	bookingDTO
	Room catalog.Room `json:"room"`
}

func toBookingDTO(b application.Booking) bookingDTO {
	return bookingDTO{
		ID:            b.ID,
		RoomID:        b.RoomID,
		AttendeeNames: b.AttendeeNames,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
