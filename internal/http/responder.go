package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/roombook/internal/application"
)

var (
	errBadRequestBody   = errors.New("request body is not valid JSON")
	errInvalidFloor     = errors.New("floor must be an integer")
	errInvalidBookingID = errors.New("booking id is required")
	errSessionRequired  = errors.New("sign in to continue")
)

// Error codes surfaced to clients alongside the message.
const (
	codeInvalidCredentials    = "AUTH_INVALID_CREDENTIALS"
	codeSessionRequired       = "AUTH_SESSION_REQUIRED"
	codeForbidden             = "AUTH_FORBIDDEN"
	codeRoomUnavailable       = "ROOM_UNAVAILABLE"
	codeAttendeeAlreadyBooked = "ATTENDEE_ALREADY_BOOKED"
	codeAttendeeCountInvalid  = "ATTENDEE_COUNT_INVALID"
	codeValidation            = "VALIDATION_FAILED"
	codeNotFound              = "NOT_FOUND"
	codeLedgerUnavailable     = "LEDGER_UNAVAILABLE"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var booked *application.AttendeeAlreadyBookedError
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: codeInvalidCredentials,
			Message:   "Invalid roll number or secret code",
		})
	case errors.Is(err, application.ErrUnauthorized):
		if _, ok := SessionFromContext(ctx); ok {
			r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
				ErrorCode: codeForbidden,
				Message:   "You are not allowed to perform this action.",
			})
			return
		}
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: codeSessionRequired,
			Message:   errSessionRequired.Error(),
		})
	case errors.As(err, &booked):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: codeAttendeeAlreadyBooked,
			Message:   booked.Error(),
		})
	case errors.Is(err, application.ErrRoomUnavailable):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: codeRoomUnavailable,
			Message:   "This room is already booked.",
		})
	case errors.Is(err, application.ErrAttendeeCountInvalid):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: codeAttendeeCountInvalid,
			Message:   "Exactly 4 students are required for booking.",
		})
	case errors.Is(err, application.ErrLedgerUnavailable):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{
			ErrorCode: codeLedgerUnavailable,
			Message:   "Bookings could not be read from storage. Try again later.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: codeNotFound,
			Message:   statusMessage(http.StatusNotFound),
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: codeValidation,
				Message:   statusMessage(http.StatusUnprocessableEntity),
				Errors:    vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request could not be understood."
	case http.StatusUnauthorized:
		return errSessionRequired.Error()
	case http.StatusForbidden:
		return "You are not allowed to perform this action."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "The request conflicts with the current bookings."
	case http.StatusUnprocessableEntity:
		return "Some fields are invalid."
	default:
		return "Something went wrong. Please try again."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
