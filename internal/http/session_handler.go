package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/roombook/internal/application"
)

type sessionService interface {
	Authenticate(ctx context.Context, identity, secret string) (application.Session, error)
	Current() (application.Session, bool)
	End(ctx context.Context) error
}

type selectionResetter interface {
	Reset()
}

// SessionHandler signs students in and out.
type SessionHandler struct {
	service   sessionService
	selection selectionResetter
	responder responder
	logger    *slog.Logger
}

// NewSessionHandler builds the handler. selection may be nil; when set it is
// returned to its defaults on sign-out.
func NewSessionHandler(service sessionService, selection selectionResetter, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, selection: selection, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode sign-in request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	identity := strings.TrimSpace(req.RollNumber)
	logger := h.log(r.Context(), "Create", "roll_number", identity)

	session, err := h.service.Authenticate(r.Context(), identity, req.Secret)
	if err != nil {
		logger.ErrorContext(r.Context(), "sign-in rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student signed in")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSessionDTO(session))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	session, ok := h.service.Current()
	if !ok {
		h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
			ErrorCode: codeSessionRequired,
			Message:   errSessionRequired.Error(),
		})
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSessionDTO(session))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Delete")
	if err := h.service.End(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "sign-out failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if h.selection != nil {
		h.selection.Reset()
	}

	logger.InfoContext(r.Context(), "student signed out")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type signInRequest struct {
	RollNumber string `json:"rollNumber"`
	Secret     string `json:"secret"`
}

type sessionDTO struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

func toSessionDTO(session application.Session) sessionDTO {
	return sessionDTO{RollNumber: session.Identity, Name: session.DisplayName}
}
