package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/roombook/internal/directory"
)

type studentSearch interface {
	Search(query string, exclude []string, limit int) []directory.Person
}

// StudentHandler searches the directory when picking attendees.
type StudentHandler struct {
	search    studentSearch
	responder responder
}

func NewStudentHandler(search studentSearch, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{search: search, responder: newResponder(defaultLogger(logger))}
}

// Search answers ?q=&exclude=R1,R2&limit=. The signed-in student is always excluded.
func (h *StudentHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.search == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	var exclude []string
	for _, raw := range query["exclude"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				exclude = append(exclude, id)
			}
		}
	}
	if session, ok := SessionFromContext(r.Context()); ok {
		exclude = append(exclude, session.Identity)
	}

	limit, _ := strconv.Atoi(query.Get("limit"))

	people := h.search.Search(query.Get("q"), exclude, limit)
	results := make([]studentDTO, 0, len(people))
	for _, person := range people {
		results = append(results, studentDTO{RollNumber: person.Identity, Name: person.DisplayName})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, results)
}

type studentDTO struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}
