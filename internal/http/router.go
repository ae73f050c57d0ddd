package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Sessions    *SessionHandler
	Rooms       *RoomHandler
	Selection   *SelectionHandler
	Students    *StudentHandler
	Bookings    *BookingHandler
	Health      *HealthHandler
	Auth        SessionSource
	CORSOrigins []string
	Logger      *slog.Logger
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Get)
	}

	if cfg.Sessions != nil {
		r.Route("/session", func(r chi.Router) {
			r.Post("/", cfg.Sessions.Create)
			r.Get("/", cfg.Sessions.Get)
			r.Delete("/", cfg.Sessions.Delete)
		})
	}

	if cfg.Rooms != nil {
		r.Get("/floors", cfg.Rooms.Floors)
		r.Get("/floors/{floor}/wings", cfg.Rooms.Wings)
	}

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(RequireSession(cfg.Auth, cfg.Logger))
		}

		if cfg.Rooms != nil {
			r.Get("/rooms", cfg.Rooms.Grid)
		}
		if cfg.Selection != nil {
			r.Get("/selection", cfg.Selection.Get)
			r.Put("/selection", cfg.Selection.Update)
		}
		if cfg.Students != nil {
			r.Get("/students", cfg.Students.Search)
		}
		if cfg.Bookings != nil {
			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", cfg.Bookings.List)
				r.Post("/", cfg.Bookings.Create)
				r.Delete("/{id}", cfg.Bookings.Cancel)
			})
		}
	})

	return r
}
