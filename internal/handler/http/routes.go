package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init assembles the kvd router. Every request is traced and logged; the
// command endpoint additionally requires the shared bearer token.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Group(func(r chi.Router) {
		r.Get("/ping", h.ping)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/", h.command)
	})

	return router
}
