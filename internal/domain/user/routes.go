package user

import (
	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns admin user routes; the caller mounts them behind admin auth
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
	})

	return r
}
