package referral

import "github.com/go-chi/chi/v5"

// Routes returns authenticated referral routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.Mine)
	return r
}

// AdminRoutes returns admin referral routes
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/pending/count", h.PendingCount)

	r.Route("/{id}", func(r chi.Router) {
		r.Post("/approve", h.Approve)
		r.Post("/reject", h.Reject)
	})

	return r
}
