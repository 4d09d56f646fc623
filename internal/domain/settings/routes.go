package settings

import "github.com/go-chi/chi/v5"

// Routes returns authenticated settings routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/reward", h.GetReward)
	return r
}

// AdminRoutes returns admin settings routes
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Put("/reward", h.UpdateReward)
	return r
}
