package ledger

import "github.com/go-chi/chi/v5"

// Routes returns the caller's balance routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.MyBalance)
	return r
}

// AdminRoutes returns admin balance routes, mounted at /admin/balance
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{userID}/add", h.Add)
	r.Post("/{userID}/deduct", h.Deduct)
	return r
}

// AdminTransactionRoutes returns the transaction log, mounted at /admin/transactions
func (h *Handler) AdminTransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAll)
	return r
}
