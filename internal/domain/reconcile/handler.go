package reconcile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Run handles GET /admin/reconcile
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Audit(r.Context(), middleware.GetActor(r))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.OK(w, report)
}

func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Run)
	return r
}
