package referral

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
)

// Handler handles referral HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates referral handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Mine handles GET /referrals/me
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetActor(r).UserID

	items, err := h.svc.ListByReferrer(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, &MyReferralsResponse{Items: items, Total: len(items)})
}

// List handles GET /admin/referrals
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := response.ParsePage(r, 50, 100)

	var status *Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := Status(s)
		status = &st
	}

	items, total, err := h.svc.ListAll(r.Context(), status, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Paginated(w, items, total, limit, offset)
}

// PendingCount handles GET /admin/referrals/pending/count
func (h *Handler) PendingCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.CountPending(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.OK(w, map[string]int{"count": n})
}

// Approve handles POST /admin/referrals/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid referral ID")
		return
	}

	ref, err := h.svc.Approve(r.Context(), middleware.GetActor(r), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.OK(w, ref)
}

// Reject handles POST /admin/referrals/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid referral ID")
		return
	}

	ref, err := h.svc.Reject(r.Context(), middleware.GetActor(r), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.OK(w, ref)
}
