package ledger

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
	"github.com/refbonus/refbonus-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MyBalance handles GET /balance/me
func (h *Handler) MyBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetActor(r).UserID

	history, err := h.svc.History(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, &BalanceResponse{
		UserID:       userID,
		Balance:      h.svc.GetBalance(r.Context(), userID),
		Transactions: history,
	})
}

// ListAll handles GET /admin/transactions
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := response.ParsePage(r, 50, 200)

	items, total, err := h.svc.ListAll(r.Context(), middleware.GetActor(r), limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Paginated(w, items, total, limit, offset)
}

// Add handles POST /admin/balance/{userID}/add
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.svc.AdminAdd)
}

// Deduct handles POST /admin/balance/{userID}/deduct
func (h *Handler) Deduct(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.svc.AdminDeduct)
}

type adjustFunc func(ctx context.Context, a actor.Actor, userID uuid.UUID, amount int64, description string) (*Transaction, error)

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, fn adjustFunc) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	t, err := fn(r.Context(), middleware.GetActor(r), userID, req.Amount, req.Description)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"transaction": t,
		"balance":     h.svc.GetBalance(r.Context(), userID),
	})
}
