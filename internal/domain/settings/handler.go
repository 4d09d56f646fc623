package settings

import (
	"encoding/json"
	"net/http"

	"github.com/refbonus/refbonus-api/internal/middleware"
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

// GetReward handles GET /settings/reward
func (h *Handler) GetReward(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.svc.GetCurrent(r.Context()))
}

// UpdateReward handles PUT /admin/settings/reward
func (h *Handler) UpdateReward(w http.ResponseWriter, r *http.Request) {
	var req UpdateRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	saved, err := h.svc.Update(r.Context(), middleware.GetActor(r), *req.RewardPerReferral)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, saved)
}
