package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
	"github.com/refbonus/refbonus-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	req.Phone = validator.NormalizePhone(req.Phone)
	req.ReferrerPhone = validator.NormalizePhone(req.ReferrerPhone)

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	u, err := h.service.Register(r.Context(), user.Registration{
		Name:          req.Name,
		Phone:         req.Phone,
		Password:      req.Password,
		ReferrerPhone: req.ReferrerPhone,
		ReferralLimit: req.ReferralLimit,
	})
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	result, err := h.service.Token(u)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.Created(w, result)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	result, err := h.service.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, result)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Me(r.Context(), middleware.GetActor(r).UserID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, user.ToResponse(u))
}

// ReferralLink handles GET /auth/referral-link/{id}
func (h *Handler) ReferralLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid referrer ID")
		return
	}

	link, err := h.service.ResolveReferralLink(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, link)
}
