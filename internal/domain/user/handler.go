package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
	"github.com/refbonus/refbonus-api/internal/pkg/validator"
)

// Handler handles admin user HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates user handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /admin/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := response.ParsePage(r, 50, 100)
	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		Role:   Role(r.URL.Query().Get("role")),
		Limit:  limit,
		Offset: offset,
	}

	users, total, err := h.svc.List(r.Context(), middleware.GetActor(r), filter)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]*Response, len(users))
	for i, u := range users {
		items[i] = ToResponse(u)
	}
	response.Paginated(w, items, total, limit, offset)
}

// Create handles POST /admin/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
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

	u, err := h.svc.Create(r.Context(), middleware.GetActor(r), Registration{
		Name:          req.Name,
		Phone:         req.Phone,
		Password:      req.Password,
		ReferrerPhone: req.ReferrerPhone,
		ReferralLimit: req.ReferralLimit,
		Role:          Role(req.Role),
	})
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Created(w, ToResponse(u))
}

// Get handles GET /admin/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.svc.Get(r.Context(), middleware.GetActor(r), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, ToResponse(u))
}

// Update handles PATCH /admin/users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.HandleValidation(r.Context(), w, errs)
		return
	}

	u, err := h.svc.Update(r.Context(), middleware.GetActor(r), id, UpdateInput{
		Name:          req.Name,
		ReferrerPhone: req.ReferrerPhone,
		ReferralLimit: req.ReferralLimit,
	})
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, ToResponse(u))
}

// Delete handles DELETE /admin/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.svc.Delete(r.Context(), middleware.GetActor(r), id); err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.NoContent(w)
}
