package statement

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/middleware"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
)

// Handler handles statement export requests
type Handler struct {
	svc *Service
}

// NewHandler creates statement handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Mine handles POST /statements/me
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	a := middleware.GetActor(r)
	h.generate(w, r, a.UserID)
}

// ForUser handles POST /admin/statements/{userID}
func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}
	h.generate(w, r, userID)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	st, err := h.svc.Generate(r.Context(), middleware.GetActor(r), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.Created(w, st)
}

// Files serves locally stored statements to their owner or an admin.
// Mount it at a pattern carrying {userID} followed by a wildcard file name.
// files must be rooted at the storage base path; the request path is rebuilt
// from the parsed owner and file name before it reaches files.
func (h *Handler) Files(files http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			response.NotFound(w, "File not found")
			return
		}
		name, ok := statementFileName(chi.URLParam(r, "*"))
		if !ok {
			response.NotFound(w, "File not found")
			return
		}
		a := middleware.GetActor(r)
		if a.UserID != userID {
			if err := a.RequireAdmin("download another user's statement"); err != nil {
				errorhandler.HandleError(r.Context(), w, err)
				return
			}
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + keyPrefix + "/" + userID.String() + "/" + name
		r2.URL.RawPath = ""
		files.ServeHTTP(w, r2)
	}
}

// statementFileName accepts a single exported file name and nothing else.
func statementFileName(raw string) (string, bool) {
	if raw == "" || strings.ContainsAny(raw, "/\\") || strings.Contains(raw, "..") {
		return "", false
	}
	name := path.Clean(raw)
	if name != raw || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	return name, true
}

// Routes returns authenticated statement routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/me", h.Mine)
	return r
}

// AdminRoutes returns admin statement routes
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{userID}", h.ForUser)
	return r
}
