package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSHandler allows the admin and user frontends to call the API.
// Auth travels in the Authorization header, so credentials (cookies) are
// only allowed for an explicit origin list, never for "*".
func CORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
