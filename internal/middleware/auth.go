package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/jwt"
	"github.com/refbonus/refbonus-api/internal/pkg/logger"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
)

// Auth verifies the Bearer token and stores its actor on the request.
// The request logger gains a user_id field.
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(token)
			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				response.Unauthorized(w, "Token expired")
				return
			case err != nil:
				response.Unauthorized(w, "Invalid token")
				return
			}

			a := claims.Actor()
			l := logger.FromContext(r.Context()).With().
				Str("user_id", a.UserID.String()).
				Str("role", a.Role).
				Logger()
			ctx := logger.WithContext(actor.WithActor(r.Context(), a), &l)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor returns the authenticated caller, or the zero Actor
func GetActor(r *http.Request) actor.Actor {
	a, _ := actor.FromContext(r.Context())
	return a
}

// RequireAdmin answers 403 to any caller that is not an administrator.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := GetActor(r).RequireAdmin("access " + r.URL.Path); err != nil {
				errorhandler.HandleError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
