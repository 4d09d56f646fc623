package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
	"github.com/refbonus/refbonus-api/internal/pkg/errorhandler"
	"github.com/refbonus/refbonus-api/internal/pkg/logger"
)

// Recover turns a handler panic into a 500 envelope. http.ErrAbortHandler is
// re-raised so net/http can abort the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContext(r.Context()).Error().
				Str("stack", string(debug.Stack())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("Panic recovered")

			errorhandler.HandleError(r.Context(), w, fmt.Errorf("%w: panic: %v", apperr.ErrInternal, rec))
		}()

		next.ServeHTTP(w, r)
	})
}
