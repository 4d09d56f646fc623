package errorhandler

import (
	"context"
	"net/http"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
	"github.com/refbonus/refbonus-api/internal/pkg/logger"
	"github.com/refbonus/refbonus-api/internal/pkg/response"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:            http.StatusUnprocessableEntity,
	apperr.KindDuplicate:             http.StatusConflict,
	apperr.KindNotFound:              http.StatusNotFound,
	apperr.KindAlreadyFinalized:      http.StatusConflict,
	apperr.KindReferrerLimitExceeded: http.StatusConflict,
	apperr.KindInsufficientBalance:   http.StatusUnprocessableEntity,
	apperr.KindUnauthorized:          http.StatusUnauthorized,
	apperr.KindForbidden:             http.StatusForbidden,
	apperr.KindInternal:              http.StatusInternalServerError,
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return statusByKind[apperr.KindOf(err)]
}

// HandleError classifies err and writes the matching error envelope.
// Internal errors are logged and never leak their message.
func HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := statusByKind[kind]

	l := logger.FromContext(ctx)
	if kind == apperr.KindInternal {
		l.Error().Err(err).Int("status_code", status).Msg("Request error")
		response.InternalError(w)
		return
	}

	l.Warn().Err(err).Str("error_code", string(kind)).Int("status_code", status).Msg("Request rejected")
	response.Error(w, status, string(kind), err.Error())
}

// HandleValidation logs field errors and writes a 422.
func HandleValidation(ctx context.Context, w http.ResponseWriter, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
	response.ValidationError(w, fieldErrors)
}
