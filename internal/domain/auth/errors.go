package auth

import (
	"fmt"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

var (
	ErrInvalidCredentials   = fmt.Errorf("%w: invalid phone or password", apperr.ErrUnauthorized)
	ErrInvalidPassword      = fmt.Errorf("%w: password must be at least 6 characters", apperr.ErrValidation)
	ErrInvalidRole          = fmt.Errorf("%w: role must be 'admin' or 'user'", apperr.ErrValidation)
	ErrInvalidReferrerPhone = fmt.Errorf("%w: invalid referrer phone number", apperr.ErrValidation)
)
