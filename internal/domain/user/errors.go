package user

import (
	"fmt"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

var (
	ErrUserNotFound         = fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	ErrPhoneTaken           = fmt.Errorf("%w: phone already registered", apperr.ErrDuplicate)
	ErrReferralLimitReached = fmt.Errorf("%w: referrer has reached the referral limit", apperr.ErrReferrerLimitExceeded)
	ErrInvalidName          = fmt.Errorf("%w: name must be between 2 and 100 characters", apperr.ErrValidation)
	ErrInvalidPhone         = fmt.Errorf("%w: invalid phone number", apperr.ErrValidation)
	ErrInvalidLimit         = fmt.Errorf("%w: referral limit must be between 1 and 10", apperr.ErrValidation)
	ErrLimitBelowCount      = fmt.Errorf("%w: referral limit cannot be below the current referral count", apperr.ErrValidation)
	ErrReferrerNotFound     = fmt.Errorf("%w: referrer not found", apperr.ErrValidation)
	ErrSelfReferrer         = fmt.Errorf("%w: user cannot be their own referrer", apperr.ErrValidation)
	ErrDeleteSelf           = fmt.Errorf("%w: administrators cannot delete their own account", apperr.ErrValidation)
)
