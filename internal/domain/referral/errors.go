package referral

import (
	"fmt"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

var (
	ErrReferralNotFound = fmt.Errorf("%w: referral not found", apperr.ErrNotFound)
	ErrDuplicate        = fmt.Errorf("%w: referral already exists for this pair", apperr.ErrDuplicate)
	ErrAlreadyFinalized = fmt.Errorf("%w: referral is not pending", apperr.ErrAlreadyFinalized)
	ErrSelfReferral     = fmt.Errorf("%w: user cannot refer themselves", apperr.ErrValidation)
	ErrNegativeReward   = fmt.Errorf("%w: reward amount must not be negative", apperr.ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: unknown referral status", apperr.ErrValidation)
	ErrApproverGone     = fmt.Errorf("%w: acting account is no longer an administrator", apperr.ErrForbidden)
)
