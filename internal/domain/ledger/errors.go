package ledger

import (
	"fmt"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

var (
	ErrInvalidAmount           = fmt.Errorf("%w: amount must be greater than 0", apperr.ErrValidation)
	ErrInvalidType             = fmt.Errorf("%w: unsupported transaction type", apperr.ErrValidation)
	ErrBalanceOverflow         = fmt.Errorf("%w: amount exceeds the maximum balance", apperr.ErrValidation)
	ErrInsufficientBalance     = fmt.Errorf("%w: amount exceeds the current balance", apperr.ErrInsufficientBalance)
	ErrReferralAlreadyCredited = fmt.Errorf("%w: referral reward already credited", apperr.ErrDuplicate)
)
