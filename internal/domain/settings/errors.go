package settings

import (
	"fmt"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

var ErrNegativeReward = fmt.Errorf("%w: reward per referral must not be negative", apperr.ErrValidation)
