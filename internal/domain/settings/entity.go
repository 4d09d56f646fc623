package settings

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRewardPerReferral applies until an admin saves settings.
const DefaultRewardPerReferral int64 = 10000

// singletonID is the only row reward_settings may hold.
const singletonID = 1

// RewardSettings is the current per-referral reward (matches reward_settings table)
type RewardSettings struct {
	ID                int        `db:"id" json:"-"`
	RewardPerReferral int64      `db:"reward_per_referral" json:"reward_per_referral"`
	UpdatedBy         *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// IsDefault reports whether s was never saved by an admin.
func (s RewardSettings) IsDefault() bool {
	return s.UpdatedAt == nil
}
