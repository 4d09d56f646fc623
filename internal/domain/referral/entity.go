package referral

import (
	"time"

	"github.com/google/uuid"
)

// Status of a referral. pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether s may move to next.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

// Referral links a referrer to a user they brought in (matches referrals table).
// RewardAmount is captured at creation and never recomputed.
type Referral struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ReferrerID   uuid.UUID  `db:"referrer_id" json:"referrer_id"`
	ReferralID   uuid.UUID  `db:"referral_id" json:"referral_id"`
	RewardAmount int64      `db:"reward_amount" json:"reward_amount"`
	Status       Status     `db:"status" json:"status"`
	ApprovedAt   *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy   *uuid.UUID `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// View is a referral joined with both users' names and phones
type View struct {
	Referral
	ReferrerName  string `db:"referrer_name" json:"referrer_name"`
	ReferrerPhone string `db:"referrer_phone" json:"referrer_phone"`
	ReferralName  string `db:"referral_name" json:"referral_name"`
	ReferralPhone string `db:"referral_phone" json:"referral_phone"`
}
