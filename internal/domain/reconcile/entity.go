package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// BalanceDrift is a user whose cached balance differs from their transactions
type BalanceDrift struct {
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	Phone           string    `db:"phone" json:"phone"`
	RewardBalance   int64     `db:"reward_balance" json:"reward_balance"`
	TransactionsSum int64     `db:"transactions_sum" json:"transactions_sum"`
}

// CreditMismatch is a referral whose credit count is not what its status implies:
// one for an approved referral with a positive reward, zero otherwise.
type CreditMismatch struct {
	ReferralID   uuid.UUID `db:"referral_id" json:"referral_id"`
	ReferrerID   uuid.UUID `db:"referrer_id" json:"referrer_id"`
	Status       string    `db:"status" json:"status"`
	RewardAmount int64     `db:"reward_amount" json:"reward_amount"`
	Credits      int       `db:"credits" json:"credits"`
}

// CountDrift is a referrer whose referral_count is below the referrals they made
type CountDrift struct {
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	ReferralCount int       `db:"referral_count" json:"referral_count"`
	Referrals     int       `db:"referrals" json:"referrals"`
}

// Report is the outcome of one audit run
type Report struct {
	StartedAt      time.Time         `json:"started_at"`
	Duration       string            `json:"duration"`
	BalanceDrift   []*BalanceDrift   `json:"balance_drift"`
	CreditMismatch []*CreditMismatch `json:"credit_mismatch"`
	CountDrift     []*CountDrift     `json:"count_drift"`
}

// Clean reports whether nothing drifted
func (r *Report) Clean() bool {
	return len(r.BalanceDrift) == 0 && len(r.CreditMismatch) == 0 && len(r.CountDrift) == 0
}
