package reconcile

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository runs the read-only audit queries
type Repository interface {
	BalanceDrift(ctx context.Context) ([]*BalanceDrift, error)
	CreditMismatch(ctx context.Context) ([]*CreditMismatch, error)
	CountDrift(ctx context.Context) ([]*CountDrift, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BalanceDrift(ctx context.Context) ([]*BalanceDrift, error) {
	out := []*BalanceDrift{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT u.id AS user_id, u.phone, u.reward_balance,
		       COALESCE(SUM(t.amount), 0) AS transactions_sum
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.id
		GROUP BY u.id
		HAVING u.reward_balance <> COALESCE(SUM(t.amount), 0)
		ORDER BY u.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("reconcile balance drift: %w", err)
	}
	return out, nil
}

func (r *repository) CreditMismatch(ctx context.Context) ([]*CreditMismatch, error) {
	out := []*CreditMismatch{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT r.id AS referral_id, r.referrer_id, r.status, r.reward_amount,
		       COUNT(t.id) AS credits
		FROM referrals r
		LEFT JOIN transactions t ON t.referral_id = r.id AND t.type = 'referral'
		GROUP BY r.id
		HAVING COUNT(t.id) <> CASE WHEN r.status = 'approved' AND r.reward_amount > 0 THEN 1 ELSE 0 END
		ORDER BY r.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("reconcile credit mismatch: %w", err)
	}
	return out, nil
}

// CountDrift ignores counts above the referral rows: deleting a referred user
// removes the row but never decrements the counter.
func (r *repository) CountDrift(ctx context.Context) ([]*CountDrift, error) {
	out := []*CountDrift{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT u.id AS user_id, u.referral_count, COUNT(r.id) AS referrals
		FROM users u
		LEFT JOIN referrals r ON r.referrer_id = u.id
		GROUP BY u.id
		HAVING u.referral_count < COUNT(r.id)
		ORDER BY u.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("reconcile count drift: %w", err)
	}
	return out, nil
}
