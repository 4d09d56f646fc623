package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

// Repository is the append-only transaction log
type Repository interface {
	Insert(ctx context.Context, t *Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]*TransactionView, int, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, t *Transaction) error {
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, description, referral_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, t.ID, t.UserID, t.Amount, t.Type, t.Description, t.ReferralID).Scan(&t.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "transactions_referral_credit_key") {
			return ErrReferralAlreadyCredited
		}
		return fmt.Errorf("ledger repository insert: %w", err)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error) {
	items := []*Transaction{}
	err := database.Conn(ctx, r.db).SelectContext(ctx, &items, `
		SELECT id, user_id, amount, type, description, referral_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger repository list by user: %w", err)
	}
	return items, nil
}

func (r *repository) ListAll(ctx context.Context, limit, offset int) ([]*TransactionView, int, error) {
	conn := database.Conn(ctx, r.db)

	var total int
	if err := conn.GetContext(ctx, &total, `SELECT COUNT(*) FROM transactions`); err != nil {
		return nil, 0, fmt.Errorf("ledger repository count: %w", err)
	}

	items := []*TransactionView{}
	err := conn.SelectContext(ctx, &items, `
		SELECT t.id, t.user_id, t.amount, t.type, t.description, t.referral_id, t.created_at,
		       u.name AS user_name, u.phone AS user_phone
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger repository list all: %w", err)
	}
	return items, total, nil
}

func (r *repository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := database.Conn(ctx, r.db).GetContext(ctx, &sum,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("ledger repository sum: %w", err)
	}
	return sum, nil
}
