package referral

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

// Repository owns referral rows
type Repository interface {
	Create(ctx context.Context, ref *Referral) error
	ExistsPair(ctx context.Context, referrerID, referralID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Referral, error)
	LockByID(ctx context.Context, id uuid.UUID) (*Referral, error)
	UpdateStatus(ctx context.Context, ref *Referral) error
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*View, error)
	ListAll(ctx context.Context, status *Status, limit, offset int) ([]*View, int, error)
	CountPending(ctx context.Context) (int, error)
	CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int, error)
}

const approvedByFK = "referrals_approved_by_fkey"

const referralColumns = `id, referrer_id, referral_id, reward_amount, status, approved_at, approved_by, created_at`

const viewSelect = `
	SELECT r.id, r.referrer_id, r.referral_id, r.reward_amount, r.status, r.approved_at,
	       r.approved_by, r.created_at,
	       rr.name AS referrer_name, rr.phone AS referrer_phone,
	       rd.name AS referral_name, rd.phone AS referral_phone
	FROM referrals r
	JOIN users rr ON rr.id = r.referrer_id
	JOIN users rd ON rd.id = r.referral_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ref *Referral) error {
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, `
		INSERT INTO referrals (id, referrer_id, referral_id, reward_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, ref.ID, ref.ReferrerID, ref.ReferralID, ref.RewardAmount, ref.Status).Scan(&ref.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "referrals_pair_key") {
			return ErrDuplicate
		}
		return fmt.Errorf("referral repository create: %w", err)
	}
	return nil
}

func (r *repository) ExistsPair(ctx context.Context, referrerID, referralID uuid.UUID) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM referrals WHERE referrer_id = $1 AND referral_id = $2)`,
		referrerID, referralID)
	if err != nil {
		return false, fmt.Errorf("referral repository exists: %w", err)
	}
	return exists, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return r.getOne(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1`, id)
}

// LockByID reads the row with FOR UPDATE so status checks see the latest commit.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return r.getOne(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) getOne(ctx context.Context, query string, id uuid.UUID) (*Referral, error) {
	var ref Referral
	if err := database.Conn(ctx, r.db).GetContext(ctx, &ref, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("referral repository get: %w", err)
	}
	return &ref, nil
}

// UpdateStatus finalizes a pending referral. Zero rows means it was not pending.
func (r *repository) UpdateStatus(ctx context.Context, ref *Referral) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE referrals
		SET status = $2, approved_at = $3, approved_by = $4
		WHERE id = $1 AND status = 'pending'
	`, ref.ID, ref.Status, ref.ApprovedAt, ref.ApprovedBy)
	if database.IsForeignKeyViolation(err, approvedByFK) {
		return ErrApproverGone
	}
	if err != nil {
		return fmt.Errorf("referral repository update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyFinalized
	}
	return nil
}

func (r *repository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*View, error) {
	items := []*View{}
	err := database.Conn(ctx, r.db).SelectContext(ctx, &items,
		viewSelect+` WHERE r.referrer_id = $1 ORDER BY r.created_at DESC, r.id DESC`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("referral repository list by referrer: %w", err)
	}
	return items, nil
}

func (r *repository) ListAll(ctx context.Context, status *Status, limit, offset int) ([]*View, int, error) {
	conn := database.Conn(ctx, r.db)
	filter := ""
	if status != nil {
		filter = string(*status)
	}

	var total int
	if err := conn.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM referrals WHERE ($1 = '' OR status = $1)`, filter); err != nil {
		return nil, 0, fmt.Errorf("referral repository count: %w", err)
	}

	items := []*View{}
	err := conn.SelectContext(ctx, &items,
		viewSelect+` WHERE ($1 = '' OR r.status = $1) ORDER BY r.created_at DESC, r.id DESC LIMIT $2 OFFSET $3`,
		filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("referral repository list all: %w", err)
	}
	return items, total, nil
}

func (r *repository) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := database.Conn(ctx, r.db).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM referrals WHERE status = 'pending'`); err != nil {
		return 0, fmt.Errorf("referral repository count pending: %w", err)
	}
	return n, nil
}

func (r *repository) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int, error) {
	var n int
	if err := database.Conn(ctx, r.db).GetContext(ctx, &n,
		`SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`, referrerID); err != nil {
		return 0, fmt.Errorf("referral repository count by referrer: %w", err)
	}
	return n, nil
}
