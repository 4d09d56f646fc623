package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

// Repository defines user data access interface.
// Lookups return nil, nil when the user does not exist.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	LockByID(ctx context.Context, id uuid.UUID) (*User, error)
	LockByPhone(ctx context.Context, phone string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementReferralCount(ctx context.Context, id uuid.UUID) error
	SetBalance(ctx context.Context, id uuid.UUID, balance int64) error
}

// ListFilter pages and filters the admin user list
type ListFilter struct {
	Search string // matches name or phone
	Role   Role
	Limit  int
	Offset int
}

const userColumns = `id, phone, name, password_hash, role, referral_limit, referral_count,
	reward_balance, referrer_phone, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, phone, name, password_hash, role, referral_limit, referral_count,
		                   reward_balance, referrer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		user.ID,
		user.Phone,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.ReferralLimit,
		user.ReferralCount,
		user.RewardBalance,
		user.ReferrerPhone,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_phone_key") {
			return ErrPhoneTaken
		}
		return fmt.Errorf("user repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *repository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

// LockByID reads the row with FOR UPDATE; ctx must carry a transaction.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) LockByPhone(ctx context.Context, phone string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1 FOR UPDATE`, phone)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	err := database.Conn(ctx, r.db).GetContext(ctx, &user, query, arg)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*User, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR phone LIKE '%' || $1 || '%')
	          AND ($2 = '' OR role = $2)`

	var total int
	conn := database.Conn(ctx, r.db)
	if err := conn.GetContext(ctx, &total, `SELECT COUNT(*) FROM users `+where, filter.Search, string(filter.Role)); err != nil {
		return nil, 0, fmt.Errorf("user repository count: %w", err)
	}

	users := []*User{}
	query := `SELECT ` + userColumns + ` FROM users ` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := conn.SelectContext(ctx, &users, query, filter.Search, string(filter.Role), filter.Limit, filter.Offset); err != nil {
		return nil, 0, fmt.Errorf("user repository list: %w", err)
	}

	return users, total, nil
}

// Update writes the admin-editable fields.
func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, referrer_phone = $3, referral_limit = $4, role = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		user.ID, user.Name, user.ReferrerPhone, user.ReferralLimit, user.Role,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("user repository update: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user repository delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementReferralCount adds one referral, refusing to exceed referral_limit.
func (r *repository) IncrementReferralCount(ctx context.Context, id uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE users
		SET referral_count = referral_count + 1, updated_at = NOW()
		WHERE id = $1 AND referral_count < referral_limit
	`, id)
	if err != nil {
		return fmt.Errorf("user repository increment referral count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReferralLimitReached
	}
	return nil
}

// SetBalance stores the cached balance; only the balance ledger calls it, under a row lock.
func (r *repository) SetBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET reward_balance = $2, updated_at = NOW() WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("user repository set balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
