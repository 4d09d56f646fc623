package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultReferralLimit applies when registration does not choose one.
const DefaultReferralLimit = 5

// User represents an account (matches users table)
type User struct {
	ID            uuid.UUID      `db:"id"`
	Phone         string         `db:"phone"`
	Name          string         `db:"name"`
	PasswordHash  string         `db:"password_hash"`
	Role          Role           `db:"role"`
	ReferralLimit int            `db:"referral_limit"`
	ReferralCount int            `db:"referral_count"`
	RewardBalance int64          `db:"reward_balance"`
	ReferrerPhone sql.NullString `db:"referrer_phone"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanRefer reports whether the user still has referral capacity.
func (u *User) CanRefer() bool {
	return u.ReferralCount < u.ReferralLimit
}
