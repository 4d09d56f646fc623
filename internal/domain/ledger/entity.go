package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Type is the reason code of a balance change
type Type string

const (
	TypeReferral    Type = "referral"
	TypeAdminAdd    Type = "admin_add"
	TypeAdminDeduct Type = "admin_deduct"
)

// IsCredit reports whether t increases the balance.
func (t Type) IsCredit() bool {
	return t == TypeReferral || t == TypeAdminAdd
}

// Transaction is an immutable record of one balance change (matches transactions table).
// Amount is signed: positive credits, negative debits.
type Transaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	Amount      int64      `db:"amount" json:"amount"`
	Type        Type       `db:"type" json:"type"`
	Description string     `db:"description" json:"description"`
	ReferralID  *uuid.UUID `db:"referral_id" json:"referral_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// TransactionView is a transaction joined with its owner
type TransactionView struct {
	Transaction
	UserName  string `db:"user_name" json:"user_name"`
	UserPhone string `db:"user_phone" json:"user_phone"`
}
