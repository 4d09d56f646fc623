package ledger

import "github.com/google/uuid"

// AdjustBalanceRequest is the body of the admin add/deduct endpoints
type AdjustBalanceRequest struct {
	Amount      int64  `json:"amount" validate:"amount"`
	Description string `json:"description" validate:"max=500"`
}

// BalanceResponse is the caller's balance with history
type BalanceResponse struct {
	UserID       uuid.UUID      `json:"user_id"`
	Balance      int64          `json:"balance"`
	Transactions []*Transaction `json:"transactions"`
}
