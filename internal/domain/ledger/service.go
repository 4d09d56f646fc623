package ledger

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/sanitize"
	"github.com/refbonus/refbonus-api/internal/pkg/validator"
)

// Service owns reward balances. The balance column on users is a cache of
// SUM(transactions.amount); both change together under the user's row lock.
type Service struct {
	users user.Repository
	repo  Repository
	tx    database.TxRunner
}

// NewService creates ledger service
func NewService(users user.Repository, repo Repository, tx database.TxRunner) *Service {
	return &Service{users: users, repo: repo, tx: tx}
}

// Credit adds amount to the user's balance. txType must be a credit type.
func (s *Service) Credit(ctx context.Context, userID uuid.UUID, amount int64, txType Type, description string) (*Transaction, error) {
	if !txType.IsCredit() {
		return nil, ErrInvalidType
	}
	if !validator.IsValidMinorAmount(amount) {
		return nil, ErrInvalidAmount
	}
	return s.post(ctx, &Transaction{UserID: userID, Amount: amount, Type: txType, Description: description})
}

// CreditReferral credits an approved referral's reward. The store accepts
// at most one credit per referral.
func (s *Service) CreditReferral(ctx context.Context, referrerID, referralID uuid.UUID, amount int64, description string) (*Transaction, error) {
	if !validator.IsValidMinorAmount(amount) {
		return nil, ErrInvalidAmount
	}
	return s.post(ctx, &Transaction{
		UserID:      referrerID,
		Amount:      amount,
		Type:        TypeReferral,
		Description: description,
		ReferralID:  &referralID,
	})
}

// Debit subtracts amount, failing with ErrInsufficientBalance when it exceeds the balance.
func (s *Service) Debit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*Transaction, error) {
	if !validator.IsValidMinorAmount(amount) {
		return nil, ErrInvalidAmount
	}
	return s.post(ctx, &Transaction{UserID: userID, Amount: -amount, Type: TypeAdminDeduct, Description: description})
}

// AdminAdd credits a balance on behalf of an admin.
func (s *Service) AdminAdd(ctx context.Context, a actor.Actor, userID uuid.UUID, amount int64, description string) (*Transaction, error) {
	if err := a.RequireAdmin("add balance"); err != nil {
		return nil, err
	}
	if description == "" {
		description = "Balance added by administrator"
	}
	t, err := s.Credit(ctx, userID, amount, TypeAdminAdd, description)
	if err != nil {
		return nil, err
	}
	log.Info().Str("admin_id", a.UserID.String()).Str("user_id", userID.String()).Int64("amount", amount).Msg("admin added balance")
	return t, nil
}

// AdminDeduct debits a balance on behalf of an admin.
func (s *Service) AdminDeduct(ctx context.Context, a actor.Actor, userID uuid.UUID, amount int64, description string) (*Transaction, error) {
	if err := a.RequireAdmin("deduct balance"); err != nil {
		return nil, err
	}
	if description == "" {
		description = "Balance deducted by administrator"
	}
	t, err := s.Debit(ctx, userID, amount, description)
	if err != nil {
		return nil, err
	}
	log.Info().Str("admin_id", a.UserID.String()).Str("user_id", userID.String()).Int64("amount", amount).Msg("admin deducted balance")
	return t, nil
}

// GetBalance returns the current balance, or 0 when the user cannot be read.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) int64 {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("balance read failed")
		return 0
	}
	if u == nil {
		return 0
	}
	return u.RewardBalance
}

// History returns the user's transactions, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every transaction with its owner, newest first.
func (s *Service) ListAll(ctx context.Context, a actor.Actor, limit, offset int) ([]*TransactionView, int, error) {
	if err := a.RequireAdmin("list transactions"); err != nil {
		return nil, 0, err
	}
	return s.repo.ListAll(ctx, limit, offset)
}

// SumByUser is the balance derived from the log.
func (s *Service) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.SumByUser(ctx, userID)
}

func (s *Service) post(ctx context.Context, t *Transaction) (*Transaction, error) {
	t.ID = uuid.New()
	t.Description = sanitize.Text(t.Description)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.LockByID(ctx, t.UserID)
		if err != nil {
			return err
		}
		if u == nil {
			return user.ErrUserNotFound
		}

		if t.Amount > 0 && u.RewardBalance > math.MaxInt64-t.Amount {
			return ErrBalanceOverflow
		}
		balance := u.RewardBalance + t.Amount
		if balance < 0 {
			return ErrInsufficientBalance
		}

		if err := s.repo.Insert(ctx, t); err != nil {
			return err
		}
		return s.users.SetBalance(ctx, u.ID, balance)
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("user_id", t.UserID.String()).
		Str("type", string(t.Type)).
		Int64("amount", t.Amount).
		Msg("balance changed")
	return t, nil
}
