package referral

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

// Crediter pays an approved referral's reward to the referrer
type Crediter interface {
	CreditReferral(ctx context.Context, referrerID, referralID uuid.UUID, amount int64, description string) (*ledger.Transaction, error)
}

// Service owns the referral state machine
type Service struct {
	repo   Repository
	users  user.Repository
	ledger Crediter
	tx     database.TxRunner
	now    func() time.Time
}

// NewService creates referral service
func NewService(repo Repository, users user.Repository, crediter Crediter, tx database.TxRunner) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		ledger: crediter,
		tx:     tx,
		now:    time.Now,
	}
}

// Create records a pending referral with the reward captured now.
// The pre-insert lookup gives a clean error; the unique constraint
// catches concurrent duplicates.
func (s *Service) Create(ctx context.Context, referrerID, referralID uuid.UUID, rewardAmount int64) (*Referral, error) {
	if referrerID == referralID {
		return nil, ErrSelfReferral
	}
	if rewardAmount < 0 {
		return nil, ErrNegativeReward
	}

	exists, err := s.repo.ExistsPair(ctx, referrerID, referralID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	ref := &Referral{
		ID:           uuid.New(),
		ReferrerID:   referrerID,
		ReferralID:   referralID,
		RewardAmount: rewardAmount,
		Status:       StatusPending,
	}
	if err := s.repo.Create(ctx, ref); err != nil {
		return nil, err
	}

	log.Info().
		Str("referral_id", ref.ID.String()).
		Str("referrer_id", referrerID.String()).
		Int64("reward_amount", rewardAmount).
		Msg("referral created")
	return ref, nil
}

// Approve moves a pending referral to approved and credits the referrer
// in the same transaction.
func (s *Service) Approve(ctx context.Context, a actor.Actor, referralID uuid.UUID) (*Referral, error) {
	if err := a.RequireAdmin("approve referral"); err != nil {
		return nil, err
	}

	var approved *Referral
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ref, err := s.finalize(ctx, a, referralID, StatusApproved)
		if err != nil {
			return err
		}

		// a zero reward has nothing to post
		if ref.RewardAmount > 0 {
			description, err := s.describe(ctx, ref)
			if err != nil {
				return err
			}
			if _, err := s.ledger.CreditReferral(ctx, ref.ReferrerID, ref.ID, ref.RewardAmount, description); err != nil {
				return fmt.Errorf("credit referral reward: %w", err)
			}
		}

		approved = ref
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("referral_id", referralID.String()).
		Str("admin_id", a.UserID.String()).
		Int64("reward_amount", approved.RewardAmount).
		Msg("referral approved")
	return approved, nil
}

// Reject moves a pending referral to rejected. The balance is untouched.
func (s *Service) Reject(ctx context.Context, a actor.Actor, referralID uuid.UUID) (*Referral, error) {
	if err := a.RequireAdmin("reject referral"); err != nil {
		return nil, err
	}

	var rejected *Referral
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ref, err := s.finalize(ctx, a, referralID, StatusRejected)
		rejected = ref
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("referral_id", referralID.String()).
		Str("admin_id", a.UserID.String()).
		Msg("referral rejected")
	return rejected, nil
}

// finalize re-reads the acting admin, locks the row and applies a terminal
// transition. Must run in a transaction.
func (s *Service) finalize(ctx context.Context, a actor.Actor, referralID uuid.UUID, next Status) (*Referral, error) {
	approver, err := s.users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, err
	}
	if approver == nil || !approver.IsAdmin() {
		return nil, ErrApproverGone
	}

	ref, err := s.repo.LockByID(ctx, referralID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrReferralNotFound
	}
	if !ref.Status.CanTransition(next) {
		return nil, ErrAlreadyFinalized
	}

	now := s.now()
	adminID := a.UserID
	ref.Status = next
	ref.ApprovedAt = &now
	ref.ApprovedBy = &adminID

	if err := s.repo.UpdateStatus(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *Service) describe(ctx context.Context, ref *Referral) (string, error) {
	referred, err := s.users.GetByID(ctx, ref.ReferralID)
	if err != nil {
		return "", err
	}
	if referred == nil {
		return "Referral bonus", nil
	}
	return fmt.Sprintf("Referral bonus: %s (%s)", referred.Name, referred.Phone), nil
}

// Get returns a single referral.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Referral, error) {
	ref, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrReferralNotFound
	}
	return ref, nil
}

// ListByReferrer returns the referrer's referrals, newest first.
func (s *Service) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*View, error) {
	return s.repo.ListByReferrer(ctx, referrerID)
}

// ListAll returns referrals optionally filtered by status, newest first.
func (s *Service) ListAll(ctx context.Context, status *Status, limit, offset int) ([]*View, int, error) {
	if status != nil && !status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.ListAll(ctx, status, limit, offset)
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.repo.CountPending(ctx)
}

func (s *Service) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int, error) {
	return s.repo.CountByReferrer(ctx, referrerID)
}
