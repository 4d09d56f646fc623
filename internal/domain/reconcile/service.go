package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/pkg/actor"
)

// Service audits the ledger for drift. It only reads and reports.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates reconcile service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Audit runs on behalf of an admin
func (s *Service) Audit(ctx context.Context, a actor.Actor) (*Report, error) {
	if err := a.RequireAdmin("run reconciliation"); err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// Run executes every check and logs each finding.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	started := s.now()
	report := &Report{StartedAt: started}

	var err error
	if report.BalanceDrift, err = s.repo.BalanceDrift(ctx); err != nil {
		return nil, err
	}
	if report.CreditMismatch, err = s.repo.CreditMismatch(ctx); err != nil {
		return nil, err
	}
	if report.CountDrift, err = s.repo.CountDrift(ctx); err != nil {
		return nil, err
	}
	report.Duration = s.now().Sub(started).String()

	for _, d := range report.BalanceDrift {
		log.Warn().
			Str("user_id", d.UserID.String()).
			Int64("reward_balance", d.RewardBalance).
			Int64("transactions_sum", d.TransactionsSum).
			Msg("reconcile: balance drift")
	}
	for _, m := range report.CreditMismatch {
		log.Warn().
			Str("referral_id", m.ReferralID.String()).
			Str("status", m.Status).
			Int("credits", m.Credits).
			Msg("reconcile: referral credit mismatch")
	}
	for _, c := range report.CountDrift {
		log.Warn().
			Str("user_id", c.UserID.String()).
			Int("referral_count", c.ReferralCount).
			Int("referrals", c.Referrals).
			Msg("reconcile: referral count drift")
	}

	log.Info().
		Bool("clean", report.Clean()).
		Str("duration", report.Duration).
		Msg("reconcile finished")
	return report, nil
}
