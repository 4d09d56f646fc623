package settings

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/pkg/actor"
)

// Service holds the admin-configurable reward per referral
type Service struct {
	repo          Repository
	cache         Cache
	defaultReward int64
}

// NewService creates settings service. A negative defaultReward falls back to DefaultRewardPerReferral.
func NewService(repo Repository, cache Cache, defaultReward int64) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if defaultReward < 0 {
		defaultReward = DefaultRewardPerReferral
	}
	return &Service{repo: repo, cache: cache, defaultReward: defaultReward}
}

// GetCurrent returns the saved settings or the default. It never fails.
func (s *Service) GetCurrent(ctx context.Context) RewardSettings {
	if cached, ok := s.cache.Get(ctx); ok {
		return *cached
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("reward settings unavailable, using default")
		return s.fallback()
	}
	if current == nil {
		return s.fallback()
	}

	s.cache.Set(ctx, current)
	return *current
}

// RewardPerReferral is the amount captured into new referrals.
func (s *Service) RewardPerReferral(ctx context.Context) int64 {
	return s.GetCurrent(ctx).RewardPerReferral
}

// Update saves a new reward. Existing referrals keep the amount they were created with.
func (s *Service) Update(ctx context.Context, a actor.Actor, rewardPerReferral int64) (*RewardSettings, error) {
	if err := a.RequireAdmin("update reward settings"); err != nil {
		return nil, err
	}
	if rewardPerReferral < 0 {
		return nil, ErrNegativeReward
	}

	saved, err := s.repo.Upsert(ctx, rewardPerReferral, a.UserID)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().
		Int64("reward_per_referral", rewardPerReferral).
		Str("admin_id", a.UserID.String()).
		Msg("reward settings updated")

	return saved, nil
}

func (s *Service) fallback() RewardSettings {
	return RewardSettings{ID: singletonID, RewardPerReferral: s.defaultReward}
}
