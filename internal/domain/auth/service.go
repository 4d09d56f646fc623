package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/domain/referral"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/jwt"
	"github.com/refbonus/refbonus-api/internal/pkg/password"
	"github.com/refbonus/refbonus-api/internal/pkg/sanitize"
	"github.com/refbonus/refbonus-api/internal/pkg/validator"
)

// ReferralCreator records the pending referral for a new registration
type ReferralCreator interface {
	Create(ctx context.Context, referrerID, referralID uuid.UUID, rewardAmount int64) (*referral.Referral, error)
}

// RewardSource yields the reward captured on new referrals
type RewardSource interface {
	RewardPerReferral(ctx context.Context) int64
}

// Service handles registration, login and referral links
type Service struct {
	users      user.Repository
	referrals  ReferralCreator
	rewards    RewardSource
	tx         database.TxRunner
	jwtService *jwt.Service

	defaultLimit int
}

// NewService creates auth service
func NewService(users user.Repository, referrals ReferralCreator, rewards RewardSource, tx database.TxRunner, jwtService *jwt.Service) *Service {
	return &Service{
		users:      users,
		referrals:  referrals,
		rewards:    rewards,
		tx:         tx,
		jwtService: jwtService,

		defaultLimit: user.DefaultReferralLimit,
	}
}

// SetDefaultReferralLimit changes the limit given to registrations that do
// not choose one. Out-of-range values are ignored.
func (s *Service) SetDefaultReferralLimit(n int) {
	if validator.IsValidReferralLimit(n) {
		s.defaultLimit = n
	}
}

// Register creates an account and, when a referrer phone is given, the pending
// referral for it. Everything commits together or not at all.
func (s *Service) Register(ctx context.Context, in user.Registration) (*user.User, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	// 1. Fast duplicate check; users_phone_key catches races
	existing, err := s.users.GetByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrPhoneTaken
	}

	// 2. Hash outside the transaction
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:            uuid.New(),
		Phone:         in.Phone,
		Name:          in.Name,
		PasswordHash:  hash,
		Role:          in.Role,
		ReferralLimit: in.ReferralLimit,
	}
	if in.ReferrerPhone != "" {
		u.ReferrerPhone = sql.NullString{String: in.ReferrerPhone, Valid: true}
	}

	// 3. Referrer lock, user insert, referral and counter in one transaction
	var ref *referral.Referral
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var referrer *user.User
		if in.ReferrerPhone != "" {
			referrer, err = s.users.LockByPhone(ctx, in.ReferrerPhone)
			if err != nil {
				return err
			}
			if referrer == nil {
				return user.ErrReferrerNotFound
			}
			if !referrer.CanRefer() {
				return user.ErrReferralLimitReached
			}
		}

		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		if referrer == nil {
			return nil
		}

		ref, err = s.referrals.Create(ctx, referrer.ID, u.ID, s.rewards.RewardPerReferral(ctx))
		if err != nil {
			return fmt.Errorf("create referral: %w", err)
		}
		return s.users.IncrementReferralCount(ctx, referrer.ID)
	})
	if err != nil {
		return nil, err
	}

	ev := log.Info().
		Str("user_id", u.ID.String()).
		Str("role", string(u.Role))
	if ref != nil {
		ev = ev.Str("referral_id", ref.ID.String()).Int64("reward_amount", ref.RewardAmount)
	}
	ev.Msg("user registered")

	return u, nil
}

func (s *Service) normalize(in user.Registration) (user.Registration, error) {
	in.Name = sanitize.Text(in.Name)
	in.Phone = validator.NormalizePhone(in.Phone)
	in.ReferrerPhone = validator.NormalizePhone(in.ReferrerPhone)

	if !validator.IsValidName(in.Name) {
		return in, user.ErrInvalidName
	}
	if !validator.IsValidPhone(in.Phone) {
		return in, user.ErrInvalidPhone
	}
	if !validator.IsValidPassword(in.Password) {
		return in, ErrInvalidPassword
	}

	if in.ReferralLimit == 0 {
		in.ReferralLimit = s.defaultLimit
	}
	if !validator.IsValidReferralLimit(in.ReferralLimit) {
		return in, user.ErrInvalidLimit
	}

	switch in.Role {
	case "":
		in.Role = user.RoleUser
	case user.RoleUser, user.RoleAdmin:
	default:
		return in, ErrInvalidRole
	}

	if in.ReferrerPhone != "" {
		if !validator.IsValidPhone(in.ReferrerPhone) {
			return in, ErrInvalidReferrerPhone
		}
		if in.ReferrerPhone == in.Phone {
			return in, user.ErrSelfReferrer
		}
	}
	return in, nil
}

// Login authenticates by phone and password
func (s *Service) Login(ctx context.Context, phone, pass string) (*AuthResponse, error) {
	u, err := s.users.GetByPhone(ctx, validator.NormalizePhone(phone))
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(pass, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Me returns the caller's account
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// ResolveReferralLink maps a ?ref=<id> link to the referrer's phone so the
// registration form can be pre-filled.
func (s *Service) ResolveReferralLink(ctx context.Context, referrerID uuid.UUID) (*ReferralLink, error) {
	u, err := s.users.GetByID(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return &ReferralLink{
		ReferrerID: u.ID,
		Phone:      u.Phone,
		Name:       u.Name,
		CanRefer:   u.CanRefer(),
	}, nil
}

// EnsureAdmin creates the bootstrap administrator unless the phone is taken.
func (s *Service) EnsureAdmin(ctx context.Context, phone, pass, name string) error {
	existing, err := s.users.GetByPhone(ctx, validator.NormalizePhone(phone))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	u, err := s.Register(ctx, user.Registration{
		Name:     name,
		Phone:    phone,
		Password: pass,
		Role:     user.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info().Str("user_id", u.ID.String()).Msg("bootstrap admin created")
	return nil
}

// Token issues an access token for an already loaded user
func (s *Service) Token(u *user.User) (*AuthResponse, error) {
	return s.issue(u)
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:        user.ToResponse(u),
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.AccessTTL().Seconds()),
	}, nil
}
