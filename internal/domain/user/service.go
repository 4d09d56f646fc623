package user

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/sanitize"
	"github.com/refbonus/refbonus-api/internal/pkg/validator"
)

// Registration is the input of account creation through the referral lifecycle.
type Registration struct {
	Name          string
	Phone         string
	Password      string
	ReferrerPhone string
	ReferralLimit int // zero means DefaultReferralLimit
	Role          Role
}

// Registrar creates accounts. Implemented by the auth service.
type Registrar interface {
	Register(ctx context.Context, in Registration) (*User, error)
}

// UpdateInput carries the admin-editable fields; nil leaves a field unchanged.
type UpdateInput struct {
	Name          *string
	ReferrerPhone *string
	ReferralLimit *int
}

// Service handles administrative user management
type Service struct {
	repo      Repository
	tx        database.TxRunner
	registrar Registrar
}

// NewService creates user service
func NewService(repo Repository, tx database.TxRunner, registrar Registrar) *Service {
	return &Service{repo: repo, tx: tx, registrar: registrar}
}

func (s *Service) List(ctx context.Context, a actor.Actor, filter ListFilter) ([]*User, int, error) {
	if err := a.RequireAdmin("list users"); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}

// Get returns a user. Admins may read anyone, users only themselves.
func (s *Service) Get(ctx context.Context, a actor.Actor, id uuid.UUID) (*User, error) {
	if a.UserID != id {
		if err := a.RequireAdmin("view another user"); err != nil {
			return nil, err
		}
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Create registers an account on behalf of an admin.
func (s *Service) Create(ctx context.Context, a actor.Actor, in Registration) (*User, error) {
	if err := a.RequireAdmin("create user"); err != nil {
		return nil, err
	}
	u, err := s.registrar.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	log.Info().Str("admin_id", a.UserID.String()).Str("user_id", u.ID.String()).Msg("admin created user")
	return u, nil
}

func (s *Service) Update(ctx context.Context, a actor.Actor, id uuid.UUID, in UpdateInput) (*User, error) {
	if err := a.RequireAdmin("update user"); err != nil {
		return nil, err
	}

	var updated *User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrUserNotFound
		}

		if in.Name != nil {
			name := sanitize.Text(*in.Name)
			if !validator.IsValidName(name) {
				return ErrInvalidName
			}
			u.Name = name
		}

		if in.ReferralLimit != nil {
			if !validator.IsValidReferralLimit(*in.ReferralLimit) {
				return ErrInvalidLimit
			}
			if *in.ReferralLimit < u.ReferralCount {
				return ErrLimitBelowCount
			}
			u.ReferralLimit = *in.ReferralLimit
		}

		if in.ReferrerPhone != nil {
			phone := validator.NormalizePhone(*in.ReferrerPhone)
			if phone == "" {
				u.ReferrerPhone = sql.NullString{}
			} else {
				if !validator.IsValidPhone(phone) {
					return ErrInvalidPhone
				}
				if phone == u.Phone {
					return ErrSelfReferrer
				}
				ref, err := s.repo.GetByPhone(ctx, phone)
				if err != nil {
					return err
				}
				if ref == nil {
					return ErrReferrerNotFound
				}
				u.ReferrerPhone = sql.NullString{String: phone, Valid: true}
			}
		}

		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("admin_id", a.UserID.String()).Str("user_id", id.String()).Msg("admin updated user")
	return updated, nil
}

// Delete hard-deletes the account; its referrals and transactions cascade.
// The referrer's referral_count is left untouched.
func (s *Service) Delete(ctx context.Context, a actor.Actor, id uuid.UUID) error {
	if err := a.RequireAdmin("delete user"); err != nil {
		return err
	}
	if a.UserID == id {
		return ErrDeleteSelf
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("admin_id", a.UserID.String()).Str("user_id", id.String()).Msg("admin deleted user")
	return nil
}
