package auth

import (
	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/user"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,person_name"`
	Phone         string `json:"phone" validate:"required,phone"`
	Password      string `json:"password" validate:"required,password"`
	ReferrerPhone string `json:"referrer_phone" validate:"omitempty,phone"`
	ReferralLimit int    `json:"referral_limit" validate:"omitempty,referral_limit"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returned after login/register
type AuthResponse struct {
	User        *user.Response `json:"user"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"` // seconds until access token expires
}

// ReferralLink is the resolved target of a ?ref= link
type ReferralLink struct {
	ReferrerID uuid.UUID `json:"referrer_id"`
	Phone      string    `json:"phone"`
	Name       string    `json:"name"`
	CanRefer   bool      `json:"can_refer"`
}
