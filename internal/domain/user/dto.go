package user

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest is the admin create-user body
type CreateUserRequest struct {
	Name          string `json:"name" validate:"required,person_name"`
	Phone         string `json:"phone" validate:"required,phone"`
	Password      string `json:"password" validate:"required,password"`
	ReferrerPhone string `json:"referrer_phone" validate:"omitempty,phone"`
	ReferralLimit int    `json:"referral_limit" validate:"omitempty,referral_limit"`
	Role          string `json:"role" validate:"omitempty,role"`
}

// UpdateUserRequest is the admin edit body
type UpdateUserRequest struct {
	Name          *string `json:"name" validate:"omitempty,person_name"`
	ReferrerPhone *string `json:"referrer_phone"`
	ReferralLimit *int    `json:"referral_limit" validate:"omitempty,referral_limit"`
}

// Response is the public view of a user
type Response struct {
	ID            uuid.UUID `json:"id"`
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	ReferralLimit int       `json:"referral_limit"`
	ReferralCount int       `json:"referral_count"`
	RewardBalance int64     `json:"reward_balance"`
	ReferrerPhone *string   `json:"referrer_phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse converts entity to response
func ToResponse(u *User) *Response {
	resp := &Response{
		ID:            u.ID,
		Phone:         u.Phone,
		Name:          u.Name,
		Role:          u.Role,
		ReferralLimit: u.ReferralLimit,
		ReferralCount: u.ReferralCount,
		RewardBalance: u.RewardBalance,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.ReferrerPhone.Valid {
		resp.ReferrerPhone = &u.ReferrerPhone.String
	}
	return resp
}
