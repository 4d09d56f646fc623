package settings

// UpdateRewardRequest is the body of PUT /admin/settings/reward
type UpdateRewardRequest struct {
	RewardPerReferral *int64 `json:"reward_per_referral" validate:"required,gte=0"`
}
