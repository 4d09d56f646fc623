package settings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

// Repository persists the settings singleton
type Repository interface {
	// Get returns nil, nil when no settings were saved yet.
	Get(ctx context.Context) (*RewardSettings, error)
	Upsert(ctx context.Context, rewardPerReferral int64, updatedBy uuid.UUID) (*RewardSettings, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*RewardSettings, error) {
	var s RewardSettings
	err := database.Conn(ctx, r.db).GetContext(ctx, &s, `
		SELECT id, reward_per_referral, updated_by, updated_at
		FROM reward_settings WHERE id = $1
	`, singletonID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("settings repository get: %w", err)
	}
	return &s, nil
}

func (r *repository) Upsert(ctx context.Context, rewardPerReferral int64, updatedBy uuid.UUID) (*RewardSettings, error) {
	var s RewardSettings
	err := database.Conn(ctx, r.db).GetContext(ctx, &s, `
		INSERT INTO reward_settings (id, reward_per_referral, updated_by, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET reward_per_referral = EXCLUDED.reward_per_referral,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, reward_per_referral, updated_by, updated_at
	`, singletonID, rewardPerReferral, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("settings repository upsert: %w", err)
	}
	return &s, nil
}
