package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/storage"
)

// HistoryReader lists a user's transactions, newest first
type HistoryReader interface {
	History(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error)
}

// Statement is an exported spreadsheet
type Statement struct {
	UserID      uuid.UUID `json:"user_id"`
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary
}

// Service exports balance statements to storage
type Service struct {
	users   user.Repository
	history HistoryReader
	storage storage.Storage
	now     func() time.Time
}

// NewService creates statement service
func NewService(users user.Repository, history HistoryReader, st storage.Storage) *Service {
	return &Service{users: users, history: history, storage: st, now: time.Now}
}

// Generate builds and uploads a statement. Users may export their own; admins anyone's.
func (s *Service) Generate(ctx context.Context, a actor.Actor, userID uuid.UUID) (*Statement, error) {
	if a.UserID != userID {
		if err := a.RequireAdmin("export another user's statement"); err != nil {
			return nil, err
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	txs, err := s.history.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	f, sum, err := Build(u, txs, now)
	if err != nil {
		return nil, fmt.Errorf("build statement: %w", err)
	}
	defer f.Close()

	if sum.ClosingBalance != u.RewardBalance {
		log.Warn().
			Str("user_id", userID.String()).
			Int64("reward_balance", u.RewardBalance).
			Int64("transactions_sum", sum.ClosingBalance).
			Msg("statement total differs from cached balance")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode statement: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s%s", keyPrefix, userID, now.UTC().Format("20060102T150405Z"), fileExt)
	if err := s.storage.Save(ctx, key, buf, ContentType); err != nil {
		return nil, fmt.Errorf("store statement: %w", err)
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("key", key).
		Int("rows", sum.Rows).
		Msg("statement exported")

	return &Statement{
		UserID:      userID,
		Key:         key,
		URL:         s.storage.GetURL(key),
		GeneratedAt: now,
		Summary:     sum,
	}, nil
}
