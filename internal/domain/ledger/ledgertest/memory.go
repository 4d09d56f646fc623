// Package ledgertest provides an in-memory ledger.Repository for service tests.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
)

type MemoryRepository struct {
	mu    sync.Mutex
	items []*ledger.Transaction
	clock time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{clock: time.Now()}
}

func (m *MemoryRepository) Insert(ctx context.Context, t *ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ReferralID != nil {
		for _, existing := range m.items {
			if existing.ReferralID != nil && *existing.ReferralID == *t.ReferralID {
				return ledger.ErrReferralAlreadyCredited
			}
		}
	}
	// strictly increasing timestamps keep newest-first ordering deterministic
	m.clock = m.clock.Add(time.Millisecond)
	t.CreatedAt = m.clock
	cp := *t
	m.items = append(m.items, &cp)
	return nil
}

func (m *MemoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*ledger.Transaction{}
	for _, t := range m.items {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepository) ListAll(ctx context.Context, limit, offset int) ([]*ledger.TransactionView, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*ledger.TransactionView{}
	for i := len(m.items) - 1; i >= 0; i-- {
		out = append(out, &ledger.TransactionView{Transaction: *m.items[i]})
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *MemoryRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, t := range m.items {
		if t.UserID == userID {
			sum += t.Amount
		}
	}
	return sum, nil
}

// Len returns the number of stored transactions.
func (m *MemoryRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
