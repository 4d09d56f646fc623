// Package referraltest provides an in-memory referral.Repository for service tests.
package referraltest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/referral"
)

type MemoryRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]*referral.Referral
	clock time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[uuid.UUID]*referral.Referral{}, clock: time.Now()}
}

func (m *MemoryRepository) Create(ctx context.Context, ref *referral.Referral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ReferrerID == ref.ReferrerID && existing.ReferralID == ref.ReferralID {
			return referral.ErrDuplicate
		}
	}
	m.clock = m.clock.Add(time.Millisecond)
	ref.CreatedAt = m.clock
	cp := *ref
	m.items[ref.ID] = &cp
	return nil
}

func (m *MemoryRepository) ExistsPair(ctx context.Context, referrerID, referralID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ReferrerID == referrerID && existing.ReferralID == referralID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*referral.Referral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ref, ok := m.items[id]; ok {
		cp := *ref
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) LockByID(ctx context.Context, id uuid.UUID) (*referral.Referral, error) {
	return m.GetByID(ctx, id)
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, ref *referral.Referral) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[ref.ID]
	if !ok || existing.Status != referral.StatusPending {
		return referral.ErrAlreadyFinalized
	}
	existing.Status = ref.Status
	existing.ApprovedAt = ref.ApprovedAt
	existing.ApprovedBy = ref.ApprovedBy
	return nil
}

func (m *MemoryRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*referral.View, error) {
	return m.list(func(r *referral.Referral) bool { return r.ReferrerID == referrerID }), nil
}

func (m *MemoryRepository) ListAll(ctx context.Context, status *referral.Status, limit, offset int) ([]*referral.View, int, error) {
	out := m.list(func(r *referral.Referral) bool { return status == nil || r.Status == *status })
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

func (m *MemoryRepository) CountPending(ctx context.Context) (int, error) {
	return len(m.list(func(r *referral.Referral) bool { return r.Status == referral.StatusPending })), nil
}

func (m *MemoryRepository) CountByReferrer(ctx context.Context, referrerID uuid.UUID) (int, error) {
	return len(m.list(func(r *referral.Referral) bool { return r.ReferrerID == referrerID })), nil
}

// Len returns the number of stored referrals.
func (m *MemoryRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryRepository) list(match func(*referral.Referral) bool) []*referral.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*referral.View{}
	for _, r := range m.items {
		if match(r) {
			out = append(out, &referral.View{Referral: *r})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
