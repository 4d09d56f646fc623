// Package usertest provides an in-memory user.Repository for service tests.
package usertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/user"
)

// MemoryRepository stores users in a map. Returned users are copies.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[uuid.UUID]*user.User{}}
}

// Seed stores u as-is and returns it.
func (m *MemoryRepository) Seed(u *user.User) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if u.ReferralLimit == 0 {
		u.ReferralLimit = user.DefaultReferralLimit
	}
	cp := *u
	m.users[u.ID] = &cp
	return u
}

func (m *MemoryRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Phone == u.Phone {
			return user.ErrPhoneTaken
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) LockByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.GetByID(ctx, id)
}

func (m *MemoryRepository) LockByPhone(ctx context.Context, phone string) (*user.User, error) {
	return m.GetByPhone(ctx, phone)
}

func (m *MemoryRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*user.User
	for _, u := range m.users {
		if filter.Search != "" && !strings.Contains(u.Name, filter.Search) && !strings.Contains(u.Phone, filter.Search) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	if filter.Offset > len(out) {
		filter.Offset = len(out)
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (m *MemoryRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.Name = u.Name
	existing.ReferrerPhone = u.ReferrerPhone
	existing.ReferralLimit = u.ReferralLimit
	existing.Role = u.Role
	existing.UpdatedAt = time.Now()
	u.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryRepository) IncrementReferralCount(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.ReferralCount >= u.ReferralLimit {
		return user.ErrReferralLimitReached
	}
	u.ReferralCount++
	return nil
}

func (m *MemoryRepository) SetBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.RewardBalance = balance
	return nil
}

// Count returns the number of stored users.
func (m *MemoryRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
