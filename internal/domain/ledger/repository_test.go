package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/database/dbtest"
)

func createTestUser(t *testing.T, db *sqlx.DB) *user.User {
	t.Helper()
	u := &user.User{
		ID:            uuid.New(),
		Phone:         dbtest.Phone(),
		Name:          "Ledger Test",
		PasswordHash:  "hash",
		Role:          user.RoleUser,
		ReferralLimit: user.DefaultReferralLimit,
	}
	requireNoError(t, user.NewRepository(db).Create(context.Background(), u))
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, u.ID) })
	return u
}

func newDBService(db *sqlx.DB) *ledger.Service {
	return ledger.NewService(user.NewRepository(db), ledger.NewRepository(db), database.NewTransactor(db))
}

func TestConcurrentDebitNoLostUpdate(t *testing.T) {
	db := dbtest.Open(t)
	svc := newDBService(db)
	ctx := context.Background()
	u := createTestUser(t, db)

	_, err := svc.Credit(ctx, u.ID, 5, ledger.TypeAdminAdd, "seed")
	requireNoError(t, err)

	const goroutines = 10
	const expectedSuccess = 5

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := svc.Debit(ctx, u.ID, 1, fmt.Sprintf("concurrent %d", i))
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ledger.ErrInsufficientBalance) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if success != expectedSuccess {
		t.Fatalf("expected %d successful debits, got %d", expectedSuccess, success)
	}
	if got := svc.GetBalance(ctx, u.ID); got != 0 {
		t.Fatalf("expected balance 0, got %d", got)
	}

	sum, err := svc.SumByUser(ctx, u.ID)
	requireNoError(t, err)
	if sum != 0 {
		t.Fatalf("expected transaction sum 0, got %d", sum)
	}
}

func TestConcurrentCreditsConserveBalance(t *testing.T) {
	db := dbtest.Open(t)
	svc := newDBService(db)
	ctx := context.Background()
	u := createTestUser(t, db)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Credit(ctx, u.ID, 100, ledger.TypeAdminAdd, "parallel"); err != nil {
				t.Errorf("credit: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := svc.GetBalance(ctx, u.ID); got != 2000 {
		t.Fatalf("expected balance 2000, got %d", got)
	}

	history, err := svc.History(ctx, u.ID)
	requireNoError(t, err)
	if len(history) != 20 {
		t.Fatalf("expected 20 transactions, got %d", len(history))
	}
}
