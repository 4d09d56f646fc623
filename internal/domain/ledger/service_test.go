package ledger_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/ledger/ledgertest"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/domain/user/usertest"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

type fixture struct {
	svc   *ledger.Service
	users *usertest.MemoryRepository
	txs   *ledgertest.MemoryRepository
}

func newFixture() *fixture {
	users := usertest.NewMemoryRepository()
	txs := ledgertest.NewMemoryRepository()
	return &fixture{
		svc:   ledger.NewService(users, txs, database.NoTx{}),
		users: users,
		txs:   txs,
	}
}

func (f *fixture) seedUser(balance int64) *user.User {
	return f.users.Seed(&user.User{Name: "Ledger User", Phone: "+998901112233", RewardBalance: balance})
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdminDeductScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := actor.Admin(uuid.New())
	u := f.seedUser(0)

	_, err := f.svc.Credit(ctx, u.ID, 15000, ledger.TypeReferral, "Referral bonus")
	requireNoError(t, err)

	tx, err := f.svc.AdminDeduct(ctx, admin, u.ID, 5000, "")
	requireNoError(t, err)
	if tx.Amount != -5000 || tx.Type != ledger.TypeAdminDeduct {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if got := f.svc.GetBalance(ctx, u.ID); got != 10000 {
		t.Fatalf("balance = %d, want 10000", got)
	}

	_, err = f.svc.AdminDeduct(ctx, admin, u.ID, 20000, "")
	if !errors.Is(err, ledger.ErrInsufficientBalance) || !errors.Is(err, apperr.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := f.svc.GetBalance(ctx, u.ID); got != 10000 {
		t.Fatalf("balance after failed deduct = %d, want 10000", got)
	}
	if f.txs.Len() != 2 {
		t.Fatalf("expected 2 transactions, got %d", f.txs.Len())
	}
}

func TestBalanceConservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.seedUser(0)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		amount := int64(rng.Intn(10000) + 1)
		if rng.Intn(2) == 0 {
			_, err := f.svc.Credit(ctx, u.ID, amount, ledger.TypeAdminAdd, "add")
			requireNoError(t, err)
			continue
		}
		if _, err := f.svc.Debit(ctx, u.ID, amount, "deduct"); err != nil && !errors.Is(err, ledger.ErrInsufficientBalance) {
			t.Fatalf("debit: %v", err)
		}
	}

	sum, err := f.svc.SumByUser(ctx, u.ID)
	requireNoError(t, err)
	if balance := f.svc.GetBalance(ctx, u.ID); balance != sum || balance < 0 {
		t.Fatalf("balance %d does not match transaction sum %d", balance, sum)
	}
}

func TestCreditValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.seedUser(0)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"zero", func() error { _, err := f.svc.Credit(ctx, u.ID, 0, ledger.TypeAdminAdd, ""); return err }, ledger.ErrInvalidAmount},
		{"negative", func() error { _, err := f.svc.Debit(ctx, u.ID, -5, ""); return err }, ledger.ErrInvalidAmount},
		{"debit type", func() error { _, err := f.svc.Credit(ctx, u.ID, 5, ledger.TypeAdminDeduct, ""); return err }, ledger.ErrInvalidType},
		{"unknown user", func() error { _, err := f.svc.Credit(ctx, uuid.New(), 5, ledger.TypeAdminAdd, ""); return err }, user.ErrUserNotFound},
		{"unknown user debit", func() error { _, err := f.svc.Debit(ctx, uuid.New(), 5, ""); return err }, apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if f.txs.Len() != 0 {
		t.Fatalf("failed operations must not append transactions")
	}
}

func TestCreditReferralOnlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.seedUser(0)
	referralID := uuid.New()

	_, err := f.svc.CreditReferral(ctx, u.ID, referralID, 15000, "Referral bonus")
	requireNoError(t, err)

	_, err = f.svc.CreditReferral(ctx, u.ID, referralID, 15000, "Referral bonus")
	if !errors.Is(err, ledger.ErrReferralAlreadyCredited) {
		t.Fatalf("expected ErrReferralAlreadyCredited, got %v", err)
	}
	if got := f.svc.GetBalance(ctx, u.ID); got != 15000 {
		t.Fatalf("balance = %d, want 15000", got)
	}
}

func TestGetBalanceUnknownUserIsZero(t *testing.T) {
	f := newFixture()
	if got := f.svc.GetBalance(context.Background(), uuid.New()); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.seedUser(0)

	for _, amount := range []int64{100, 200, 300} {
		_, err := f.svc.Credit(ctx, u.ID, amount, ledger.TypeAdminAdd, "")
		requireNoError(t, err)
	}

	history, err := f.svc.History(ctx, u.ID)
	requireNoError(t, err)
	if len(history) != 3 || history[0].Amount != 300 || history[2].Amount != 100 {
		t.Fatalf("unexpected order: %+v", history)
	}
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.seedUser(100)
	caller := actor.User(u.ID)

	if _, err := f.svc.AdminAdd(ctx, caller, u.ID, 10, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("AdminAdd: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.AdminDeduct(ctx, caller, u.ID, 10, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("AdminDeduct: expected ErrForbidden, got %v", err)
	}
	if _, _, err := f.svc.ListAll(ctx, caller, 10, 0); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("ListAll: expected ErrForbidden, got %v", err)
	}
}

func TestDescriptionIsSanitized(t *testing.T) {
	f := newFixture()
	u := f.seedUser(0)

	tx, err := f.svc.AdminAdd(context.Background(), actor.Admin(uuid.New()), u.ID, 10, "<script>x</script>Bonus")
	requireNoError(t, err)
	if tx.Description != "Bonus" {
		t.Fatalf("description = %q", tx.Description)
	}
}
