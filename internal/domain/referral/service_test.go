package referral_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/ledger/ledgertest"
	"github.com/refbonus/refbonus-api/internal/domain/referral"
	"github.com/refbonus/refbonus-api/internal/domain/referral/referraltest"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/domain/user/usertest"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

type fixture struct {
	svc       *referral.Service
	ledger    *ledger.Service
	users     *usertest.MemoryRepository
	txs       *ledgertest.MemoryRepository
	referrals *referraltest.MemoryRepository
	referrer  *user.User
	referred  *user.User
	admin     actor.Actor
}

func newFixture() *fixture {
	users := usertest.NewMemoryRepository()
	txs := ledgertest.NewMemoryRepository()
	refs := referraltest.NewMemoryRepository()
	ledgerSvc := ledger.NewService(users, txs, database.NoTx{})
	admin := users.Seed(&user.User{Name: "Admin", Phone: "+998900000000", Role: user.RoleAdmin})

	return &fixture{
		svc:       referral.NewService(refs, users, ledgerSvc, database.NoTx{}),
		ledger:    ledgerSvc,
		users:     users,
		txs:       txs,
		referrals: refs,
		referrer:  users.Seed(&user.User{Name: "Referrer A", Phone: "+998900000001"}),
		referred:  users.Seed(&user.User{Name: "Referred B", Phone: "+998900000002"}),
		admin:     actor.Admin(admin.ID),
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApproveCreditsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ref, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 15000)
	requireNoError(t, err)
	if ref.Status != referral.StatusPending || ref.ApprovedAt != nil {
		t.Fatalf("new referral must be pending, got %+v", ref)
	}
	if got := f.ledger.GetBalance(ctx, f.referrer.ID); got != 0 {
		t.Fatalf("creating a referral must not credit, balance %d", got)
	}

	approved, err := f.svc.Approve(ctx, f.admin, ref.ID)
	requireNoError(t, err)
	if approved.Status != referral.StatusApproved || approved.ApprovedAt == nil || *approved.ApprovedBy != f.admin.UserID {
		t.Fatalf("unexpected approved referral %+v", approved)
	}
	if got := f.ledger.GetBalance(ctx, f.referrer.ID); got != 15000 {
		t.Fatalf("balance = %d, want 15000", got)
	}

	history, err := f.ledger.History(ctx, f.referrer.ID)
	requireNoError(t, err)
	if len(history) != 1 || history[0].Amount != 15000 || history[0].Type != ledger.TypeReferral {
		t.Fatalf("unexpected history %+v", history)
	}
	if !strings.Contains(history[0].Description, "Referred B") {
		t.Fatalf("description must name the referred user, got %q", history[0].Description)
	}

	_, err = f.svc.Approve(ctx, f.admin, ref.ID)
	if !errors.Is(err, referral.ErrAlreadyFinalized) || !errors.Is(err, apperr.ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized, got %v", err)
	}
	if got := f.ledger.GetBalance(ctx, f.referrer.ID); got != 15000 {
		t.Fatalf("second approve changed balance to %d", got)
	}
	if f.txs.Len() != 1 {
		t.Fatalf("expected exactly one transaction, got %d", f.txs.Len())
	}
}

func TestRejectLeavesBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ref, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 10000)
	requireNoError(t, err)

	rejected, err := f.svc.Reject(ctx, f.admin, ref.ID)
	requireNoError(t, err)
	if rejected.Status != referral.StatusRejected || rejected.ApprovedBy == nil {
		t.Fatalf("unexpected rejected referral %+v", rejected)
	}
	if f.txs.Len() != 0 || f.ledger.GetBalance(ctx, f.referrer.ID) != 0 {
		t.Fatal("reject must not touch the balance")
	}

	if _, err := f.svc.Approve(ctx, f.admin, ref.ID); !errors.Is(err, referral.ErrAlreadyFinalized) {
		t.Fatalf("rejected referral must not be approvable, got %v", err)
	}
	if _, err := f.svc.Reject(ctx, f.admin, ref.ID); !errors.Is(err, referral.ErrAlreadyFinalized) {
		t.Fatalf("rejected referral must not be rejected twice, got %v", err)
	}
}

func TestCreateDuplicatePair(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 10000)
	requireNoError(t, err)

	_, err = f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 10000)
	if !errors.Is(err, referral.ErrDuplicate) || !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if f.referrals.Len() != 1 {
		t.Fatalf("expected one referral row, got %d", f.referrals.Len())
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.referrer.ID, f.referrer.ID, 10); !errors.Is(err, referral.ErrSelfReferral) {
		t.Fatalf("expected ErrSelfReferral, got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, -1); !errors.Is(err, referral.ErrNegativeReward) {
		t.Fatalf("expected ErrNegativeReward, got %v", err)
	}
}

func TestApproveErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Approve(ctx, f.admin, uuid.New()); !errors.Is(err, referral.ErrReferralNotFound) {
		t.Fatalf("expected ErrReferralNotFound, got %v", err)
	}
	if _, err := f.svc.Reject(ctx, f.admin, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	ref, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 10000)
	requireNoError(t, err)
	if _, err := f.svc.Approve(ctx, actor.User(f.referrer.ID), ref.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if got, _ := f.svc.Get(ctx, ref.ID); got.Status != referral.StatusPending {
		t.Fatalf("forbidden approve changed status to %s", got.Status)
	}
}

func TestFinalizeRequiresExistingAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ref, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 10000)
	requireNoError(t, err)

	// a still-valid token for an account that was deleted
	gone := actor.Admin(uuid.New())
	if _, err := f.svc.Approve(ctx, gone, ref.ID); !errors.Is(err, referral.ErrApproverGone) || !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("approve: expected ErrApproverGone, got %v", err)
	}
	if _, err := f.svc.Reject(ctx, gone, ref.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("reject: expected ErrForbidden, got %v", err)
	}

	// an admin token for an account that is now a plain user
	if _, err := f.svc.Approve(ctx, actor.Admin(f.referred.ID), ref.ID); !errors.Is(err, referral.ErrApproverGone) {
		t.Fatalf("demoted approve: expected ErrApproverGone, got %v", err)
	}

	got, err := f.svc.Get(ctx, ref.ID)
	requireNoError(t, err)
	if got.Status != referral.StatusPending || got.ApprovedBy != nil {
		t.Fatalf("referral changed: %+v", got)
	}
	if f.txs.Len() != 0 {
		t.Fatalf("expected no transactions, got %d", f.txs.Len())
	}
}

func TestApproveZeroRewardPostsNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ref, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 0)
	requireNoError(t, err)

	_, err = f.svc.Approve(ctx, f.admin, ref.ID)
	requireNoError(t, err)
	if f.txs.Len() != 0 {
		t.Fatalf("zero reward must not post a transaction")
	}
}

func TestProjections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	third := f.users.Seed(&user.User{Name: "Referred C", Phone: "+998900000003"})

	first, err := f.svc.Create(ctx, f.referrer.ID, f.referred.ID, 100)
	requireNoError(t, err)
	second, err := f.svc.Create(ctx, f.referrer.ID, third.ID, 100)
	requireNoError(t, err)
	_, err = f.svc.Approve(ctx, f.admin, first.ID)
	requireNoError(t, err)

	mine, err := f.svc.ListByReferrer(ctx, f.referrer.ID)
	requireNoError(t, err)
	if len(mine) != 2 || mine[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", mine)
	}

	count, err := f.svc.CountByReferrer(ctx, f.referrer.ID)
	requireNoError(t, err)
	pending, err := f.svc.CountPending(ctx)
	requireNoError(t, err)
	if count != 2 || pending != 1 {
		t.Fatalf("count = %d, pending = %d", count, pending)
	}

	approved := referral.StatusApproved
	items, total, err := f.svc.ListAll(ctx, &approved, 10, 0)
	requireNoError(t, err)
	if total != 1 || items[0].ID != first.ID {
		t.Fatalf("unexpected approved list %+v", items)
	}

	bogus := referral.Status("paid")
	if _, _, err := f.svc.ListAll(ctx, &bogus, 10, 0); !errors.Is(err, referral.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to referral.Status
		want     bool
	}{
		{referral.StatusPending, referral.StatusApproved, true},
		{referral.StatusPending, referral.StatusRejected, true},
		{referral.StatusPending, referral.StatusPending, false},
		{referral.StatusApproved, referral.StatusRejected, false},
		{referral.StatusApproved, referral.StatusApproved, false},
		{referral.StatusRejected, referral.StatusApproved, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
