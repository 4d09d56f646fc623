package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

type fakeRepo struct {
	balance []*BalanceDrift
	credits []*CreditMismatch
	counts  []*CountDrift
	err     error
	calls   atomic.Int32
}

func (f *fakeRepo) BalanceDrift(ctx context.Context) ([]*BalanceDrift, error) {
	f.calls.Add(1)
	return f.balance, f.err
}

func (f *fakeRepo) CreditMismatch(ctx context.Context) ([]*CreditMismatch, error) {
	return f.credits, nil
}

func (f *fakeRepo) CountDrift(ctx context.Context) ([]*CountDrift, error) {
	return f.counts, nil
}

func TestRunCollectsFindings(t *testing.T) {
	repo := &fakeRepo{
		balance: []*BalanceDrift{{UserID: uuid.New(), RewardBalance: 10, TransactionsSum: 5}},
		credits: []*CreditMismatch{{ReferralID: uuid.New(), Status: "approved", RewardAmount: 100, Credits: 0}},
	}
	svc := NewService(repo)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Clean() {
		t.Fatal("report with findings must not be clean")
	}
	if len(report.BalanceDrift) != 1 || len(report.CreditMismatch) != 1 || len(report.CountDrift) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestRunCleanAndErrors(t *testing.T) {
	svc := NewService(&fakeRepo{})
	report, err := svc.Run(context.Background())
	if err != nil || !report.Clean() {
		t.Fatalf("expected clean report, got %+v %v", report, err)
	}

	boom := errors.New("boom")
	svc = NewService(&fakeRepo{err: boom})
	if _, err := svc.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuditRequiresAdmin(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	if _, err := svc.Audit(context.Background(), actor.User(uuid.New())); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.calls.Load() != 0 {
		t.Fatal("forbidden audit must not query")
	}
	if _, err := svc.Audit(context.Background(), actor.Admin(uuid.New())); err != nil {
		t.Fatalf("admin audit: %v", err)
	}
}

func TestScheduler(t *testing.T) {
	svc := NewService(&fakeRepo{})

	s, err := NewScheduler(svc, "")
	if err != nil || s != nil {
		t.Fatalf("empty schedule must disable the scheduler, got %v %v", s, err)
	}
	s.Start()
	s.Stop(context.Background())

	if _, err := NewScheduler(svc, "not a schedule"); err == nil {
		t.Fatal("expected invalid schedule error")
	}

	repo := &fakeRepo{}
	s, err = NewScheduler(NewService(repo), "@every 10ms")
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.calls.Load() > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if repo.calls.Load() == 0 {
		t.Fatal("expected scheduled audit to run")
	}
}
