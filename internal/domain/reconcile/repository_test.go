package reconcile_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/reconcile"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
	"github.com/refbonus/refbonus-api/internal/pkg/database/dbtest"
)

func createTestUser(t *testing.T, db *sqlx.DB) *user.User {
	t.Helper()
	u := &user.User{
		ID:            uuid.New(),
		Phone:         dbtest.Phone(),
		Name:          "Reconcile Test",
		PasswordHash:  "hash",
		Role:          user.RoleUser,
		ReferralLimit: user.DefaultReferralLimit,
	}
	if err := user.NewRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, u.ID) })
	return u
}

// Other packages' tests share the database, so only rows created here are asserted.
func TestAuditDetectsPlantedDrift(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	users := user.NewRepository(db)
	ledgerSvc := ledger.NewService(users, ledger.NewRepository(db), database.NewTransactor(db))

	healthy := createTestUser(t, db)
	drifted := createTestUser(t, db)
	referred := createTestUser(t, db)

	if _, err := ledgerSvc.Credit(ctx, healthy.ID, 300, ledger.TypeAdminAdd, "seed"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := ledgerSvc.Credit(ctx, drifted.ID, 300, ledger.TypeAdminAdd, "seed"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	// bypass the ledger on purpose
	if _, err := db.Exec(`UPDATE users SET reward_balance = 999 WHERE id = $1`, drifted.ID); err != nil {
		t.Fatalf("plant balance drift: %v", err)
	}

	// an approved referral with no credit, made without bumping referral_count
	refID := uuid.New()
	if _, err := db.Exec(`
		INSERT INTO referrals (id, referrer_id, referral_id, reward_amount, status, approved_at)
		VALUES ($1, $2, $3, 500, 'approved', NOW())
	`, refID, drifted.ID, referred.ID); err != nil {
		t.Fatalf("plant referral: %v", err)
	}

	report, err := reconcile.NewService(reconcile.NewRepository(db)).Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var foundBalance, foundCredit, foundCount bool
	for _, d := range report.BalanceDrift {
		if d.UserID == healthy.ID {
			t.Errorf("healthy user reported as drifted: %+v", d)
		}
		if d.UserID == drifted.ID && d.RewardBalance == 999 && d.TransactionsSum == 300 {
			foundBalance = true
		}
	}
	for _, m := range report.CreditMismatch {
		if m.ReferralID == refID && m.Credits == 0 {
			foundCredit = true
		}
	}
	for _, c := range report.CountDrift {
		if c.UserID == drifted.ID && c.ReferralCount == 0 && c.Referrals == 1 {
			foundCount = true
		}
	}
	if !foundBalance || !foundCredit || !foundCount {
		t.Fatalf("missing findings: balance=%v credit=%v count=%v", foundBalance, foundCredit, foundCount)
	}

	var balance int64
	if err := db.Get(&balance, `SELECT reward_balance FROM users WHERE id = $1`, drifted.ID); err != nil || balance != 999 {
		t.Fatalf("audit must not repair data, balance %d err %v", balance, err)
	}
}
