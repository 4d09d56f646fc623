package statement_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/refbonus/refbonus-api/internal/domain/ledger"
	"github.com/refbonus/refbonus-api/internal/domain/ledger/ledgertest"
	"github.com/refbonus/refbonus-api/internal/domain/statement"
	"github.com/refbonus/refbonus-api/internal/domain/user"
	"github.com/refbonus/refbonus-api/internal/domain/user/usertest"
	"github.com/refbonus/refbonus-api/internal/pkg/actor"
	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
	"github.com/refbonus/refbonus-api/internal/pkg/database"
)

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) Save(ctx context.Context, path string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *memoryStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *memoryStorage) GetURL(path string) string {
	return "https://files.test/" + path
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateStatement(t *testing.T) {
	ctx := context.Background()
	users := usertest.NewMemoryRepository()
	ledgerSvc := ledger.NewService(users, ledgertest.NewMemoryRepository(), database.NoTx{})
	store := newMemoryStorage()
	svc := statement.NewService(users, ledgerSvc, store)

	u := users.Seed(&user.User{Name: "Alice", Phone: "+998901111111"})
	admin := actor.Admin(uuid.New())

	_, err := ledgerSvc.Credit(ctx, u.ID, 15000, ledger.TypeReferral, "Referral bonus: Bob (+998902222222)")
	requireNoError(t, err)
	_, err = ledgerSvc.AdminDeduct(ctx, admin, u.ID, 5000, "")
	requireNoError(t, err)
	_, err = ledgerSvc.AdminAdd(ctx, admin, u.ID, 250, "")
	requireNoError(t, err)

	st, err := svc.Generate(ctx, actor.User(u.ID), u.ID)
	requireNoError(t, err)

	if st.Rows != 3 || st.Credits != 15250 || st.Debits != 5000 || st.ClosingBalance != 10250 {
		t.Fatalf("unexpected summary %+v", st.Summary)
	}
	if !strings.HasPrefix(st.Key, "statements/"+u.ID.String()+"/") || !strings.HasSuffix(st.Key, ".xlsx") {
		t.Fatalf("unexpected key %s", st.Key)
	}
	if st.URL != "https://files.test/"+st.Key {
		t.Fatalf("unexpected url %s", st.URL)
	}

	f, err := excelize.OpenReader(bytes.NewReader(store.files[st.Key]))
	requireNoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(statement.SheetName)
	requireNoError(t, err)

	// 4 header rows, table header, 3 transactions, totals
	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d: %v", len(rows), rows)
	}
	if rows[1][1] != "Alice" || rows[2][1] != "+998901111111" {
		t.Fatalf("unexpected account header %v", rows[:3])
	}
	if rows[4][0] != "Date" || rows[4][4] != "Balance" {
		t.Fatalf("unexpected table header %v", rows[4])
	}

	wantBalances := []string{"15000", "10000", "10250"}
	for i, want := range wantBalances {
		if got := rows[5+i][4]; got != want {
			t.Errorf("row %d running balance = %s, want %s", i, got, want)
		}
	}
	if rows[5][1] != string(ledger.TypeReferral) || rows[6][2] != "-5000" {
		t.Fatalf("rows must be oldest first, got %v", rows[5:8])
	}
	if rows[8][0] != "Total" || rows[8][4] != "10250" {
		t.Fatalf("unexpected totals row %v", rows[8])
	}
}

func TestGenerateAuthorization(t *testing.T) {
	ctx := context.Background()
	users := usertest.NewMemoryRepository()
	ledgerSvc := ledger.NewService(users, ledgertest.NewMemoryRepository(), database.NoTx{})
	store := newMemoryStorage()
	svc := statement.NewService(users, ledgerSvc, store)

	alice := users.Seed(&user.User{Name: "Alice", Phone: "+998901111111"})
	bob := users.Seed(&user.User{Name: "Bob", Phone: "+998902222222"})

	if _, err := svc.Generate(ctx, actor.User(bob.ID), alice.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(store.files) != 0 {
		t.Fatal("forbidden export must not write a file")
	}

	st, err := svc.Generate(ctx, actor.Admin(bob.ID), alice.ID)
	requireNoError(t, err)
	if st.Rows != 0 || st.ClosingBalance != 0 {
		t.Fatalf("empty history must give an empty statement, got %+v", st.Summary)
	}

	if _, err := svc.Generate(ctx, actor.Admin(bob.ID), uuid.New()); !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
