package actor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

func TestRequireAdmin(t *testing.T) {
	if err := Admin(uuid.New()).RequireAdmin("approve"); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := User(uuid.New()).RequireAdmin("approve"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := Admin(uuid.Nil).RequireAdmin("approve"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("admin without id must be rejected, got %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context must not carry an actor")
	}

	want := User(uuid.New())
	got, ok := FromContext(WithActor(context.Background(), want))
	if !ok || got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
