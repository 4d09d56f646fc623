// Package actor carries the authenticated identity that performs an operation.
package actor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/refbonus/refbonus-api/internal/pkg/apperr"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Actor is the caller of a service operation.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func Admin(id uuid.UUID) Actor { return Actor{UserID: id, Role: RoleAdmin} }

func User(id uuid.UUID) Actor { return Actor{UserID: id, Role: RoleUser} }

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin && a.UserID != uuid.Nil
}

// RequireAdmin returns an authorization error unless a is an admin.
func (a Actor) RequireAdmin(action string) error {
	if !a.IsAdmin() {
		return fmt.Errorf("%w: %s requires an administrator", apperr.ErrForbidden, action)
	}
	return nil
}

type contextKey struct{}

// WithActor stores a in ctx. Only the auth middleware should call it.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the actor stored by the auth middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(contextKey{}).(Actor)
	return a, ok
}
