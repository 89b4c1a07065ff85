package users

import (
	"context"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/google/uuid"
)

type contextKey struct {
	name string
}

var userCtxKey = &contextKey{"user"}

// UserContextValue is the authenticated principal attached to a request.
type UserContextValue struct {
	ID    uuid.UUID
	Email string
	Role  string
}

func (u *UserContextValue) IsAdmin() bool {
	return u != nil && u.Role == constants.RoleAdmin
}

func NewContextWithUser(ctx context.Context, user *UserContextValue) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext returns the principal, or false when the request is anonymous.
func FromContext(ctx context.Context) (*UserContextValue, bool) {
	user, ok := ctx.Value(userCtxKey).(*UserContextValue)
	return user, ok && user != nil
}
