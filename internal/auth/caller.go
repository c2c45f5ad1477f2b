package auth

import (
	"context"

	"github.com/google/uuid"
)

// RoleAdmin grants write access to platforms and watchlist items.
const RoleAdmin = "admin"

// Caller identifies who is making a request. The zero value is anonymous.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

// Authenticated reports whether the caller presented a valid identity.
func (c Caller) Authenticated() bool {
	return c.UserID != uuid.Nil
}

// IsAdmin reports whether the caller holds staff privileges.
func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}

type callerCtxKey struct{}

// WithCaller stores the caller on the context. Only the identity middleware
// should call this; handlers read it once and pass it on explicitly.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, c)
}

// CallerFrom returns the caller stored on ctx, or the anonymous caller.
func CallerFrom(ctx context.Context) Caller {
	c, _ := ctx.Value(callerCtxKey{}).(Caller)
	return c
}
