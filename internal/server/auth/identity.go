package auth

import (
	"context"

	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Email  string
	Role   models.Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
