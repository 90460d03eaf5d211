package storefront

import (
	"context"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/pkg/errors"
)

type identityCtxKey struct{}

// Identity is the per-request caller identity. In database mode the auth
// middleware resolves the bearer token into a UserID; in REST mode the raw
// token is forwarded upstream unchanged.
type Identity struct {
	UserID uuid.UUID
	Token  string
}

// Authenticated reports whether the identity resolves to a known user.
func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil || i.Token != ""
}

// WithIdentity attaches the caller identity to the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext extracts the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok || !identity.Authenticated() {
		return Identity{}, false
	}
	return identity, true
}

// RequireIdentity returns the caller identity or an UNAUTHORIZED error.
// User-scoped operations call this before touching the network or database.
func RequireIdentity(ctx context.Context) (Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, errors.New(errors.CodeUnauthorized, "authentication required")
	}
	return identity, nil
}

// RequireUserID returns the resolved user id or an UNAUTHORIZED error.
func RequireUserID(ctx context.Context) (uuid.UUID, error) {
	identity, err := RequireIdentity(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if identity.UserID == uuid.Nil {
		return uuid.Nil, errors.New(errors.CodeUnauthorized, "authentication required")
	}
	return identity.UserID, nil
}
