package middleware

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

// ContextKey is a private key type so context values set here cannot
// collide with other packages.
type ContextKey string

const identityCtxKey = ContextKey("identity")

// WithIdentity returns a context carrying the caller's identity facts.
func WithIdentity(ctx context.Context, identity entity.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext extracts the identity set by the auth middleware.
// The second return is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (entity.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(entity.Identity)
	return identity, ok
}
