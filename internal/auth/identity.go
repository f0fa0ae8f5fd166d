// Package auth verifies the bearer tokens issued by the external
// authentication service. Token issuance is not this service's concern; it
// only parses, validates and exposes the request identity.
package auth

import "context"

// Identity describes the authenticated operator on a request.
type Identity struct {
	UserID int64
	Name   string
	Role   string
}

type contextKey struct{}

// ContextWithIdentity stores the identity on the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the identity set by the middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
