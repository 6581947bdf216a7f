package httpx

import (
	"context"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
)

// principalKey is an unexported context key type to avoid collisions
// across packages. All handlers and middleware use the same key.
type principalKey struct{}

// SetPrincipalInContext returns a child context carrying the principal.
func SetPrincipalInContext(ctx context.Context, p domainauth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal and a
// boolean indicating presence.
func PrincipalFromContext(ctx context.Context) (domainauth.Principal, bool) {
	if p, ok := ctx.Value(principalKey{}).(domainauth.Principal); ok {
		return p, true
	}
	return domainauth.Principal{}, false
}
