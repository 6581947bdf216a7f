package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
)

var errUnauthenticated = errors.New("authentication required")

// GuardResult is the flattened outcome handlers branch on.
type GuardResult struct {
	OK         bool
	Reason     domainauth.Reason
	UserID     int
	Role       domainauth.Role
	RoleID     int
	Namespace  string
	Scope      domainauth.Scope
	ServiceIDs []int
}

// Guard is the per-endpoint authorization check. It reuses the
// principal the gateway already resolved when one is on the context,
// so a request is verified once, and falls back to a full resolution
// for endpoints reachable outside the gated areas.
type Guard struct {
	Resolver SessionResolver
}

// Check authorizes the request for the given roles and area.
func (g Guard) Check(r *http.Request, allowed []domainauth.Role, scope domainauth.Scope) GuardResult {
	if p, ok := PrincipalFromContext(r.Context()); ok && p.Scope == scope {
		if !roleAllowed(p, allowed) {
			return GuardResult{Reason: domainauth.ReasonRole}
		}
		return resultFromPrincipal(p)
	}

	verdict := g.Resolver.Resolve(r.Context(), RequestInfoFromRequest(r), allowed, scope)
	if !verdict.OK {
		return GuardResult{Reason: verdict.Reason}
	}
	return resultFromPrincipal(verdict.Principal)
}

func roleAllowed(p domainauth.Principal, allowed []domainauth.Role) bool {
	if p.Role == domainauth.RoleSuperAdmin || p.RoleID == domainauth.SuperAdminRoleID {
		return true
	}
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if role == p.Role {
			return true
		}
	}
	return false
}

func resultFromPrincipal(p domainauth.Principal) GuardResult {
	return GuardResult{
		OK:         true,
		UserID:     p.UserID,
		Role:       p.Role,
		RoleID:     p.RoleID,
		Namespace:  p.Namespace,
		Scope:      p.Scope,
		ServiceIDs: p.ServiceIDs,
	}
}

// WriteGuardDenial writes the JSON rejection for a failed guard check.
// Role and scope failures are 403; everything else is 401.
func WriteGuardDenial(w http.ResponseWriter, res GuardResult) {
	code := http.StatusUnauthorized
	if res.Reason == domainauth.ReasonRole || res.Reason == domainauth.ReasonScopeMismatch {
		code = http.StatusForbidden
	}
	WriteError(w, ErrorParams{Code: code, ErrCode: string(res.Reason), Err: errUnauthenticated})
}

// RequireRoles wraps a handler with a guard check, attaching the
// principal to the context on success.
func RequireRoles(g Guard, scope domainauth.Scope, allowed ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := g.Check(r, allowed, scope)
			if !res.OK {
				WriteGuardDenial(w, res)
				return
			}
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				ctx := SetPrincipalInContext(r.Context(), domainauth.Principal{
					UserID:     res.UserID,
					Role:       res.Role,
					RoleID:     res.RoleID,
					ServiceIDs: res.ServiceIDs,
					Namespace:  res.Namespace,
					Scope:      res.Scope,
				})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
