package auth

// Package auth contains domain-level types for the namespaced session
// protocol. It is pure and free of framework/adapter concerns.

import (
	"strconv"
	"strings"
	"time"
)

// Role represents a canonical authorization role.
// Keep string form for easy persistence and token claims.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdminFitur Role = "admin_fitur"
	RoleUser       Role = "user"
	// RoleUnknown is the sentinel for empty/unrecognized input.
	RoleUnknown Role = ""
)

// SuperAdminRoleID is the distinguished role id that also triggers the
// super-admin bypass, independent of the role string.
const SuperAdminRoleID = 1

// NormalizeRole maps arbitrary role spellings to a canonical Role.
// Matching is case-insensitive and alias-tolerant; unrecognized
// non-empty input is returned lower-cased. Total, never panics.
func NormalizeRole(raw string) Role {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return RoleUnknown
	}
	switch v {
	case "super_admin", "superadmin", "super-admin", "super admin":
		return RoleSuperAdmin
	case "admin_fitur", "adminfitur", "admin-fitur", "admin fitur", "admin":
		return RoleAdminFitur
	case "user":
		return RoleUser
	}
	return Role(v)
}

// Scope is one of the two top-level protected areas.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// ValidScope reports whether s is one of the two known areas.
func ValidScope(s Scope) bool { return s == ScopeUser || s == ScopeAdmin }

// roleScopes is the fixed role-to-scope table. Super admin is listed
// for completeness; the bypass rule in the resolver makes it moot.
var roleScopes = map[Role][]Scope{
	RoleSuperAdmin: {ScopeAdmin},
	RoleAdminFitur: {ScopeAdmin},
	RoleUser:       {ScopeUser},
}

// ScopeAllowed reports whether the role's permitted scope set includes
// the requested scope. Unknown roles have no permitted scopes.
func ScopeAllowed(role Role, scope Scope) bool {
	for _, s := range roleScopes[role] {
		if s == scope {
			return true
		}
	}
	return false
}

// Claims is the decoded session token claim set.
// Created at login, verified on every protected request, never mutated.
type Claims struct {
	Subject    string
	UserID     int // fallback principal id claim
	AltID      int // secondary fallback ("id")
	Name       string
	Role       string
	RoleID     int
	ServiceIDs []int
	Namespace  string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	TokenID    string
}

// PrincipalID returns the first usable principal id: the subject claim
// coerced to an integer, then user_id, then id. Zero when none parse.
func (c Claims) PrincipalID() int {
	if c.Subject != "" {
		if id, err := strconv.Atoi(c.Subject); err == nil {
			return id
		}
	}
	if c.UserID != 0 {
		return c.UserID
	}
	return c.AltID
}

// Reason is a rejection reason code. The set is closed; see the
// constants below.
type Reason string

const (
	ReasonNoNS          Reason = "NO_NS"
	ReasonNoToken       Reason = "NO_TOKEN"
	ReasonNoSecret      Reason = "NO_SECRET"
	ReasonJWTInvalid    Reason = "JWT_INVALID"
	ReasonNSMismatch    Reason = "NS_MISMATCH"
	ReasonRole          Reason = "ROLE"
	ReasonScopeMismatch Reason = "SCOPE_MISMATCH"
	ReasonVerifyFail    Reason = "VERIFY_FAIL"
)

// Principal describes the authenticated caller attached to a request.
type Principal struct {
	UserID     int
	Name       string
	Role       Role
	RoleID     int
	ServiceIDs []int
	Namespace  string
	Scope      Scope
}

// Verdict is the resolver's outcome: either an authenticated principal
// or a rejection with a reason code. Pure value, never persisted.
type Verdict struct {
	OK        bool
	Reason    Reason
	Detail    string // diagnostic only, never shown to end users
	Principal Principal
}

// Authenticated builds a successful verdict.
func Authenticated(p Principal) Verdict {
	return Verdict{OK: true, Principal: p}
}

// Rejected builds a failed verdict with the given reason.
func Rejected(reason Reason) Verdict {
	return Verdict{Reason: reason}
}

// RejectedDetail builds a failed verdict carrying a diagnostic detail.
func RejectedDetail(reason Reason, detail string) Verdict {
	return Verdict{Reason: reason, Detail: detail}
}
