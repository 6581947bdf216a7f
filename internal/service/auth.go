package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
	"github.com/sarpras/portal/internal/domain/model"
	apperrors "github.com/sarpras/portal/internal/errors"
	"github.com/sarpras/portal/internal/ports"
)

// Login failure sentinels. Credential failures are deliberately
// indistinct so responses cannot be used to probe for usernames.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrRoleNotAllowed     = errors.New("role not allowed in this area")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Codec         ports.TokenCodec
	Accounts      ports.AccountRepository
	Revoked       ports.RevocationStore
	TokenLifetime time.Duration
	Logger        *slog.Logger
}

// AuthService is the single source of truth for the namespaced session
// protocol: it resolves requests to verdicts and orchestrates login,
// logout, and token issuance. The gateway filter and the endpoint
// guard both call Resolve and only translate its outcome.
type AuthService struct {
	codec         ports.TokenCodec
	accounts      ports.AccountRepository
	revoked       ports.RevocationStore
	tokenLifetime time.Duration
	logger        *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		codec:         opts.Codec,
		accounts:      opts.Accounts,
		revoked:       opts.Revoked,
		tokenLifetime: opts.TokenLifetime,
		logger:        opts.Logger,
	}
	if s.tokenLifetime <= 0 {
		s.tokenLifetime = time.Hour
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Resolve reduces a normalized request to a verdict for the given
// area, short-circuiting on the first failed check. An empty
// allowedRoles list means any role may pass the role check; the
// role-to-scope table still applies. Resolve never panics into its
// caller: unexpected failures become VERIFY_FAIL verdicts. It is
// idempotent and side-effect free apart from the revocation lookup.
func (s *AuthService) Resolve(
	ctx context.Context,
	info domainauth.RequestInfo,
	allowedRoles []domainauth.Role,
	scope domainauth.Scope,
) (verdict domainauth.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "session resolution panicked", "panic", r)
			verdict = domainauth.RejectedDetail(domainauth.ReasonVerifyFail, fmt.Sprint(r))
		}
	}()

	// 1. Derive the request namespace.
	ns := domainauth.ExtractNamespace(info)
	if ns == "" {
		return domainauth.Rejected(domainauth.ReasonNoNS)
	}

	// 2. Locate the area's session cookie for that namespace.
	token, ok := info.Cookies[domainauth.SessionCookieName(scope, ns)]
	if !ok || token == "" {
		return domainauth.Rejected(domainauth.ReasonNoToken)
	}

	// 3. A missing signing secret is a deployment defect; surface it
	// distinctly so operators are alerted instead of chasing clients.
	if s.codec == nil {
		return domainauth.Rejected(domainauth.ReasonNoSecret)
	}

	// 4. Verify signature and expiry.
	claims, err := s.codec.Verify(token)
	if err != nil {
		return domainauth.RejectedDetail(domainauth.ReasonJWTInvalid, err.Error())
	}

	// Logout denylist. A lookup failure is logged and treated as not
	// revoked so a degraded Redis cannot lock every tenant out.
	if s.revoked != nil && claims.TokenID != "" {
		revoked, revErr := s.revoked.IsRevoked(ctx, claims.TokenID)
		if revErr != nil {
			s.logger.WarnContext(ctx, "revocation check failed", "error", revErr)
		} else if revoked {
			return domainauth.RejectedDetail(domainauth.ReasonJWTInvalid, "token revoked")
		}
	}

	// 5. The token's namespace claim must match the request namespace.
	if claims.Namespace != "" && claims.Namespace != ns {
		return domainauth.RejectedDetail(domainauth.ReasonNSMismatch, claims.Namespace)
	}

	// 6. Normalize the claimed role.
	role := domainauth.NormalizeRole(claims.Role)

	principal := domainauth.Principal{
		UserID:     claims.PrincipalID(),
		Name:       claims.Name,
		Role:       role,
		RoleID:     claims.RoleID,
		ServiceIDs: claims.ServiceIDs,
		Namespace:  ns,
		Scope:      scope,
	}

	// 7. Super admins may act in any scope.
	if role == domainauth.RoleSuperAdmin || claims.RoleID == domainauth.SuperAdminRoleID {
		principal.Role = domainauth.RoleSuperAdmin
		return domainauth.Authenticated(principal)
	}

	// 8. Caller-supplied role restriction. The detail carries the
	// normalized role for diagnostic headers.
	if len(allowedRoles) > 0 && !roleIn(role, allowedRoles) {
		return domainauth.RejectedDetail(domainauth.ReasonRole, string(role))
	}

	// 9. Fixed role-to-scope table.
	if !domainauth.ScopeAllowed(role, scope) {
		return domainauth.RejectedDetail(domainauth.ReasonScopeMismatch, string(role))
	}

	// 10. Authenticated.
	return domainauth.Authenticated(principal)
}

func roleIn(role domainauth.Role, set []domainauth.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}

// LoginInput groups parameters for a namespace-scoped login.
type LoginInput struct {
	Namespace string
	Username  string
	Password  string
	Scope     domainauth.Scope
}

// LoginResult contains the issued token and its claim set.
type LoginResult struct {
	Token     string
	Claims    domainauth.Claims
	Account   *model.Account
	ExpiresAt time.Time
}

// Login authenticates a namespace-scoped account for the given area
// and issues a session token. Only this path constructs valid tokens.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if !domainauth.ValidNamespace(input.Namespace) {
		return nil, apperrors.ValidationField("ns", "invalid namespace")
	}
	if !domainauth.ValidScope(input.Scope) {
		return nil, apperrors.ValidationField("scope", "invalid scope")
	}
	if input.Username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if s.codec == nil {
		return nil, errors.New("token codec not configured")
	}

	acc, err := s.accounts.FindByUsername(ctx, input.Namespace, input.Username)
	if err != nil {
		if errors.Is(err, ports.ErrAccountNotFound) || apperrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if acc == nil {
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(input.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	role := domainauth.NormalizeRole(acc.Role)
	if !loginAllowed(role, acc.RoleID, input.Scope) {
		return nil, ErrRoleNotAllowed
	}

	now := time.Now()
	claims := domainauth.Claims{
		Subject:    strconv.Itoa(acc.ID),
		Name:       acc.DisplayName,
		Role:       string(role),
		RoleID:     acc.RoleID,
		ServiceIDs: acc.ServiceIDs,
		Namespace:  input.Namespace,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.tokenLifetime),
		TokenID:    uuid.NewString(),
	}

	token, err := s.codec.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded",
		"ns", input.Namespace, "user_id", acc.ID, "role", role, "scope", input.Scope)

	return &LoginResult{
		Token:     token,
		Claims:    claims,
		Account:   acc,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// loginAllowed checks which area an account may sign in to. Super
// admins may enter either area; everyone else follows the scope table.
func loginAllowed(role domainauth.Role, roleID int, scope domainauth.Scope) bool {
	if role == domainauth.RoleSuperAdmin || roleID == domainauth.SuperAdminRoleID {
		return true
	}
	return domainauth.ScopeAllowed(role, scope)
}

// Logout revokes the session token's id for its remaining lifetime so
// a copied token dies with the session. Invalid or expired tokens are
// a no-op: there is nothing live to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.codec == nil {
		return nil
	}
	claims, err := s.codec.Verify(token)
	if err != nil || claims.TokenID == "" {
		return nil
	}
	if s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("revoke session token: %w", err)
	}
	s.logger.InfoContext(ctx, "session revoked", "ns", claims.Namespace, "jti", claims.TokenID)
	return nil
}
