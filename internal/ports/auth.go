package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
	"github.com/sarpras/portal/internal/domain/model"
)

// ErrAccountNotFound is the lookup miss sentinel shared by all
// AccountRepository implementations.
var ErrAccountNotFound = errors.New("account not found")

// TokenCodec issues and verifies signed session tokens. Issue is used
// exclusively by the login flow; Verify exclusively by the resolver.
// Verify must never panic; all failures come back as errors.
type TokenCodec interface {
	Issue(claims domainauth.Claims) (string, error)
	Verify(token string) (*domainauth.Claims, error)
}

// AccountRepository looks up login accounts, scoped by namespace.
type AccountRepository interface {
	FindByUsername(ctx context.Context, ns, username string) (*model.Account, error)
}

// RevocationStore remembers revoked token ids (JTI) until the token
// would have expired anyway, so logout invalidates live tokens.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
