package redis

// Package redis provides Redis-based adapters for the portal.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is a Redis-backed revoked-token (JTI) denylist.
// Entries live only as long as the token they shadow would have; Redis
// TTL handles expiry so the set never needs sweeping.
type RevocationStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRevocationStore creates a revocation store with the default
// key prefix.
func NewRevocationStore(client redis.UniversalClient) *RevocationStore {
	return &RevocationStore{client: client, prefix: "revoked_jti:"}
}

// NewRevocationStoreWithPrefix creates a revocation store with a
// custom key prefix.
func NewRevocationStoreWithPrefix(client redis.UniversalClient, prefix string) *RevocationStore {
	return &RevocationStore{client: client, prefix: prefix}
}

// Revoke marks a token id as revoked for the given remaining lifetime.
// A non-positive ttl means the token is already expired and there is
// nothing to remember.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("token id cannot be empty")
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id is on the denylist. Tokens
// without a jti are never considered revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := s.client.Get(ctx, s.prefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}
