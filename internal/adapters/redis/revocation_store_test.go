package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationStore(client), mr
}

func TestRevokeAndCheck(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationExpiresWithTokenLifetime(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-2", 30*time.Minute))
	mr.FastForward(31 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeValidation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Revoke(ctx, "", time.Hour))

	// Already-expired token: nothing to remember, not an error.
	assert.NoError(t, store.Revoke(ctx, "jti-3", -time.Second))
	revoked, err := store.IsRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestEmptyJTINeverRevoked(t *testing.T) {
	store, _ := newTestStore(t)
	revoked, err := store.IsRevoked(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, revoked)
}
