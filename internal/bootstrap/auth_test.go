package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarpras/portal/config"
	"github.com/sarpras/portal/internal/adapters/jwtauth"
)

func TestBuildAuthServiceRequiresSecret(t *testing.T) {
	_, err := BuildAuthService(config.AuthConfig{}, nil, nil, slog.Default())
	assert.ErrorIs(t, err, jwtauth.ErrNoSecret)
}

func TestBuildAuthService(t *testing.T) {
	components, err := BuildAuthService(config.AuthConfig{JWTSecret: "s3cret"}, nil, nil, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, components.Codec)
	require.NotNil(t, components.Service)
}
