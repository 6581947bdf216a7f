package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sarpras/portal/config"
	"github.com/sarpras/portal/internal/adapters/jwtauth"
	redisadapter "github.com/sarpras/portal/internal/adapters/redis"
	"github.com/sarpras/portal/internal/data"
	"github.com/sarpras/portal/internal/service"
)

// AuthComponents bundles the authentication stack built at startup.
type AuthComponents struct {
	Codec   *jwtauth.Codec
	Service *service.AuthService
}

// BuildAuthService constructs the token codec and auth service. A
// missing JWT secret fails startup here, once, instead of failing
// every request later.
func BuildAuthService(cfg config.AuthConfig, db *sql.DB, redisClient goredis.UniversalClient, logger *slog.Logger) (*AuthComponents, error) {
	codec, err := jwtauth.NewCodec(jwtauth.Config{
		Secret:   cfg.JWTSecret,
		Lifetime: cfg.TokenLifetime,
		Leeway:   cfg.ClockSkew,
	})
	if err != nil {
		return nil, fmt.Errorf("build token codec: %w", err)
	}

	opts := service.AuthServiceOptions{
		Codec:         codec,
		Accounts:      data.NewAccountRepo(db),
		TokenLifetime: cfg.TokenLifetime,
		Logger:        logger,
	}
	if redisClient != nil {
		opts.Revoked = redisadapter.NewRevocationStore(redisClient)
	}
	svc := service.NewAuthService(opts)

	return &AuthComponents{Codec: codec, Service: svc}, nil
}
