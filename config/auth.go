package config

import "time"

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// JWTSecret is the shared HMAC signing secret for session tokens.
	// Its absence is a deployment defect, checked at startup.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenLifetime is how long an issued session token stays valid.
	TokenLifetime time.Duration `env:"AUTH_TOKEN_LIFETIME" envDefault:"1h"`

	// ClockSkew is the leeway applied when checking token expiry.
	ClockSkew time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"10s"`

	// StickyNSLifetime is how long the namespace hint cookies
	// (current_user_ns / current_admin_ns) live.
	StickyNSLifetime time.Duration `env:"AUTH_STICKY_NS_LIFETIME" envDefault:"720h"`

	// BcryptCost is used when hashing new account passwords.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.TokenLifetime <= 0 {
		a.TokenLifetime = time.Hour
	}
	if a.ClockSkew < 0 {
		a.ClockSkew = 0
	}
	if a.StickyNSLifetime <= 0 {
		a.StickyNSLifetime = 720 * time.Hour
	}
	const minBcryptCost, maxBcryptCost = 4, 31
	if a.BcryptCost < minBcryptCost || a.BcryptCost > maxBcryptCost {
		a.BcryptCost = 10
	}
}
