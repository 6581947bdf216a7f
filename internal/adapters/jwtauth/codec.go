package jwtauth

// Package jwtauth signs and verifies the portal's session tokens:
// compact HMAC-SHA256 JWTs carrying the namespaced session claims.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
)

// DefaultLeeway is the clock-skew tolerance applied to expiry checks.
const DefaultLeeway = 10 * time.Second

// ErrNoSecret is returned when the codec is built without a secret.
var ErrNoSecret = errors.New("jwt signing secret not configured")

// Config groups codec construction parameters.
type Config struct {
	// Secret is the shared HMAC signing secret. Required.
	Secret string
	// Lifetime is the default token lifetime when claims carry no
	// explicit expiry. Defaults to one hour.
	Lifetime time.Duration
	// Leeway is the expiry clock-skew tolerance. Defaults to 10s.
	Leeway time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Codec issues and verifies session tokens. It implements
// ports.TokenCodec. Verification is a pure computation with no I/O.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// NewCodec builds a Codec. A missing secret is a configuration defect
// and fails construction rather than every later request.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	c := &Codec{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.Lifetime,
		leeway:   cfg.Leeway,
		now:      cfg.Now,
	}
	if c.lifetime <= 0 {
		c.lifetime = time.Hour
	}
	if c.leeway <= 0 {
		c.leeway = DefaultLeeway
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// sessionClaims is the wire shape of the token claim set.
type sessionClaims struct {
	jwt.RegisteredClaims

	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	RoleID     int    `json:"role_id,omitempty"`
	ServiceIDs []int  `json:"service_ids,omitempty"`
	NS         string `json:"ns"`
	UserID     int    `json:"user_id,omitempty"`
	LegacyID   int    `json:"id,omitempty"`
}

// Issue signs a token for the given claims. Zero IssuedAt/ExpiresAt
// default to now and now+lifetime.
func (c *Codec) Issue(claims domainauth.Claims) (string, error) {
	iat := claims.IssuedAt
	if iat.IsZero() {
		iat = c.now()
	}
	exp := claims.ExpiresAt
	if exp.IsZero() {
		exp = iat.Add(c.lifetime)
	}

	sc := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        claims.TokenID,
		},
		Name:       claims.Name,
		Role:       claims.Role,
		RoleID:     claims.RoleID,
		ServiceIDs: claims.ServiceIDs,
		NS:         claims.Namespace,
		UserID:     claims.UserID,
		LegacyID:   claims.AltID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, and expiry (with leeway) and
// returns the decoded claim set. All failures are returned as errors;
// this boundary never panics into its caller.
func (c *Codec) Verify(token string) (*domainauth.Claims, error) {
	if len(c.secret) == 0 {
		return nil, ErrNoSecret
	}
	if token == "" {
		return nil, errors.New("token is empty")
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{},
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token claims have unexpected shape")
	}

	out := &domainauth.Claims{
		Subject:    sc.Subject,
		UserID:     sc.UserID,
		AltID:      sc.LegacyID,
		Name:       sc.Name,
		Role:       sc.Role,
		RoleID:     sc.RoleID,
		ServiceIDs: sc.ServiceIDs,
		Namespace:  sc.NS,
		TokenID:    sc.ID,
	}
	if sc.IssuedAt != nil {
		out.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		out.ExpiresAt = sc.ExpiresAt.Time
	}
	return out, nil
}
