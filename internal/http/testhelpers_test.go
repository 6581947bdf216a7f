package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarpras/portal/internal/adapters/jwtauth"
	domainauth "github.com/sarpras/portal/internal/domain/auth"
	"github.com/sarpras/portal/internal/domain/model"
	"github.com/sarpras/portal/internal/ports"
	"github.com/sarpras/portal/internal/service"
)

const (
	testSecret = "router-test-secret"
	testNS     = "kampus01"
)

type memAccounts struct {
	byKey map[string]*model.Account
}

func (m *memAccounts) FindByUsername(_ context.Context, ns, username string) (*model.Account, error) {
	if acc, ok := m.byKey[ns+"/"+username]; ok {
		return acc, nil
	}
	return nil, ports.ErrAccountNotFound
}

type memRevoked struct {
	revoked map[string]bool
}

func (m *memRevoked) Revoke(_ context.Context, jti string, _ time.Duration) error {
	if m.revoked == nil {
		m.revoked = map[string]bool{}
	}
	m.revoked[jti] = true
	return nil
}

func (m *memRevoked) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

type memBookings struct{}

func (memBookings) ListForUser(_ context.Context, ns string, userID int) ([]model.Booking, error) {
	return []model.Booking{{ID: 1, Namespace: ns, UserID: userID, Kind: "room", Status: "confirmed"}}, nil
}

type memCatalog struct{}

func (memCatalog) ListServices(_ context.Context, ns string) ([]model.Service, error) {
	return []model.Service{{ID: 2, Namespace: ns, Name: "meeting-room", Enabled: true}}, nil
}

type routerFixture struct {
	handler http.Handler
	codec   *jwtauth.Codec
	svc     *service.AuthService
	revoked *memRevoked
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	codec, err := jwtauth.NewCodec(jwtauth.Config{Secret: testSecret})
	require.NoError(t, err)

	accounts := &memAccounts{byKey: map[string]*model.Account{
		testNS + "/siti": {
			ID: 42, Namespace: testNS, Username: "siti", DisplayName: "Siti",
			PasswordHash: mustHash(t, "rahasia"), Role: "user", RoleID: 3, Active: true,
		},
		testNS + "/admin": {
			ID: 9, Namespace: testNS, Username: "admin", DisplayName: "Admin",
			PasswordHash: mustHash(t, "adminpw"), Role: "admin_fitur", RoleID: 2, Active: true,
		},
	}}

	revoked := &memRevoked{}
	svc := service.NewAuthService(service.AuthServiceOptions{
		Codec:         codec,
		Accounts:      accounts,
		Revoked:       revoked,
		TokenLifetime: time.Hour,
		Logger:        slog.Default(),
	})

	handler := NewRouter(RouterServices{
		Auth:           svc,
		Bookings:       memBookings{},
		Catalog:        memCatalog{},
		TokenLifetime:  time.Hour,
		StickyLifetime: 24 * time.Hour,
		Logger:         slog.Default(),
	})

	return &routerFixture{handler: handler, codec: codec, svc: svc, revoked: revoked}
}

func (f *routerFixture) token(t *testing.T, claims domainauth.Claims) string {
	t.Helper()
	token, err := f.codec.Issue(claims)
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, f *routerFixture) string {
	return f.token(t, domainauth.Claims{
		Subject: "42", Name: "Siti", Role: "user", Namespace: testNS, TokenID: "jti-user",
	})
}

func adminToken(t *testing.T, f *routerFixture) string {
	return f.token(t, domainauth.Claims{
		Subject: "9", Name: "Admin", Role: "admin_fitur", RoleID: 2, Namespace: testNS, TokenID: "jti-admin",
	})
}

func mintClaims(ns string) domainauth.Claims {
	return domainauth.Claims{Subject: "42", Role: "user", Namespace: ns, TokenID: "jti-x"}
}
