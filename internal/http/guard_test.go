package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
)

func TestGuardReusesResolvedPrincipal(t *testing.T) {
	f := newRouterFixture(t)
	guard := Guard{Resolver: f.svc}

	p := domainauth.Principal{
		UserID: 42, Role: domainauth.RoleUser, Namespace: testNS, Scope: domainauth.ScopeUser,
	}
	req := httptest.NewRequest(http.MethodGet, "/user/api/bookings", nil)
	req = req.WithContext(SetPrincipalInContext(req.Context(), p))

	res := guard.Check(req, []domainauth.Role{domainauth.RoleUser}, domainauth.ScopeUser)
	require.True(t, res.OK)
	assert.Equal(t, 42, res.UserID)
	assert.Equal(t, testNS, res.Namespace)
}

func TestGuardRejectsWrongRoleOnContextPrincipal(t *testing.T) {
	f := newRouterFixture(t)
	guard := Guard{Resolver: f.svc}

	p := domainauth.Principal{
		UserID: 42, Role: domainauth.RoleUser, Namespace: testNS, Scope: domainauth.ScopeUser,
	}
	req := httptest.NewRequest(http.MethodGet, "/user/api/special", nil)
	req = req.WithContext(SetPrincipalInContext(req.Context(), p))

	res := guard.Check(req, []domainauth.Role{domainauth.RoleAdminFitur}, domainauth.ScopeUser)
	assert.False(t, res.OK)
	assert.Equal(t, domainauth.ReasonRole, res.Reason)
}

func TestGuardResolvesWhenNoContextPrincipal(t *testing.T) {
	f := newRouterFixture(t)
	guard := Guard{Resolver: f.svc}

	req := httptest.NewRequest(http.MethodGet, "/user/api/bookings", nil)
	req.AddCookie(&http.Cookie{Name: "user_session_" + testNS, Value: userToken(t, f)})

	res := guard.Check(req, []domainauth.Role{domainauth.RoleUser}, domainauth.ScopeUser)
	require.True(t, res.OK)
	assert.Equal(t, domainauth.RoleUser, res.Role)
}

func TestGuardAdminEndpointAllowsSuperAdmin(t *testing.T) {
	f := newRouterFixture(t)

	super := f.token(t, domainauth.Claims{
		Subject: "1", Role: "super_admin", Namespace: testNS, TokenID: "jti-super",
	})
	rec := doGet(t, f, "/admin/api/services",
		&http.Cookie{Name: "admin_session_" + testNS, Value: super})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"services"`)
}

func TestGuardAdminEndpointServesAdminFitur(t *testing.T) {
	f := newRouterFixture(t)

	rec := doGet(t, f, "/admin/api/services",
		&http.Cookie{Name: "admin_session_" + testNS, Value: adminToken(t, f)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meeting-room")
}
