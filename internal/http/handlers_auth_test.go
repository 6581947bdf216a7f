package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(t *testing.T, f *routerFixture, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestUserLoginSetsSessionAndStickyCookies(t *testing.T) {
	f := newRouterFixture(t)

	rec := postForm(t, f, "/Login/auth", url.Values{
		"ns":       {testNS},
		"username": {"siti"},
		"password": {"rahasia"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user/Dashboard", rec.Header().Get("Location"))

	var session, sticky *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case "user_session_" + testNS:
			session = c
		case "current_user_ns":
			sticky = c
		}
	}
	require.NotNil(t, session)
	require.NotNil(t, sticky)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.Positive(t, session.MaxAge)
	assert.Equal(t, testNS, sticky.Value)

	claims, err := f.codec.Verify(session.Value)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.PrincipalID())
	assert.Equal(t, testNS, claims.Namespace)
}

func TestUserLoginHonorsFromParameter(t *testing.T) {
	f := newRouterFixture(t)

	rec := postForm(t, f, "/Login/auth", url.Values{
		"ns":       {testNS},
		"username": {"siti"},
		"password": {"rahasia"},
		"from":     {"/user/bookings/new"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/user/bookings/new", rec.Header().Get("Location"))
}

func TestUserLoginRejectsOffsiteFromParameter(t *testing.T) {
	f := newRouterFixture(t)

	for _, from := range []string{"https://evil.example/", "//evil.example", "/admin/Dashboard"} {
		rec := postForm(t, f, "/Login/auth", url.Values{
			"ns":       {testNS},
			"username": {"siti"},
			"password": {"rahasia"},
			"from":     {from},
		})
		require.Equal(t, http.StatusFound, rec.Code, from)
		assert.Equal(t, "/user/Dashboard", rec.Header().Get("Location"), from)
	}
}

func TestUserLoginWrongPassword(t *testing.T) {
	f := newRouterFixture(t)

	rec := postForm(t, f, "/Login/auth", url.Values{
		"ns":       {testNS},
		"username": {"siti"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/Login/hal-login?err=invalid_credentials")
	assert.Empty(t, rec.Result().Cookies())
}

func TestUserLoginWrongPasswordJSON(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/Login/auth",
		strings.NewReader(`{"ns":"`+testNS+`","username":"siti","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestAdminLoginRejectsPlainUser(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/Signin/auth",
		strings.NewReader(`{"ns":"`+testNS+`","username":"siti","password":"rahasia"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "role_not_allowed")
}

func TestAdminLoginSucceeds(t *testing.T) {
	f := newRouterFixture(t)

	rec := postForm(t, f, "/Signin/auth", url.Values{
		"ns":       {testNS},
		"username": {"admin"},
		"password": {"adminpw"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/Dashboard", rec.Header().Get("Location"))

	names := make([]string, 0, 2)
	for _, c := range rec.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "admin_session_"+testNS)
	assert.Contains(t, names, "current_admin_ns")
}

func TestLogoutRevokesAndClearsCookies(t *testing.T) {
	f := newRouterFixture(t)
	token := userToken(t, f)

	rec := postForm(t, f, "/user/logout", url.Values{},
		&http.Cookie{Name: "current_user_ns", Value: testNS},
		&http.Cookie{Name: "user_session_" + testNS, Value: token},
	)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/Login/hal-login", rec.Header().Get("Location"))
	assert.True(t, f.revoked.revoked["jti-user"])

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared["user_session_"+testNS])
	assert.True(t, cleared["current_user_ns"])

	// The revoked session no longer passes the gate.
	after := doGet(t, f, "/user/api/bookings",
		&http.Cookie{Name: "user_session_" + testNS, Value: token})
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestStatusAnonymous(t *testing.T) {
	f := newRouterFixture(t)

	rec := doGet(t, f, "/auth/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestStatusAuthenticated(t *testing.T) {
	f := newRouterFixture(t)

	rec := doGet(t, f, "/auth/status",
		&http.Cookie{Name: "user_session_" + testNS, Value: userToken(t, f)})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"authenticated":true`)
	assert.Contains(t, body, `"ns":"`+testNS+`"`)
	assert.Contains(t, body, `"user_id":42`)
}

func TestLoginPageRendersForm(t *testing.T) {
	f := newRouterFixture(t)

	rec := doGet(t, f, "/Login/hal-login?ns="+testNS+"&from=%2Fuser%2FDashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/Login/auth"`)
	assert.Contains(t, body, testNS)
}
