package httpx

import (
	"errors"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
	apperrors "github.com/sarpras/portal/internal/errors"
	"github.com/sarpras/portal/internal/observability/metrics"
	"github.com/sarpras/portal/internal/service"
)

// AuthHandlers serves login, logout, and session status.
type AuthHandlers struct {
	Svc            *service.AuthService
	Metrics        metrics.AuthMetrics
	Logger         *slog.Logger
	CookieDomain   string
	TokenLifetime  time.Duration
	StickyLifetime time.Duration
}

func (h *AuthHandlers) metrics() metrics.AuthMetrics {
	if h.Metrics == nil {
		return metrics.Noop{}
	}
	return h.Metrics
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// loginRequest accepts both form posts from the login pages and JSON
// bodies from API clients.
type loginRequest struct {
	NS       string `json:"ns"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
}

func (h *AuthHandlers) readLoginRequest(w http.ResponseWriter, r *http.Request) (*loginRequest, bool) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req loginRequest
		if !DecodeJSON(w, r, &req) {
			return nil, false
		}
		return &req, true
	}
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return nil, false
	}
	return &loginRequest{
		NS:       r.PostForm.Get("ns"),
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
		From:     r.PostForm.Get("from"),
	}, true
}

// UserLogin handles POST /Login/auth.
func (h *AuthHandlers) UserLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domainauth.ScopeUser)
}

// AdminLogin handles POST /Signin/auth.
func (h *AuthHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domainauth.ScopeAdmin)
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request, scope domainauth.Scope) {
	req, ok := h.readLoginRequest(w, r)
	if !ok {
		return
	}
	if req.NS == "" {
		// The ns may ride along as a query parameter from the gate's
		// login redirect.
		req.NS = r.URL.Query().Get("ns")
	}

	res, err := h.Svc.Login(r.Context(), service.LoginInput{
		Namespace: req.NS,
		Username:  req.Username,
		Password:  req.Password,
		Scope:     scope,
	})
	if err != nil {
		h.metrics().LoginAttempt(string(scope), metrics.ResultDenied)
		h.loginFailure(w, r, scope, req, err)
		return
	}

	h.metrics().LoginAttempt(string(scope), metrics.ResultPass)
	h.setSessionCookies(w, r, scope, req.NS, res.Token)

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"ok":         true,
			"ns":         req.NS,
			"role":       res.Claims.Role,
			"expires_at": res.ExpiresAt,
		})
		return
	}
	http.Redirect(w, r, h.postLoginTarget(scope, req.From), http.StatusFound)
}

func (h *AuthHandlers) loginFailure(w http.ResponseWriter, r *http.Request, scope domainauth.Scope, req *loginRequest, err error) {
	h.logger().Info("login failed", "scope", string(scope), "ns", req.NS, "error", err)

	code := http.StatusUnauthorized
	errCode := "invalid_credentials"
	switch {
	case apperrors.IsValidation(err):
		code, errCode = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, service.ErrAccountDisabled):
		errCode = "account_disabled"
	case errors.Is(err, service.ErrRoleNotAllowed):
		code, errCode = http.StatusForbidden, "role_not_allowed"
	case errors.Is(err, service.ErrInvalidCredentials):
		// default
	default:
		h.logger().Error("login error", "error", err)
		code, errCode = http.StatusInternalServerError, "internal"
	}

	if wantsJSON(r) {
		WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: errors.New("login failed")})
		return
	}
	http.Redirect(w, r, h.loginPagePath(scope)+"?err="+url.QueryEscape(errCode), http.StatusFound)
}

func (h *AuthHandlers) loginPagePath(scope domainauth.Scope) string {
	if scope == domainauth.ScopeAdmin {
		return AdminLoginPath
	}
	return UserLoginPath
}

func (h *AuthHandlers) postLoginTarget(scope domainauth.Scope, from string) string {
	if target := safeRedirectPath(from, scope); target != "" {
		return target
	}
	if scope == domainauth.ScopeAdmin {
		return AdminHomePath
	}
	return UserHomePath
}

// safeRedirectPath accepts only same-site paths inside the area being
// signed in to, so the from parameter cannot bounce a fresh session to
// another host or the other area.
func safeRedirectPath(from string, scope domainauth.Scope) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return ""
	}
	prefix := UserAreaPrefix
	if scope == domainauth.ScopeAdmin {
		prefix = AdminAreaPrefix
	}
	if !strings.HasPrefix(strings.ToLower(from), prefix) {
		return ""
	}
	return from
}

func (h *AuthHandlers) setSessionCookies(w http.ResponseWriter, r *http.Request, scope domainauth.Scope, ns, token string) {
	secure := isSecureRequest(r)
	lifetime := h.TokenLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sticky := h.StickyLifetime
	if sticky <= 0 {
		sticky = 30 * 24 * time.Hour
	}

	http.SetCookie(w, &http.Cookie{
		Name:     domainauth.SessionCookieName(scope, ns),
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     stickyCookieName(scope),
		Value:    ns,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(sticky.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func stickyCookieName(scope domainauth.Scope) string {
	if scope == domainauth.ScopeAdmin {
		return domainauth.StickyAdminNSCookie
	}
	return domainauth.StickyUserNSCookie
}

// isSecureRequest reports whether the request arrived over TLS,
// directly or behind a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// UserLogout handles POST /user/logout.
func (h *AuthHandlers) UserLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, domainauth.ScopeUser)
}

// AdminLogout handles POST /admin/logout.
func (h *AuthHandlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.logout(w, r, domainauth.ScopeAdmin)
}

func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request, scope domainauth.Scope) {
	info := RequestInfoFromRequest(r)
	ns := domainauth.ExtractNamespace(info)
	if ns != "" {
		if token, ok := info.Cookies[domainauth.SessionCookieName(scope, ns)]; ok {
			if err := h.Svc.Logout(r.Context(), token); err != nil {
				h.logger().Warn("logout revocation failed", "error", err)
			}
		}
		clearCookie(w, domainauth.SessionCookieName(scope, ns), h.CookieDomain)
	}
	clearCookie(w, stickyCookieName(scope), h.CookieDomain)

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	http.Redirect(w, r, h.loginPagePath(scope), http.StatusFound)
}

// Status handles GET /auth/status: a cheap probe clients poll to keep
// their UI in sync with the session. Tries the admin area first, then
// the user area.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	info := RequestInfoFromRequest(r)
	for _, scope := range []domainauth.Scope{domainauth.ScopeAdmin, domainauth.ScopeUser} {
		v := h.Svc.Resolve(r.Context(), info, nil, scope)
		if v.OK {
			WriteJSON(w, http.StatusOK, map[string]any{
				"authenticated": true,
				"scope":         v.Principal.Scope,
				"ns":            v.Principal.Namespace,
				"role":          v.Principal.Role,
				"user_id":       v.Principal.UserID,
			})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
}

// LoginPage serves the minimal login form for an area. The portal's
// real pages are rendered elsewhere; these exist so the gate's
// redirect targets always resolve.
func LoginPage(scope domainauth.Scope) http.HandlerFunc {
	action := "/Login/auth"
	title := "Sign in"
	if scope == domainauth.ScopeAdmin {
		action = "/Signin/auth"
		title = "Administrator sign in"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		page := `<!doctype html><title>` + title + `</title>` +
			`<h1>` + title + `</h1>` +
			`<form method="post" action="` + action + `">` +
			`<input type="hidden" name="from" value="` + html.EscapeString(r.URL.Query().Get("from")) + `">` +
			`<input name="ns" placeholder="namespace" value="` + html.EscapeString(r.URL.Query().Get("ns")) + `">` +
			`<input name="username" placeholder="username">` +
			`<input name="password" type="password" placeholder="password">` +
			`<button type="submit">Sign in</button></form>`
		if _, err := io.WriteString(w, page); err != nil {
			return
		}
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
