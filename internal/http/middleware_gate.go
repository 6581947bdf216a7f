package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
	"github.com/sarpras/portal/internal/observability/metrics"
)

// SessionResolver is the single decision point both the gateway filter
// and the endpoint guard delegate to.
type SessionResolver interface {
	Resolve(ctx context.Context, info domainauth.RequestInfo,
		allowedRoles []domainauth.Role, scope domainauth.Scope) domainauth.Verdict
}

// AreaGateOptions groups dependencies for the gateway filter.
type AreaGateOptions struct {
	Resolver     SessionResolver
	Metrics      metrics.AuthMetrics
	Logger       *slog.Logger
	CookieDomain string
}

// AreaGate returns the gateway filter protecting the /user/ and
// /admin/ path families. Requests outside both families pass through
// untouched. Rejected browser requests are redirected to the area's
// login page; API requests get a 401. Every rejection carries
// diagnostic x-auth-* headers.
func AreaGate(opts AreaGateOptions) func(http.Handler) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	g := &areaGate{opts: opts}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, protected := areaForPath(r.URL.Path)
			if !protected {
				next.ServeHTTP(w, r)
				return
			}
			g.serve(w, r, next, scope)
		})
	}
}

type areaGate struct {
	opts AreaGateOptions
}

// areaForPath classifies a request path. Matching is case-insensitive
// on the area segment only; the rest of the path keeps its case.
func areaForPath(path string) (domainauth.Scope, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, UserAreaPrefix) || lower == "/user":
		return domainauth.ScopeUser, true
	case strings.HasPrefix(lower, AdminAreaPrefix) || lower == "/admin":
		return domainauth.ScopeAdmin, true
	default:
		return "", false
	}
}

func (g *areaGate) serve(w http.ResponseWriter, r *http.Request, next http.Handler, scope domainauth.Scope) {
	info := RequestInfoFromRequest(r)
	verdict := g.opts.Resolver.Resolve(r.Context(), info, nil, scope)

	if verdict.OK {
		w.Header().Set(HeaderAuthPass, "1")
		w.Header().Set(HeaderAuthNS, verdict.Principal.Namespace)
		w.Header().Set(HeaderAuthRole, string(verdict.Principal.Role))
		g.opts.Metrics.GateDecision(string(scope), metrics.ResultPass, "")
		ctx := SetPrincipalInContext(r.Context(), verdict.Principal)
		next.ServeHTTP(w, r.WithContext(ctx))
		return
	}

	reason := g.annotate(w, info, scope, verdict)
	g.opts.Logger.Info("gate rejected request",
		slog.String("path", r.URL.Path),
		slog.String("scope", string(scope)),
		slog.String("reason", reason),
	)

	if isAPIRequest(r) {
		g.opts.Metrics.GateDecision(string(scope), metrics.ResultDenied, reason)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: reason,
			Err:     errUnauthenticated,
		})
		return
	}

	g.opts.Metrics.GateDecision(string(scope), metrics.ResultRedirect, reason)
	http.Redirect(w, r, g.loginURL(r, info, scope, reason), http.StatusFound)
}

// annotate maps the verdict onto the gateway's kebab-cased reason set
// and writes the diagnostic headers. The resolver's missing-token
// outcome is split here by inspecting the cookie jar: no session
// cookie for the area at all, or session cookies whose namespaces all
// differ from the request's.
func (g *areaGate) annotate(w http.ResponseWriter, info domainauth.RequestInfo, scope domainauth.Scope, verdict domainauth.Verdict) string {
	h := w.Header()
	ns := domainauth.ExtractNamespace(info)
	if ns != "" {
		h.Set(HeaderAuthNS, ns)
		h.Set(HeaderAuthRequestNS, ns)
	}
	if qns := info.Query.Get("ns"); domainauth.ValidNamespace(qns) {
		h.Set(HeaderAuthQueryNS, qns)
	}

	var reason string
	switch verdict.Reason {
	case domainauth.ReasonNoNS:
		reason = GateReasonMissingNS
	case domainauth.ReasonNoToken:
		if cookieNS := firstAreaCookieNS(info.Cookies, scope); cookieNS != "" {
			h.Set(HeaderAuthCookieNS, cookieNS)
			reason = GateReasonNSCookieMismatch
		} else {
			reason = GateReasonNoCookieForNS
		}
	case domainauth.ReasonNoSecret:
		reason = GateReasonNoSecret
	case domainauth.ReasonJWTInvalid:
		reason = GateReasonJWTVerifyFailed
		// The token in the jar is dead weight; expire it so the next
		// request starts clean.
		clearCookie(w, domainauth.SessionCookieName(scope, ns), g.opts.CookieDomain)
	case domainauth.ReasonNSMismatch:
		reason = GateReasonNSMismatch
		if verdict.Detail != "" {
			h.Set(HeaderAuthTokenNS, verdict.Detail)
		}
	case domainauth.ReasonRole, domainauth.ReasonScopeMismatch:
		reason = GateReasonRoleMismatch
		if verdict.Detail != "" {
			h.Set(HeaderAuthRole, verdict.Detail)
		}
	default:
		reason = GateReasonVerifyFail
	}
	h.Set(HeaderAuthReason, reason)
	return reason
}

// firstAreaCookieNS returns the namespace suffix of the first session
// cookie belonging to the area, or "" when none exist.
func firstAreaCookieNS(cookies map[string]string, scope domainauth.Scope) string {
	prefix := domainauth.SessionCookiePrefix(scope)
	best := ""
	for name := range cookies {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		ns := name[len(prefix):]
		if ns == "" {
			continue
		}
		if best == "" || ns < best {
			best = ns
		}
	}
	return best
}

func (g *areaGate) loginURL(r *http.Request, info domainauth.RequestInfo, scope domainauth.Scope, reason string) string {
	target := UserLoginPath
	if scope == domainauth.ScopeAdmin {
		target = AdminLoginPath
	}
	from := r.URL.RequestURI()
	u := target + "?from=" + url.QueryEscape(from)
	if reason == GateReasonNoCookieForNS {
		if ns := domainauth.ExtractNamespace(info); ns != "" {
			u += "&ns=" + url.QueryEscape(ns)
		}
	}
	return u
}

// isAPIRequest decides JSON vs redirect for rejections: API subpaths
// and JSON-preferring clients get a 401 instead of a login redirect.
func isAPIRequest(r *http.Request) bool {
	if strings.Contains(strings.ToLower(r.URL.Path), "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func clearCookie(w http.ResponseWriter, name, domain string) {
	if name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
