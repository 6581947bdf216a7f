package auth

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Namespace is an opaque per-session tenant scope identifier. It is
// derived per request, never stored, and must match nsPattern wherever
// it appears (cookie suffixes, token claims, query parameters).
var nsPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

// ValidNamespace reports whether s is an acceptable namespace.
func ValidNamespace(s string) bool { return nsPattern.MatchString(s) }

// Cookie naming. Every session-bearing cookie embeds exactly one
// namespace as a suffix; the sticky cookies carry only a hint.
const (
	StickyAdminNSCookie = "current_admin_ns"
	StickyUserNSCookie  = "current_user_ns"

	adminSessionPrefix = "admin_session_"
	userSessionPrefix  = "user_session_"
)

// SessionCookieName returns the expected session cookie name for the
// given area and namespace: {area}_session_{ns}.
func SessionCookieName(scope Scope, ns string) string {
	return string(scope) + "_session_" + ns
}

// SessionCookiePrefix returns the cookie-name prefix for an area.
func SessionCookiePrefix(scope Scope) string {
	return string(scope) + "_session_"
}

// SplitSessionCookieName parses a cookie name of the form
// {area}_session_{ns}. The namespace suffix is returned unvalidated.
func SplitSessionCookieName(name string) (scope Scope, ns string, ok bool) {
	switch {
	case strings.HasPrefix(name, adminSessionPrefix):
		return ScopeAdmin, name[len(adminSessionPrefix):], true
	case strings.HasPrefix(name, userSessionPrefix):
		return ScopeUser, name[len(userSessionPrefix):], true
	default:
		return "", "", false
	}
}

// RequestInfo is the normalized request shape the extractor and the
// resolver operate on. Transport adapters build it so that downstream
// code never sees pre-parsed vs. raw-header inconsistencies.
type RequestInfo struct {
	Cookies map[string]string
	Query   url.Values
	Body    map[string]any // nil when the body is unavailable or unparsed
	RawURL  string         // original path+query, used as a query fallback
}

// ExtractNamespace derives the request's namespace, trying sources in
// fixed precedence: sticky cookies, session cookie suffixes, the ns
// query parameter (with a raw-URL fallback parse), and finally an ns
// body field. Invalid candidates are skipped, not returned. Returns ""
// when no source yields a valid namespace. Deterministic, no side
// effects.
func ExtractNamespace(info RequestInfo) string {
	// 1. Sticky hint cookies from an earlier login.
	if ns, ok := info.Cookies[StickyAdminNSCookie]; ok && ValidNamespace(ns) {
		return ns
	}
	if ns, ok := info.Cookies[StickyUserNSCookie]; ok && ValidNamespace(ns) {
		return ns
	}

	// 2. Session cookie suffixes, admin before user.
	if ns := nsFromCookieSuffix(info.Cookies, adminSessionPrefix); ns != "" {
		return ns
	}
	if ns := nsFromCookieSuffix(info.Cookies, userSessionPrefix); ns != "" {
		return ns
	}

	// 3. Query parameter, with a manual raw-URL parse when the query
	// object carries nothing (API contexts may hand us only the URL).
	if ns := info.Query.Get("ns"); ValidNamespace(ns) {
		return ns
	}
	if ns := nsFromRawURL(info.RawURL); ns != "" {
		return ns
	}

	// 4. Parsed request body.
	if info.Body != nil {
		if raw, ok := info.Body["ns"].(string); ok && ValidNamespace(raw) {
			return raw
		}
	}

	return ""
}

// nsFromCookieSuffix returns the first valid namespace suffix among
// cookies with the given prefix. Names are sorted so that extraction
// stays deterministic when a browser holds several session cookies.
func nsFromCookieSuffix(cookies map[string]string, prefix string) string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if ns := name[len(prefix):]; ValidNamespace(ns) {
			return ns
		}
	}
	return ""
}

// nsFromRawURL extracts a valid ns query parameter from a raw URL
// string without relying on a pre-parsed query object.
func nsFromRawURL(raw string) string {
	if raw == "" {
		return ""
	}
	idx := strings.IndexByte(raw, '?')
	if idx < 0 {
		return ""
	}
	vals, err := url.ParseQuery(raw[idx+1:])
	if err != nil {
		return ""
	}
	if ns := vals.Get("ns"); ValidNamespace(ns) {
		return ns
	}
	return ""
}
