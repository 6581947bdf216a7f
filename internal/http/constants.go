package httpx

// Login entry points. The unusual casing is load-bearing: installed
// clients link to these paths verbatim.
const (
	UserLoginPath  = "/Login/hal-login"
	AdminLoginPath = "/Signin/hal-signAdmin"

	UserAreaPrefix  = "/user/"
	AdminAreaPrefix = "/admin/"

	UserHomePath  = "/user/Dashboard"
	AdminHomePath = "/admin/Dashboard"
)

// Diagnostic response headers set by the gateway filter. They exist so
// a redirect seen in an HAR capture explains itself.
const (
	HeaderAuthReason    = "x-auth-reason"
	HeaderAuthPass      = "x-auth-pass"
	HeaderAuthNS        = "x-auth-ns"
	HeaderAuthRole      = "x-auth-role"
	HeaderAuthCookieNS  = "x-auth-cookie-ns"
	HeaderAuthQueryNS   = "x-auth-query-ns"
	HeaderAuthRequestNS = "x-auth-request-ns"
	HeaderAuthTokenNS   = "x-auth-token-ns"
)

// Gateway rejection reasons, kebab-cased for header transport. The
// no-cookie-for-ns vs ns-cookie-mismatch split is decided here from
// the cookie jar; the resolver reports both as a missing token.
const (
	GateReasonMissingNS        = "missing-ns"
	GateReasonNoCookieForNS    = "no-cookie-for-ns"
	GateReasonNSCookieMismatch = "ns-cookie-mismatch"
	GateReasonNoSecret         = "no-secret"
	GateReasonJWTVerifyFailed  = "jwt-verify-failed"
	GateReasonNSMismatch       = "ns-mismatch"
	GateReasonRoleMismatch     = "role-mismatch"
	GateReasonVerifyFail       = "verify-fail"
)
