package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/sarpras/portal/internal/domain/auth"
)

// RequestInfoFromRequest normalizes an incoming request into the shape
// the namespace extractor and resolver operate on. It never reads the
// request body; handlers that accept an ns in the body attach it
// themselves via WithBody.
func RequestInfoFromRequest(r *http.Request) domainauth.RequestInfo {
	info := domainauth.RequestInfo{
		Cookies: cookieMap(r),
		Query:   r.URL.Query(),
		RawURL:  r.URL.RequestURI(),
	}
	if r.RequestURI != "" {
		info.RawURL = r.RequestURI
	}
	return info
}

// WithBody returns a copy of info carrying parsed body fields.
func WithBody(info domainauth.RequestInfo, body map[string]any) domainauth.RequestInfo {
	info.Body = body
	return info
}

// cookieMap flattens the request cookies. When the standard parser
// yields nothing but a Cookie header exists (clients occasionally send
// octets Go's parser drops), fall back to a tolerant manual split.
func cookieMap(r *http.Request) map[string]string {
	cookies := r.Cookies()
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		if _, seen := out[c.Name]; !seen {
			out[c.Name] = c.Value
		}
	}
	if len(out) == 0 {
		if raw := r.Header.Get("Cookie"); raw != "" {
			return parseCookieHeader(raw)
		}
	}
	return out
}

func parseCookieHeader(raw string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, found := strings.Cut(part, "=")
		if !found || name == "" {
			continue
		}
		value = strings.Trim(value, `"`)
		if _, seen := out[name]; !seen {
			out[name] = value
		}
	}
	return out
}
