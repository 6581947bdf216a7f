package auth

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNamespace(t *testing.T) {
	valid := []string{"abc", "ns123", "abc12345", "A-b_c", "abcdefghijklmnopqrstuvwxyz123456"}
	for _, ns := range valid {
		assert.True(t, ValidNamespace(ns), ns)
	}
	invalid := []string{"", "ab", "abcdefghijklmnopqrstuvwxyz1234567", "bad ns", "ns!", "ns/1", "ümlaut"}
	for _, ns := range invalid {
		assert.False(t, ValidNamespace(ns), ns)
	}
}

func TestSessionCookieName(t *testing.T) {
	assert.Equal(t, "user_session_ns123", SessionCookieName(ScopeUser, "ns123"))
	assert.Equal(t, "admin_session_ns123", SessionCookieName(ScopeAdmin, "ns123"))

	scope, ns, ok := SplitSessionCookieName("admin_session_tenant1")
	assert.True(t, ok)
	assert.Equal(t, ScopeAdmin, scope)
	assert.Equal(t, "tenant1", ns)

	_, _, ok = SplitSessionCookieName("session_id")
	assert.False(t, ok)
}

func TestExtractNamespacePrecedence(t *testing.T) {
	t.Run("sticky cookie wins over session cookie", func(t *testing.T) {
		info := RequestInfo{
			Cookies: map[string]string{
				StickyAdminNSCookie:    "sticky1",
				"admin_session_other2": "token",
			},
		}
		assert.Equal(t, "sticky1", ExtractNamespace(info))
	})

	t.Run("sticky admin wins over sticky user", func(t *testing.T) {
		info := RequestInfo{Cookies: map[string]string{
			StickyAdminNSCookie: "admns1",
			StickyUserNSCookie:  "usrns1",
		}}
		assert.Equal(t, "admns1", ExtractNamespace(info))
	})

	t.Run("invalid sticky falls through to session cookie", func(t *testing.T) {
		info := RequestInfo{Cookies: map[string]string{
			StickyUserNSCookie:  "x", // too short
			"user_session_ns42": "token",
		}}
		assert.Equal(t, "ns42", ExtractNamespace(info))
	})

	t.Run("admin session cookie wins over user session cookie", func(t *testing.T) {
		info := RequestInfo{Cookies: map[string]string{
			"user_session_usr99":  "t1",
			"admin_session_adm99": "t2",
		}}
		assert.Equal(t, "adm99", ExtractNamespace(info))
	})

	t.Run("cookie wins over query", func(t *testing.T) {
		info := RequestInfo{
			Cookies: map[string]string{"user_session_ns42": "token"},
			Query:   url.Values{"ns": []string{"queryns"}},
		}
		assert.Equal(t, "ns42", ExtractNamespace(info))
	})

	t.Run("query used when no cookies", func(t *testing.T) {
		info := RequestInfo{Query: url.Values{"ns": []string{"queryns"}}}
		assert.Equal(t, "queryns", ExtractNamespace(info))
	})

	t.Run("raw URL fallback when query object empty", func(t *testing.T) {
		info := RequestInfo{RawURL: "/user/Beranda?x=1&ns=rawns1"}
		assert.Equal(t, "rawns1", ExtractNamespace(info))
	})

	t.Run("body is the last resort", func(t *testing.T) {
		info := RequestInfo{Body: map[string]any{"ns": "bodyns"}}
		assert.Equal(t, "bodyns", ExtractNamespace(info))
	})

	t.Run("query wins over body", func(t *testing.T) {
		info := RequestInfo{
			Query: url.Values{"ns": []string{"queryns"}},
			Body:  map[string]any{"ns": "bodyns"},
		}
		assert.Equal(t, "queryns", ExtractNamespace(info))
	})

	t.Run("invalid candidates are skipped not returned", func(t *testing.T) {
		info := RequestInfo{
			Query: url.Values{"ns": []string{"bad ns!"}},
			Body:  map[string]any{"ns": "bodyns"},
		}
		assert.Equal(t, "bodyns", ExtractNamespace(info))
	})

	t.Run("no source yields empty", func(t *testing.T) {
		assert.Equal(t, "", ExtractNamespace(RequestInfo{}))
	})
}

func TestExtractNamespaceDeterministic(t *testing.T) {
	// Multiple session cookies: lowest sorted name wins, every time.
	info := RequestInfo{Cookies: map[string]string{
		"user_session_zzz99": "t1",
		"user_session_aaa11": "t2",
		"user_session_mmm55": "t3",
	}}
	first := ExtractNamespace(info)
	assert.Equal(t, "aaa11", first)
	for range 20 {
		assert.Equal(t, first, ExtractNamespace(info))
	}
}

func TestNSFromRawURLMalformed(t *testing.T) {
	assert.Equal(t, "", nsFromRawURL("/path"))
	assert.Equal(t, "", nsFromRawURL("/path?ns=%zz;bad"))
	assert.Equal(t, "", nsFromRawURL(""))
}
