package auth

import (
	"fmt"
	"strings"
)

// SessionCookieName is the only cookie jotter ever sets or reads.
const SessionCookieName = "session"

// SessionCookie renders the Set-Cookie value carrying a session token.
// The attributes are fixed policy, not knobs: no script access, TLS
// only, and no cross-site sends beyond top-level navigation.
func SessionCookie(token string, maxAgeSeconds int) string {
	return fmt.Sprintf("%v=%v; HttpOnly; Secure; SameSite=Lax; Path=/; Max-Age=%v",
		SessionCookieName, token, maxAgeSeconds)
}

// ClearSessionCookie renders the Set-Cookie value that tells the client
// to drop the session cookie immediately.
func ClearSessionCookie() string {
	return SessionCookie("", 0)
}

// ParseCookies splits a Cookie header into a name/value map. Segments
// without a = are ignored, names are trimmed of surrounding whitespace,
// and values stay opaque, no URL decoding happens here. A missing or
// empty header parses to an empty map.
func ParseCookies(header string) map[string]string {
	cookies := map[string]string{}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		idx := strings.Index(part, "=")
		if idx < 0 {
			continue
		}
		cookies[part[:idx]] = part[idx+1:]
	}
	return cookies
}
