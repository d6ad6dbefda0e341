package auth

import (
	"net/http"
	"strings"
)

const DefaultCookieName = "accessToken"

// CredentialFromRequest extracts the bearer credential of a request.
// The cookie takes precedence over the handshake auth field, which is either
// the "token" query parameter or an Authorization bearer header.
func CredentialFromRequest(r *http.Request, cookieName string) string {
	if r == nil {
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token
		}
	}
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
