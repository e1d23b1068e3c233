// Package api implements the music REST API and asset server using chi.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenQueryParam carries the token for clients that cannot set headers,
// such as a browser EventSource. It is only honored on GET requests.
const TokenQueryParam = "access_token"

// requestToken returns the Bearer token of r, or the query token on GET.
func requestToken(r *http.Request) (string, bool) {
	if tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return tok, true
	}
	if r.Method == http.MethodGet {
		if tok := r.URL.Query().Get(TokenQueryParam); tok != "" {
			return tok, true
		}
	}
	return "", false
}

// AuthMiddleware guards routes with a shared token when enabled. With
// enabled false every request passes.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := requestToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="moodmusic"`)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
