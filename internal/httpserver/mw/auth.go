package mw

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const tokenKey ctxKey = iota

// BearerToken extracts an optional Authorization bearer token into the
// request context. It never rejects: read endpoints work without a token in
// github-app mode, and the credential router decides per operation whether
// one is required.
func BearerToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
				r = r.WithContext(context.WithValue(r.Context(), tokenKey, token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFrom returns the bearer token stored by BearerToken, or "".
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
