package router

import (
	"crypto/subtle"
	"net/http"
)

// HeaderAPIKey carries the shared secret for operator-only endpoints.
const HeaderAPIKey = "X-API-Key"

// MiddlewareAPIKey guards an endpoint with a static API key. Intended for
// internal operator endpoints such as the manual receiver block.
func MiddlewareAPIKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAPIKey)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, errorResponse{Message: "Unauthorized"}, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
