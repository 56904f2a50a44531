package platform

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the shared secret checked by APIKeyMiddleware.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware enforces the X-API-Key header. An empty key disables the
// check.
func APIKeyMiddleware(key string, next http.Handler) http.Handler {
	if key == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
