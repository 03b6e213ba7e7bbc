package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
)

// APIKey returns middleware enforcing the X-API-Key header on every
// route except the health check. A missing key is rejected with 401, a
// wrong key with 403. An empty expected key disables authentication.
func APIKey(expected string) func(http.Handler) http.Handler {
	if expected == "" {
		log.Println("Warning: API_KEY not set - authentication disabled")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" || r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "API key is missing"}`))
				return
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"detail": "Invalid API key"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
