package middleware

import (
	"net/http"
)

// DefaultMaxFormBytes caps form submissions (64 KiB); the largest form has three short fields.
const DefaultMaxFormBytes = 64 << 10

// MaxBytes limits the request body size so ParseForm fails on oversized bodies
// instead of reading them. Apply to POST routes.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFormBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Method != http.MethodGet {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
