package middleware

import (
	"encoding/json"
	"net/http"

	"sitegate/internal/ratelimit"
)

// RateLimit applies per-endpoint request budgets keyed by the tenant
// resolved earlier in the chain. Unauthenticated requests pass
// through, Auth already rejects them.
func RateLimit(limiter *ratelimit.Limiter, limits map[string]ratelimit.EndpointLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, ok := TenantFromContext(r.Context())
			if ok && !limiter.AllowEndpoint(limits, t.ID, r.URL.Path) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
