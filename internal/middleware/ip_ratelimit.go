package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shegergsm/lookup-gateway/internal/audit"
	"github.com/shegergsm/lookup-gateway/internal/service"
)

type IPRateLimitMiddleware struct {
	limiter *service.RateLimiter
	scope   string
	limit   int
	window  time.Duration
}

func NewIPRateLimitMiddleware(limiter *service.RateLimiter, scope string, limit int, window time.Duration) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		scope:   scope,
		limit:   limit,
		window:  window,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := audit.ClientIP(r)

		allowed, resetAt := m.limiter.Allow(r.Context(), m.scope, ip, m.limit, m.window)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"scope": m.scope},
			})
			secondsLeft := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", secondsLeft))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
