package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	redisadapter "github.com/immodirect7-wq/immodirect/internal/adapter/redis"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
)

// RateLimit applies the shared fixed-window limiter per client IP. When the
// limiter backend is unreachable the request is let through: throttling is a
// protection, not a dependency.
func RateLimit(limiter redisadapter.RateLimiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := limiter.Check(r.Context(), clientIP(r))
			if err != nil {
				log.Warnf("rate limiter unavailable, allowing request: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.ResetIn.Seconds())))
				respond.Error(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop in the chain is the original client.
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
