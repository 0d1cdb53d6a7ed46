package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"

	"pool-api/internal/domain"
	"pool-api/pkg/errors"
	"pool-api/pkg/logger"
)

// Limiter decides whether a client may perform another write in scope
type Limiter interface {
	Allow(ctx context.Context, scope, ipAddress string) (*domain.RateLimitInfo, error)
}

// RateLimit rejects clients that exceeded their window with 429. When the
// limiter itself fails the request is let through.
func RateLimit(limiter Limiter, scope string, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, err := limiter.Allow(r.Context(), scope, clientIP(r))
			if err != nil {
				logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if info.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(info.Limit, 10))
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(info.Remaining(), 10))
			}
			if !info.IsAllowed {
				retryAfter := int(math.Ceil(info.ResetIn.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeErrorResponse(w, r, errors.NewRateLimitError("Too many requests, try again later", map[string]interface{}{
					"retry_after_seconds": retryAfter,
				}), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP reads RemoteAddr, which chi's RealIP middleware has already resolved
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
