package http

import (
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// RateLimitMiddleware rejects clients that exhausted their bucket with 429.
// Buckets are keyed by the peer address; X-Forwarded-For is honored only
// when the peer is one of trusted. A nil limiter disables limiting.
func RateLimitMiddleware(
	limiter *RateLimiter,
	trusted TrustedProxies,
	logger *zap.Logger,
	next http.Handler,
) http.Handler {

	if limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		client := clientIP(r, trusted)

		ok, retryAfter := limiter.Allow(client)
		if !ok {
			logger.Warn("rate limit exceeded",
				zap.String("client", client),
				zap.String("request_id", GetRequestID(r.Context())))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			writeDetail(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
