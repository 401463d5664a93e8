package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/inmogo/inmogo/internal/metrics"
	"github.com/inmogo/inmogo/internal/ratelimit"
)

// RateLimitResponse is the JSON body for rate-limited requests.
type RateLimitResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimit returns a middleware limiting requests for one operation
// family. The identifier is "<operation>:<client-ip>", so the contact form
// and the valuation form are limited independently for the same caller.
func RateLimit(limiter ratelimit.Limiter, operation string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := operation + ":" + GetClientIP(r.Context())

			result, err := limiter.Allow(r.Context(), identifier)
			if err != nil {
				// A shared-store failure fails open; the memory store
				// never errors.
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, result)

			if !result.Allowed {
				metrics.RateLimitRejectionsTotal.WithLabelValues(operation).Inc()
				writeRateLimitResponse(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, result *ratelimit.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if result.ResetAfter > 0 {
		resetTime := time.Now().Add(result.ResetAfter).Unix()
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))
	}
	if !result.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(result)))
	}
}

func retrySeconds(result *ratelimit.Result) int {
	secs := int(result.ResetAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

func writeRateLimitResponse(w http.ResponseWriter, result *ratelimit.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(RateLimitResponse{
		Error:      "rate limit exceeded",
		Code:       "RATE_LIMIT_EXCEEDED",
		RetryAfter: retrySeconds(result),
	})
}
