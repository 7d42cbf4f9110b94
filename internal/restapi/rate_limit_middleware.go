package restapi

import (
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"nightshuttle.campusgo.org/internal/clock"
)

// RateLimiter provides per-API-key request rate limiting.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	burst     int
	clock     clock.Clock
}

// NewRateLimitMiddleware creates middleware allowing ratePerSecond
// requests per second per API key, with a burst of the same size.
func NewRateLimitMiddleware(ratePerSecond int, c clock.Clock) func(http.Handler) http.Handler {
	rl := &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Limit(ratePerSecond),
		burst:     ratePerSecond,
		clock:     c,
	}
	return rl.handler
}

func (rl *RateLimiter) limiterFor(apiKey string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[apiKey]
	if !ok {
		limiter = rate.NewLimiter(rl.rateLimit, rl.burst)
		rl.limiters[apiKey] = limiter
	}
	return limiter
}

func (rl *RateLimiter) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.URL.Query().Get("key")
		if apiKey == "" {
			apiKey = "__no_key__"
		}

		if !rl.limiterFor(apiKey).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":429,"text":"rate limit exceeded","version":2,"currentTime":` +
				strconv.FormatInt(rl.clock.NowUnixMilli(), 10) + `}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
