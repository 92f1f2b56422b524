package reports

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/statusdash/statusdash/internal/pkg/httputil"
)

// visitor tracks a per-address limiter and when it was last seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles public report submissions per remote address.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute submissions per address with the
// given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
	go rl.cleanup()
	return rl
}

// Middleware rejects over-limit submissions with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !rl.allow(host) {
			httputil.Error(w, http.StatusTooManyRequests, "too many reports, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[addr] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

// cleanup drops limiters for addresses idle longer than ten minutes.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for addr, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, addr)
			}
		}
		rl.mu.Unlock()
	}
}
