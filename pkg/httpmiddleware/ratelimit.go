// Package httpmiddleware holds HTTP middleware shared by storefront servers:
// request logging and per-client rate limiting. Cross-origin handling and
// panic recovery come from chi and go-chi/cors and are wired in the router.
package httpmiddleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware = func(http.Handler) http.Handler

// RateLimitConfig configures the per-client sliding window limiter.
type RateLimitConfig struct {
	// Max requests allowed per window.
	Max int
	// Window length of the sliding window.
	Window time.Duration
	// KeyFunc derives the limit key from a request. Defaults to client IP.
	KeyFunc func(*http.Request) string

	// clock overrides time.Now in tests.
	clock func() time.Time
}

// bucket tracks request counts for one key across the current window and the
// one before it. The previous window is weighted by its remaining overlap
// with the sliding window, which smooths bursts at window boundaries.
type bucket struct {
	prev      float64
	curr      float64
	currStart time.Time
}

type limiter struct {
	cfg RateLimitConfig

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// RateLimit enforces a per-key sliding window limit. Rejected requests get a
// 429 with a JSON body; every response carries X-RateLimit-Limit,
// X-RateLimit-Remaining, and X-RateLimit-Reset headers.
//
// Stale buckets are swept inline at most once per two windows, so no
// background goroutine is needed. The key space is client-controllable
// (X-Forwarded-For), so the map must not grow without bound.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	l := &limiter{cfg: cfg, buckets: make(map[string]*bucket)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.take(cfg.KeyFunc(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retryAfter := max(time.Until(resetAt), 0)
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"code":    http.StatusTooManyRequests,
					"message": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// take records a request attempt for key. It reports the remaining budget,
// when the current window resets, and whether the request may proceed.
func (l *limiter) take(key string) (remaining int, resetAt time.Time, ok bool) {
	now := l.cfg.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= 2*l.cfg.Window {
		l.sweep(now)
		l.lastSweep = now
	}

	b := l.buckets[key]
	if b == nil {
		b = &bucket{currStart: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.currStart); elapsed >= l.cfg.Window {
		if elapsed >= 2*l.cfg.Window {
			// Both windows expired; start fresh.
			b.prev = 0
		} else {
			b.prev = b.curr
		}
		b.curr = 0
		b.currStart = now.Truncate(l.cfg.Window)
	}

	frac := now.Sub(b.currStart).Seconds() / l.cfg.Window.Seconds()
	weighted := b.prev*(1-min(frac, 1)) + b.curr
	resetAt = b.currStart.Add(l.cfg.Window)

	if weighted >= float64(l.cfg.Max) {
		return 0, resetAt, false
	}

	b.curr++
	remaining = int(float64(l.cfg.Max) - weighted - 1)
	return max(remaining, 0), resetAt, true
}

// sweep drops buckets whose windows have both fully expired. Caller holds
// l.mu.
func (l *limiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.currStart) >= 2*l.cfg.Window {
			delete(l.buckets, key)
		}
	}
}

// ClientIP resolves the client address for rate limit keying. It honors
// X-Forwarded-For (first hop) and X-Real-IP before falling back to the
// connection's remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
