package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"folio/internal/httputil"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    rate.Limit
	burst   int
	window  time.Duration
	stop    chan struct{}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateResult is the outcome of one Allow call
type rateResult struct {
	allowed    bool
	limit      int
	remaining  int
	retryAfter time.Duration
}

// NewRateLimiter allows requests per window for each caller, with the whole
// window's budget available as burst
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	l := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate.Limit(float64(requests) / window.Seconds()),
		burst:   requests,
		window:  window,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *RateLimiter) allow(key string) rateResult {
	now := time.Now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	allowed := b.limiter.AllowN(now, 1)

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Duration(float64(time.Second)/float64(l.rate)), time.Second)
	}

	return rateResult{
		allowed:    allowed,
		limit:      l.burst,
		remaining:  max(int(b.limiter.TokensAt(now)), 0),
		retryAfter: retryAfter,
	}
}

// cleanupLoop drops idle buckets every window
func (l *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(max(l.window, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *RateLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stale := now.Add(-l.window)
	for key, b := range l.buckets {
		if b.lastSeen.Before(stale) && b.limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.buckets, key)
		}
	}
}

// Close stops the cleanup goroutine
func (l *RateLimiter) Close() {
	close(l.stop)
}

// RateLimit rejects callers over their budget with 429. Authenticated callers
// are keyed by user id, anonymous ones by remote address, so it must run
// after AuthMiddleware.
func RateLimit(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if userID := httputil.GetUserID(r); userID != "" {
				key = "user:" + userID
			}

			result := limiter.allow(key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.remaining))

			if !result.allowed {
				logger.Warn("rate limit exceeded", "key", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(result.retryAfter.Seconds())))
				httputil.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
