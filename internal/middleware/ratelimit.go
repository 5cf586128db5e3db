package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter implements per-client sliding window rate limiting of
// inbound HTTP requests. State is in memory and per process.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	mu          sync.Mutex
	clients     map[string]*clientWindow
}

type clientWindow struct {
	timestamps []time.Time
	lastAccess time.Time
}

// NewRateLimiter creates a rate limiter with the given requests-per-second
// limit. Stale client entries are evicted until ctx is done.
func NewRateLimiter(ctx context.Context, maxPerSecond int) *RateLimiter {
	rl := newRateLimiter(maxPerSecond, time.Second)
	go rl.cleanup(ctx)
	return rl
}

func newRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		clients:     make(map[string]*clientWindow),
	}
}

// Allow checks if a request from the given client is allowed.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[clientID]
	if !ok {
		cw = &clientWindow{}
		rl.clients[clientID] = cw
	}

	// Remove timestamps outside the window
	cutoff := now.Add(-rl.window)
	start := 0
	for start < len(cw.timestamps) && cw.timestamps[start].Before(cutoff) {
		start++
	}
	cw.timestamps = cw.timestamps[start:]
	cw.lastAccess = now

	if len(cw.timestamps) >= rl.maxRequests {
		return false
	}

	cw.timestamps = append(cw.timestamps, now)
	return true
}

// cleanup removes stale client entries every 60 seconds.
func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict(time.Now().Add(-5 * time.Minute))
		}
	}
}

func (rl *RateLimiter) evict(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, cw := range rl.clients {
		if cw.lastAccess.Before(cutoff) {
			delete(rl.clients, id)
		}
	}
}

// Middleware returns an HTTP middleware that applies rate limiting.
// Clients are keyed by token subject when Authorize ran first, otherwise
// by remote IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if authCtx := GetAuthContext(r.Context()); authCtx != nil {
		return "sub:" + authCtx.Subject
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
