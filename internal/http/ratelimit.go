package http

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientRateLimiter keeps one token bucket per client key. Each bucket holds
// `requests` tokens and refills fully over `window`.
type clientRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientRateLimiter(requests int, window time.Duration) *clientRateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &clientRateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether key may make another request now
func (l *clientRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	bucket, ok := l.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = bucket
	}
	bucket.lastSeen = now

	return bucket.limiter.AllowN(now, 1)
}

// sweep drops buckets idle for a whole window; they would be full again anyway.
// Caller holds mu.
func (l *clientRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, bucket := range l.clients {
		if now.Sub(bucket.lastSeen) >= l.window {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// retryAfter is the time until one token is back, in whole seconds
func (l *clientRateLimiter) retryAfter() string {
	seconds := int((time.Duration(float64(time.Second) / float64(l.limit)) + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func (l *clientRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
