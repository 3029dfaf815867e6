// Package ratelimit throttles requests per client IP using token
// buckets from golang.org/x/time/rate.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		Burst:             20,
		CleanupInterval:   5 * time.Minute,
	}
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client IP and evicts buckets that
// have been idle long enough to be full again.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket

	rps         rate.Limit
	burst       int
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewLimiter(config Config) *Limiter {
	if config.RequestsPerSecond <= 0 {
		config = DefaultConfig()
	}
	if config.Burst <= 0 {
		config.Burst = int(config.RequestsPerSecond) * 2
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	l := &Limiter{
		clients:     make(map[string]*clientBucket),
		rps:         rate.Limit(config.RequestsPerSecond),
		burst:       config.Burst,
		stopCleanup: make(chan struct{}),
	}
	go l.startCleanup(config.CleanupInterval)
	return l
}

// Allow reports whether a request from the given IP may proceed.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.clients[clientIP]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[clientIP] = bucket
	}
	bucket.lastSeen = time.Now()
	return bucket.limiter.Allow()
}

// Middleware rejects over-limit requests with 429.
func (l *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if extractIP != nil {
				ip = extractIP(r)
			}
			if !l.Allow(ip) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *Limiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupIdle(interval)
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *Limiter) cleanupIdle(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	for ip, bucket := range l.clients {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}
