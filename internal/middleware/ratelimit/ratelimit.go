package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

// Limiter is a per-client token bucket. Each client address gets Burst
// tokens refilled at RequestsPerSecond.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*bucket
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	rate  float64
	burst float64

	cleanupInterval time.Duration
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 20,
		Burst:             40,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerSecond <= 0 {
		config = DefaultConfig()
	}
	if config.Burst < config.RequestsPerSecond {
		config.Burst = config.RequestsPerSecond
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		clients:         make(map[string]*bucket),
		stopCleanup:     make(chan struct{}),
		rate:            float64(config.RequestsPerSecond),
		burst:           float64(config.Burst),
		cleanupInterval: config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// Allow checks if a request from the given client should be allowed
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &bucket{tokens: rl.burst - 1, lastSeen: now}
		return true
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes clients idle for more than 10 minutes
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, b := range rl.clients {
		if b.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop gracefully shuts down the cleanup goroutine
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Middleware creates HTTP middleware for rate limiting
func (rl *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
