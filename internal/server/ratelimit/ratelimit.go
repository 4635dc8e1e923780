// Package ratelimit provides per-client request throttling using token
// buckets.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// EndpointConfig is the rate limit for one endpoint. Paths ending in "/"
// match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Requests per window
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity (defaults to Limit)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the standard configuration. Model-backed endpoints
// get the strictest budgets; the payment webhook is left to the default
// tier since the provider controls delivery pacing.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: []EndpointConfig{
			// Expensive: each request is a model call
			{Path: "/api/generate", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
			{Path: "/api/cover-letter", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
			{Path: "/api/parse-job", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
			{Path: "/api/match-score", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

			// Cheap reads and writes
			{Path: "/api/applications", Method: "GET", Limit: 120, Window: time.Minute},
			{Path: "/api/applications/", Method: "GET", Limit: 120, Window: time.Minute},
			{Path: "/api/cv/", Method: "GET", Limit: 120, Window: time.Minute},
		},
	}
}

// matchEndpoint finds the limit config for a path and method. Health
// checks are never limited.
func matchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return &EndpointConfig{}
	}

	for i := range configs {
		cfg := &configs[i]
		if cfg.Path == path && cfg.Method == method {
			return cfg
		}
	}
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			return cfg
		}
	}
	return nil
}

// bucket is a token bucket; tokens refill continuously.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastAccess: now,
	}
}

func (b *bucket) allow() (ok bool, remaining int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
	b.lastAccess = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, int(b.tokens)
	}
	return false, 0
}

// Info describes the outcome of a rate limit check.
type Info struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// Limiter throttles clients per endpoint tier.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a Limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.ticker = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.cleanup()
	}
	return l
}

// Allow reports whether a request from clientID to the given endpoint may
// proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	limit := l.config.DefaultLimit
	window := l.config.DefaultWindow
	burst := 0
	if cfg := matchEndpoint(path, method, l.config.EndpointConfigs); cfg != nil {
		if cfg.Limit == 0 {
			return true, Info{Allowed: true}
		}
		limit, window, burst = cfg.Limit, cfg.Window, cfg.Burst
	}
	if burst == 0 {
		burst = limit
	}

	key := clientID + " " + method + " " + bucketPath(path, l.config.EndpointConfigs)
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(burst, float64(limit)/window.Seconds())
		l.buckets[key] = b
	}
	l.mu.Unlock()

	allowed, remaining := b.allow()
	return allowed, Info{Allowed: allowed, Limit: limit, Remaining: remaining}
}

// bucketPath collapses prefix-matched paths onto their tier so that
// /api/cv/a and /api/cv/b share a bucket.
func bucketPath(path string, configs []EndpointConfig) string {
	for i := range configs {
		cfg := &configs[i]
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			return cfg.Path
		}
	}
	return path
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
		close(l.stop)
	}
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.stop:
			return
		case <-l.ticker.C:
			cutoff := time.Now().Add(-2 * l.config.CleanupInterval)
			l.mu.Lock()
			for key, b := range l.buckets {
				b.mu.Lock()
				idle := b.lastAccess.Before(cutoff)
				b.mu.Unlock()
				if idle {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
