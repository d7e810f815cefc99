// Package ratelimit provides per-client request throttling using token buckets.
//
// The public application endpoint triggers oracle calls downstream, so it
// gets a much tighter budget than the rest of the API.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rule binds a path prefix and method to a request budget.
// A Limit of zero or less means the rule is unlimited.
type Rule struct {
	PathPrefix string
	Method     string // empty matches any method
	Limit      int    // requests per Window
	Window     time.Duration
	Burst      int // bucket capacity; defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []Rule
}

// LoadConfig builds the limiter configuration from the environment.
// RATE_LIMIT_ENABLED=false disables throttling entirely; the apply and
// default budgets are tunable via RATE_LIMIT_APPLY_PER_HOUR and
// RATE_LIMIT_DEFAULT_PER_MINUTE.
func LoadConfig() *Config {
	applyPerHour := envInt("RATE_LIMIT_APPLY_PER_HOUR", 5)
	defaultPerMinute := envInt("RATE_LIMIT_DEFAULT_PER_MINUTE", 120)

	return &Config{
		Enabled:         os.Getenv("RATE_LIMIT_ENABLED") != "false",
		DefaultLimit:    defaultPerMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Rules: []Rule{
			{PathPrefix: "/health", Limit: 0},
			{PathPrefix: "/apply", Method: "POST", Limit: applyPerHour, Window: time.Hour},
			{PathPrefix: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute},
		},
	}
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// bucket is a token bucket refilling at a steady rate.
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

// take refills the bucket and consumes one token if available. When the
// bucket is empty it returns the wait until the next token.
func (b *bucket) take() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
	b.lastAccess = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, 0
	}

	deficit := 1.0 - b.tokens
	return false, time.Duration(deficit / b.refillRate * float64(time.Second))
}

// Limiter tracks a token bucket per client and matched rule.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	stop    chan struct{}
	ticker  *time.Ticker
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.ticker = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow reports whether a request from the client may proceed, and when it
// may retry if not.
func (l *Limiter) Allow(clientID, path, method string) (bool, time.Duration) {
	if !l.config.Enabled {
		return true, 0
	}

	rule := l.match(path, method)
	if rule.Limit <= 0 {
		return true, 0
	}

	key := clientID + ":" + rule.PathPrefix + ":" + rule.Method
	return l.getBucket(key, rule).take()
}

// match finds the first rule whose prefix and method cover the request,
// falling back to the global default.
func (l *Limiter) match(path, method string) Rule {
	for _, r := range l.config.Rules {
		if !strings.HasPrefix(path, r.PathPrefix) {
			continue
		}
		if r.Method != "" && r.Method != method {
			continue
		}
		return r
	}
	return Rule{
		PathPrefix: "*",
		Limit:      l.config.DefaultLimit,
		Window:     l.config.DefaultWindow,
	}
}

func (l *Limiter) getBucket(key string, rule Rule) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	b := newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds())
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets untouched for over an hour.
func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastAccess.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
		}
	}
}

// Stop halts the cleanup loop.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
	if l.stop != nil {
		close(l.stop)
	}
}
