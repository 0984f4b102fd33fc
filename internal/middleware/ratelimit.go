package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiterConfig configures the fixed-window rate limiter.
type RateLimiterConfig struct {
	// Limit is the maximum number of requests per window.
	Limit int

	// Window is the length of each counting window.
	Window time.Duration

	// SweepInterval is how often expired windows are evicted.
	SweepInterval time.Duration

	// KeyFunc extracts the limit key from the request.
	// Default: client IP + request path.
	KeyFunc func(r *http.Request) string
}

// DefaultRateLimiterConfig limits each client to 60 requests per minute per
// path.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Limit:         60,
		Window:        time.Minute,
		SweepInterval: time.Minute,
	}
}

// StrictRateLimiterConfig suits credential endpoints.
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Limit:         10,
		Window:        time.Minute,
		SweepInterval: time.Minute,
	}
}

// window is one fixed counting window for a single key.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests in fixed windows per key. Construct it once in
// main and inject it where needed; Stop releases the sweep goroutine.
type RateLimiter struct {
	config  RateLimiterConfig
	mu      sync.Mutex
	windows map[string]*window
	done    chan struct{}
	once    sync.Once
}

// NewRateLimiter creates a rate limiter and starts its eviction sweep.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Limit <= 0 {
		config.Limit = DefaultRateLimiterConfig().Limit
	}
	if config.Window <= 0 {
		config.Window = DefaultRateLimiterConfig().Window
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = config.Window
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(r *http.Request) string {
			return GetClientIP(r) + " " + r.URL.Path
		}
	}

	rl := &RateLimiter{
		config:  config,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Allow records one request for key and reports whether it fits in the
// current window, along with the time the window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Time) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(rl.config.Window)}
		rl.windows[key] = w
	}
	w.count++
	return w.count <= rl.config.Limit, w.resetAt
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, resetAt := rl.Allow(rl.config.KeyFunc(r))
		if !ok {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":"rate_limit","message":"Too many requests"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop ends the eviction sweep. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, w := range rl.windows {
				if now.After(w.resetAt) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// GetClientIP extracts the real client IP, preferring proxy headers over
// RemoteAddr. These headers can be spoofed; in production the reverse proxy
// must control them.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
