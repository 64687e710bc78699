package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Rule is the quota for one route: at most Max requests per client within
// each Window.
type Rule struct {
	Max    int
	Window time.Duration
}

// RateLimiter tracks fixed-window request counters keyed by
// (client address, route). A window starts at the first request in it and
// counts toward the quota until the window span elapses; rejected requests
// do not extend the window. Clients are told apart solely by network
// address, which under-counts behind shared NAT or proxies; that is an
// accepted limitation.
type RateLimiter struct {
	mu      sync.Mutex
	rules   map[string]Rule
	windows map[windowKey]*window
	now     func() time.Time
}

type windowKey struct {
	client string
	route  string
}

type window struct {
	count int
	start time.Time
}

// NewRateLimiter creates a rate limiter with per-route rules and starts
// the background cleanup of stale windows.
func NewRateLimiter(rules map[string]Rule) *RateLimiter {
	rl := &RateLimiter{
		rules:   rules,
		windows: make(map[windowKey]*window),
		now:     time.Now,
	}
	go rl.cleanup()
	return rl
}

// Admit records a request against the (client, route) window and reports
// whether it is within quota. On rejection retryAfter is the time until
// the current window resets. Routes without a rule are always admitted.
// Increment-and-check runs under one lock so two concurrent requests can
// never both observe the last free slot.
func (rl *RateLimiter) Admit(client, route string) (bool, time.Duration) {
	rule, ok := rl.rules[route]
	if !ok {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	key := windowKey{client: client, route: route}

	w, exists := rl.windows[key]
	if !exists || now.Sub(w.start) >= rule.Window {
		rl.windows[key] = &window{count: 1, start: now}
		return true, 0
	}

	if w.count >= rule.Max {
		return false, w.start.Add(rule.Window).Sub(now)
	}

	w.count++
	return true, 0
}

// Middleware returns an Echo middleware enforcing the route's quota
// before the handler runs.
func (rl *RateLimiter) Middleware(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter := rl.Admit(c.RealIP(), route)
			if !allowed {
				seconds := int(retryAfter.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "too many requests",
					"retry_after": seconds,
				})
			}
			return next(c)
		}
	}
}

// cleanup removes windows whose span has fully elapsed
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, w := range rl.windows {
			rule, ok := rl.rules[key.route]
			if !ok || now.Sub(w.start) >= rule.Window {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}
