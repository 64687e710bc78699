package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(rules map[string]Rule) (*RateLimiter, *time.Time) {
	now := time.Now()
	rl := &RateLimiter{
		rules:   rules,
		windows: make(map[windowKey]*window),
	}
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterQuota(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(map[string]Rule{"login": {Max: 3, Window: time.Minute}})

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Admit("1.2.3.4", "login")
		require.True(t, allowed, "request %d should be admitted", i+1)
	}

	allowed, retryAfter := rl.Admit("1.2.3.4", "login")
	require.False(t, allowed)
	require.Greater(t, retryAfter, time.Duration(0))
	require.LessOrEqual(t, retryAfter, time.Minute)
}

func TestRateLimiterWindowReset(t *testing.T) {
	t.Parallel()

	rl, now := newTestLimiter(map[string]Rule{"login": {Max: 1, Window: time.Minute}})

	allowed, _ := rl.Admit("1.2.3.4", "login")
	require.True(t, allowed)
	allowed, _ = rl.Admit("1.2.3.4", "login")
	require.False(t, allowed)

	// First request after the window elapses starts a fresh window
	*now = now.Add(time.Minute)
	allowed, _ = rl.Admit("1.2.3.4", "login")
	require.True(t, allowed)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(map[string]Rule{
		"login":    {Max: 1, Window: time.Minute},
		"register": {Max: 1, Window: time.Hour},
	})

	allowed, _ := rl.Admit("1.2.3.4", "login")
	require.True(t, allowed)
	allowed, _ = rl.Admit("1.2.3.4", "login")
	require.False(t, allowed)

	// Other client, same route
	allowed, _ = rl.Admit("5.6.7.8", "login")
	require.True(t, allowed)

	// Same client, other route
	allowed, _ = rl.Admit("1.2.3.4", "register")
	require.True(t, allowed)
}

func TestRateLimiterUnknownRouteAdmitted(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(map[string]Rule{"login": {Max: 1, Window: time.Minute}})

	for i := 0; i < 100; i++ {
		allowed, _ := rl.Admit("1.2.3.4", "health")
		require.True(t, allowed)
	}
}

func TestRateLimiterConcurrentAdmit(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(map[string]Rule{"login": {Max: 50, Window: time.Minute}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := rl.Admit("1.2.3.4", "login"); allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Increment-and-check is atomic: exactly the quota gets through
	require.Equal(t, 50, admitted)
}

func TestRateLimiterMiddleware(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(map[string]Rule{"login": {Max: 1, Window: time.Minute}})

	e := echo.New()
	handler := rl.Middleware("login")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		return rec
	}

	require.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "retry_after")
}
