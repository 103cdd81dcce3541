package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adolbicare/clinic/internal/platform/auth"
)

func rateLimitedHandler(cfg RateLimitConfig) echo.HandlerFunc {
	return RateLimit(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}

func newRateCtx(e *echo.Echo, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: userID}))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimit_RequestsWithinLimit(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	for i := 0; i < 5; i++ {
		c, rec := newRateCtx(e, "")
		if err := handler(c); err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("request %d: expected X-RateLimit-Limit '10', got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
	}
}

func TestRateLimit_ExceedsLimitWithRetryAfter(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	c, _ := newRateCtx(e, "")
	if err := handler(c); err != nil {
		t.Fatalf("first request: %v", err)
	}

	c, rec := newRateCtx(e, "")
	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	retry, perr := strconv.Atoi(rec.Header().Get("Retry-After"))
	if perr != nil || retry < 1 {
		t.Errorf("expected Retry-After >= 1, got %q", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected X-RateLimit-Remaining '0', got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_PerUserIsolation(t *testing.T) {
	e := echo.New()
	handler := rateLimitedHandler(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	c, _ := newRateCtx(e, "user-a")
	if err := handler(c); err != nil {
		t.Fatalf("user-a first request: %v", err)
	}
	c, _ = newRateCtx(e, "user-a")
	if err := handler(c); err == nil {
		t.Fatal("user-a second request: expected rate limit error")
	}
	c, _ = newRateCtx(e, "user-b")
	if err := handler(c); err != nil {
		t.Fatalf("user-b first request: %v", err)
	}
}

func TestLimiterStore_ZeroRate(t *testing.T) {
	s := newLimiterStore(RateLimitConfig{RequestsPerSecond: 0, BurstSize: 1})
	now := time.Now()
	if ok, _ := s.allow("k", now); !ok {
		t.Fatal("expected burst token to be available")
	}
	ok, retry := s.allow("k", now)
	if ok {
		t.Fatal("expected zero-rate limiter to reject")
	}
	if retry != 1 {
		t.Errorf("expected retry 1, got %d", retry)
	}
}

func TestLimiterStore_EvictsIdleKeys(t *testing.T) {
	s := newLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	start := time.Now()
	s.get("old", start)
	s.get("new", start.Add(2*time.Minute))
	if s.size() != 1 {
		t.Errorf("expected idle key to be evicted, have %d entries", s.size())
	}
}

func TestRateLimit_DefaultConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 100 || cfg.BurstSize != 200 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
