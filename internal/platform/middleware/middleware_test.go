package middleware

import (
	"net/http"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func expectHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d", code)
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != code {
		t.Errorf("expected %d, got %d", code, httpErr.Code)
	}
}

func TestRequestID_GeneratesNew(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/")

	handler := func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := RequestID()(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", func(r *http.Request) {
		r.Header.Set(RequestIDHeader, "my-custom-id")
	})

	handler := func(c echo.Context) error {
		if rid := c.Get("request_id").(string); rid != "my-custom-id" {
			t.Errorf("expected my-custom-id, got %s", rid)
		}
		return nil
	}
	_ = RequestID()(handler)(c)

	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", got)
	}
}

func TestLogger_WritesErrorResponse(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	c, rec := newTestContext(http.MethodGet, "/api/v1/clients/missing")

	handler := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}

	if err := Logger(logger)(handler)(c); err != nil {
		t.Fatalf("logger should swallow the handled error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 written by the logger, got %d", rec.Code)
	}
}

func TestLogger_LogsRequest(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/test")
	if err := Logger(zerolog.New(os.Stderr))(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/panic")
	handler := func(c echo.Context) error {
		panic("test panic")
	}
	expectHTTPStatus(t, Recovery(zerolog.New(os.Stderr))(handler)(c), http.StatusInternalServerError)
}

func TestRecovery_PassesThrough(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/ok")
	if err := Recovery(zerolog.New(os.Stderr))(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
