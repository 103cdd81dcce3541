package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

func TestInvalid(t *testing.T) {
	err := Invalid("%s is required", "firstName")
	if err.Error() != "firstName is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		t.Error("expected validation classification only")
	}
}

func TestFromPgx(t *testing.T) {
	if FromPgx(nil, "client") != nil {
		t.Error("nil should stay nil")
	}
	err := FromPgx(pgx.ErrNoRows, "client")
	if !errors.Is(err, ErrNotFound) || err.Error() != "client not found" {
		t.Errorf("unexpected not-found error %v", err)
	}
	cause := errors.New("connection reset")
	err = FromPgx(cause, "client")
	if !errors.Is(err, cause) || errors.Is(err, ErrNotFound) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestHTTP(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{Invalid("bad"), http.StatusBadRequest},
		{fmt.Errorf("get: %w", NotFound("referral")), http.StatusNotFound},
		{echo.NewHTTPError(http.StatusConflict, "busy"), http.StatusConflict},
		{Conflict("chat in progress"), http.StatusConflict},
		{Upstream("try again", errors.New("dial tcp: refused")), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTP(tt.err); got.Code != tt.code {
			t.Errorf("HTTP(%v) = %d, want %d", tt.err, got.Code, tt.code)
		}
	}
	if msg := HTTP(errors.New("pq: secret detail")).Message; msg != "internal server error" {
		t.Errorf("internal errors must not leak, got %v", msg)
	}
}

func TestUpstream_KeepsCause(t *testing.T) {
	cause := errors.New("status 503")
	err := Upstream("Failed to generate document. Please try again.", cause)
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, cause) {
		t.Error("expected upstream classification wrapping the cause")
	}
	if err.Error() != "Failed to generate document. Please try again." {
		t.Errorf("cause leaked into message: %q", err.Error())
	}
}
