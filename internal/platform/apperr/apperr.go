// Package apperr classifies domain errors and maps them onto HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrUpstream   = errors.New("upstream failure")
)

type classified struct {
	msg   string
	kind  error
	cause error
}

func (e *classified) Error() string        { return e.msg }
func (e *classified) Is(target error) bool { return target == e.kind }
func (e *classified) Unwrap() error        { return e.cause }

// Invalid reports bad caller input. The message is shown to the caller as is.
func Invalid(format string, args ...any) error {
	return &classified{msg: fmt.Sprintf(format, args...), kind: ErrValidation}
}

// NotFound reports a missing record of the named resource.
func NotFound(resource string) error {
	return &classified{msg: resource + " not found", kind: ErrNotFound}
}

// Conflict reports a request that clashes with work already in progress.
func Conflict(msg string) error {
	return &classified{msg: msg, kind: ErrConflict}
}

// Upstream reports a failed call to an external backend. msg is what the
// caller sees; cause is kept for logs.
func Upstream(msg string, cause error) error {
	return &classified{msg: msg, kind: ErrUpstream, cause: cause}
}

// FromPgx turns pgx.ErrNoRows into NotFound and wraps everything else.
func FromPgx(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(resource)
	}
	return fmt.Errorf("%s: %w", resource, err)
}

// HTTP maps err to an echo error. Unclassified errors become a 500 with a
// generic message; the cause stays attached for logging.
func HTTP(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrUpstream):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
