package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// TimeoutConfig sets per-request deadlines. The first override whose prefix
// matches the path is used. Paths under Skip get no deadline.
type TimeoutConfig struct {
	Default   time.Duration
	Overrides []TimeoutOverride
	Skip      []string
}

type TimeoutOverride struct {
	Prefix  string
	Timeout time.Duration
}

func (cfg TimeoutConfig) timeoutFor(path string) (time.Duration, bool) {
	for _, p := range cfg.Skip {
		if strings.HasPrefix(path, p) {
			return 0, false
		}
	}
	for _, o := range cfg.Overrides {
		if strings.HasPrefix(path, o.Prefix) {
			return o.Timeout, o.Timeout > 0
		}
	}
	return cfg.Default, cfg.Default > 0
}

// RequestTimeout puts a deadline on the request context and answers 504
// when the handler has not returned by then.
func RequestTimeout(cfg TimeoutConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timeout, ok := cfg.timeoutFor(c.Request().URL.Path)
			if !ok {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return gatewayTimeoutError(c)
				}
				// client went away
				return ctx.Err()
			}
		}
	}
}

func gatewayTimeoutError(c echo.Context) error {
	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusGatewayTimeout, map[string]string{
		"message": "request processing exceeded the allowed time limit",
	})
}
