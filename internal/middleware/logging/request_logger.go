package loggingmw

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Skotchmaster/sweet_shop/internal/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// logs one line per request once the error handler has written the response.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			lc := base.With().
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("url", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent())
			if rid != "" {
				lc = lc.Str("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			l := lc.Logger()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			dur := time.Since(start)
			status := c.Response().Status

			var ev *zerolog.Event
			switch {
			case err != nil && status >= 500:
				ev = l.Error().Err(err)
			case status >= 500:
				ev = l.Error()
			case status >= 400:
				ev = l.Warn()
			default:
				ev = l.Info().Int64("bytes", c.Response().Size)
			}
			ev.Int("status", status).Dur("duration", dur).Msg("request_completed")
			return nil
		}
	}
}
