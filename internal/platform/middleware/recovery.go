package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const stackSize = 8 << 10

// Recovery turns a handler panic into a 500 carrying the request id, so a
// caller can quote it when reporting the failure. http.ErrAbortHandler is
// passed through for net/http to handle.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]

				rid, _ := c.Get("request_id").(string)
				req := c.Request()
				logger.Error().
					Err(perr).
					Str("request_id", rid).
					Str("method", req.Method).
					Str("path", c.Path()).
					Bytes("stack", stack).
					Msg("panic recovered")

				err = echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
					"code":      "INTERNAL",
					"message":   "internal server error",
					"requestId": rid,
				}).SetInternal(perr)
			}()
			return next(c)
		}
	}
}
