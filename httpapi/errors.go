package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrEthical07/learnhub/middleware"
	"github.com/labstack/echo/v4"
)

// errorHandler renders every handler error in the common envelope. Echo's
// own HTTPErrors (404 routes, bind failures, body limit) keep their status.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := middleware.StatusCode(err)
		message := middleware.Message(err)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil && status >= http.StatusInternalServerError {
				err = he.Internal
			}
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, middleware.ErrorBody{Success: false, Message: message})
		}
		if err != nil {
			logger.Error("write error response", slog.Any("error", err))
		}
	}
}
