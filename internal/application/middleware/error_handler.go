package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-api/internal/domain/model"
	"weather-api/pkg/apperror"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

type statusCoder interface {
	StatusCode() int
}

// SetupErrorHandler renders every handler error as a model.ErrorResponse.
func SetupErrorHandler(e *echo.Echo) {
	e.HTTPErrorHandler = HTTPErrorHandler
}

// HTTPErrorHandler maps err to a status and message. Errors that carry a status keep their
// message; anything else is a 500 whose cause is only logged.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(http.StatusInternalServerError)

	var httpErr *echo.HTTPError
	var coded statusCoder
	switch {
	case errors.As(err, &coded):
		status = apperror.StatusOf(err)
		message = err.Error()
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	}

	response := model.ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       c.Request().URL.RequestURI(),
		Method:     c.Request().Method,
		Message:    message,
	}

	fields := []zap.Field{
		zap.Int("status", response.StatusCode),
		zap.String("method", response.Method),
		zap.String("path", response.Path),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error(msg.GetMessage("app.req-error", response.Method, response.Path, response.Message), fields...)
	} else {
		log.Warn(msg.GetMessage("app.req-error", response.Method, response.Path, response.Message), fields...)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, response)
	}
	if err != nil {
		log.Error("failed to write error response", zap.Error(err))
	}
}
