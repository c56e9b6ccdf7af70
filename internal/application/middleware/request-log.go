package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

var quietPaths = []string{"/health", "/metrics", "/swagger/"}

// SetupRequestLogger assigns a request id to every request and logs its outcome, at error level
// for 5xx and warn level for 4xx. Health, metrics and swagger traffic is not logged.
func SetupRequestLogger(e *echo.Echo) {
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogRemoteIP:  true,
		Skipper:      isQuietPath,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}

			switch {
			case v.Status >= 500:
				log.Error(msg.GetMessage("app.req-fail"), append(fields, zap.Error(v.Error))...)
			case v.Status >= 400:
				log.Warn(msg.GetMessage("app.req-fail"), fields...)
			default:
				log.Info(msg.GetMessage("app.req-end"), fields...)
			}
			return nil
		},
	}))
}

func isQuietPath(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, quiet := range quietPaths {
		if strings.Contains(path, quiet) {
			return true
		}
	}
	return false
}
