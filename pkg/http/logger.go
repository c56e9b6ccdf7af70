package http

import (
	"net/url"

	"go.uber.org/zap"

	"weather-api/pkg/log"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent
	LogRequest(method, url string)

	// LogResponseSuccess is called immediately after receiving a 2xx response
	LogResponseSuccess(method, url string, httpStatus int, latency int64)

	// LogResponseError is called after a transport failure (httpStatus 0) or a non-2xx response
	LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error)
}

type noopLogger struct{}

func (noopLogger) LogRequest(string, string)                                  {}
func (noopLogger) LogResponseSuccess(string, string, int, int64)              {}
func (noopLogger) LogResponseError(string, string, int, string, int64, error) {}

// ZapLogger writes outbound calls to the application logger, masking the listed query parameters.
type ZapLogger struct {
	masked []string
}

// NewZapLogger returns a ZapLogger that hides the values of maskedParams (e.g. API keys).
func NewZapLogger(maskedParams ...string) *ZapLogger {
	return &ZapLogger{masked: maskedParams}
}

func (l *ZapLogger) LogRequest(method, target string) {
	log.Debug("outbound request", zap.String("method", method), zap.String("url", l.mask(target)))
}

func (l *ZapLogger) LogResponseSuccess(method, target string, httpStatus int, latency int64) {
	log.Debug("outbound response",
		zap.String("method", method),
		zap.String("url", l.mask(target)),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency))
}

func (l *ZapLogger) LogResponseError(method, target string, httpStatus int, responseBody string, latency int64, err error) {
	log.Warn("outbound request failed",
		zap.String("method", method),
		zap.String("url", l.mask(target)),
		zap.Int("status", httpStatus),
		zap.String("body", responseBody),
		zap.Int64("latency_ms", latency),
		zap.Error(err))
}

func (l *ZapLogger) mask(target string) string {
	if len(l.masked) == 0 {
		return target
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	query := parsed.Query()
	for _, key := range l.masked {
		if query.Has(key) {
			query.Set(key, "***")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
