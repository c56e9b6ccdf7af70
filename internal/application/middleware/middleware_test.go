package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/internal/domain/model"
	"weather-api/pkg/apperror"
	"weather-api/pkg/resilience/fetcher"
)

func serveError(t *testing.T, method, target string, handlerErr error) (int, model.ErrorResponse) {
	t.Helper()
	e := echo.New()
	SetupErrorHandler(e)
	e.Add(method, "/api/cities/:name", func(echo.Context) error { return handlerErr })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body model.ErrorResponse
	if method != http.MethodHead {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "app error", err: apperror.NotFound("City with ID 9 not found"), wantStatus: http.StatusNotFound, wantMessage: "City with ID 9 not found"},
		{name: "upstream not found", err: &fetcher.NotFoundError{Entity: "City", Target: "Atlantis"}, wantStatus: http.StatusNotFound, wantMessage: "City not found: Atlantis"},
		{name: "echo error", err: echo.NewHTTPError(http.StatusBadRequest, "invalid id"), wantStatus: http.StatusBadRequest, wantMessage: "invalid id"},
		{name: "plain error", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantMessage: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serveError(t, http.MethodGet, "/api/cities/paris?full=true", tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, "/api/cities/paris?full=true", body.Path)
			assert.Equal(t, http.MethodGet, body.Method)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}

func TestHTTPErrorHandler_UnknownRoute(t *testing.T) {
	status, body := serveError(t, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not Found", body.Message)
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(model.CreateCityDTO{Name: "Paris"}))

	err := v.Validate(model.CreateCityDTO{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}
