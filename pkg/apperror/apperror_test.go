package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type coded struct{}

func (coded) Error() string   { return "teapot" }
func (coded) StatusCode() int { return http.StatusTeapot }

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("City with ID 1 not found"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("create: %w", Conflict("City already exists")), http.StatusConflict},
		{"foreign status coder", fmt.Errorf("x: %w", coded{}), http.StatusTeapot},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestError_SentinelMatching(t *testing.T) {
	sentinel := New(http.StatusNotImplemented, "not available")

	err := fmt.Errorf("provider: %w", New(http.StatusNotImplemented, "not available"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, New(http.StatusNotImplemented, "other"))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(http.StatusServiceUnavailable, "database unavailable", cause)

	assert.Equal(t, "database unavailable", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "pq: connection refused", (&Error{Err: cause}).Error())
}
