package fetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	httpclient "weather-api/pkg/http"
)

// ErrNotFound matches every *NotFoundError with errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports that the upstream confirmed the requested entity does not exist.
// It is the only failure a lookup propagates instead of degrading.
type NotFoundError struct {
	Entity string
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Target)
}

// StatusCode returns the HTTP-equivalent status of the error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotFoundMatcher decides whether an upstream error response means "entity does not exist".
type NotFoundMatcher func(statusCode int, body []byte) bool

// MessageContains returns a matcher for a 404 whose JSON "message" field contains phrase,
// case-insensitively. Bodies that are not JSON objects are matched as plain text.
func MessageContains(phrase string) NotFoundMatcher {
	phrase = strings.ToLower(phrase)
	return func(statusCode int, body []byte) bool {
		if statusCode != http.StatusNotFound {
			return false
		}
		var payload struct {
			Message *string `json:"message"`
		}
		text := string(body)
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Message == nil {
				return false
			}
			text = *payload.Message
		}
		return strings.Contains(strings.ToLower(text), phrase)
	}
}

func (f *Fetcher) classify(err error, req Request) error {
	if f.notFound == nil {
		return err
	}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && f.notFound(statusErr.StatusCode, statusErr.Body) {
		entity := req.Entity
		if entity == "" {
			entity = "Resource"
		}
		return &NotFoundError{Entity: entity, Target: req.Target}
	}
	return err
}
