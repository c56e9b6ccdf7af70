package middleware

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"weather-api/pkg/apperror"
)

// RequestValidator validates bound request bodies with struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator; failures become 400 responses.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperror.Wrap(http.StatusBadRequest, err.Error(), err)
	}
	return nil
}

// SetupValidator registers the request validator on e.
func SetupValidator(e *echo.Echo) {
	e.Validator = NewRequestValidator()
}
