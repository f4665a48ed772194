package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ValidationError rejects input before any outbound call is made.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

// ProviderError is a failed call to a third-party API. Status is the
// provider's HTTP status, or 0 when no response arrived.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

func (e ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e ProviderError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// StatusCode maps an error onto the HTTP status it should produce.
func StatusCode(err error) int {
	var fe *fiber.Error
	var pe ProviderError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.As(err, &pe):
		if pe.Status >= 400 {
			return pe.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handler is the fiber.ErrorHandler used by the API; every error leaves as
// {"error": "..."}.
func Handler(c *fiber.Ctx, err error) error {
	return c.Status(StatusCode(err)).JSON(fiber.Map{"error": err.Error()})
}
