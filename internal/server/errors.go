// Package server provides the HTTP API for CV generation, job analysis
// and application tracking.
package server

import (
	"fmt"
	"net/http"

	"github.com/dizid/unplugged-cv/internal/billing"
	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrEntitlementRequired indicates a paid-only operation was attempted by
// a free-tier account.
type ErrEntitlementRequired struct{}

func (e *ErrEntitlementRequired) Error() string {
	return "this feature requires a paid account"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *types.InputTooShortError, *types.MissingJobContextError, *ErrValidation:
		return http.StatusBadRequest
	case *billing.SignatureError:
		return http.StatusBadRequest
	case *billing.QuotaExceededError:
		return http.StatusPaymentRequired
	case *ErrEntitlementRequired:
		return http.StatusForbidden
	case *db.NotFoundError:
		return http.StatusNotFound
	case *db.SlugConflictError:
		return http.StatusConflict
	case *llm.GenerationError, *llm.MalformedOutputError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the error text safe to put in a response body.
// Server-side failures get a generic message; the details stay in the
// logs (malformed model output in particular must never reach clients).
func clientMessage(err error) string {
	if HTTPStatus(err) >= http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
