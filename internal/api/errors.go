package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

// InvalidCredentialsMessage is the single message used for every 401.
// It deliberately never reveals which check failed (missing header, bad
// signature, expiry, unknown subject) to avoid leaking token-validity
// internals.
const InvalidCredentialsMessage = "Invalid credentials"

// ValidationMessage is the generic message accompanying 422 responses;
// field-level detail travels in the fields map.
const ValidationMessage = "Validation error"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. A task owned by someone else surfaces as the same
	// not-found error, so cross-user probing cannot distinguish the cases.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		isDomainValidationError(err):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return InvalidCredentialsMessage

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrValidation), isDomainValidationError(err):
		return ValidationMessage

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether err is one of the domain's
// field-constraint sentinels.
func isDomainValidationError(err error) bool {
	return errors.Is(err, domain.ErrTaskEmptyTitle) ||
		errors.Is(err, domain.ErrTaskTitleTooLong) ||
		errors.Is(err, domain.ErrTaskDescriptionTooLong)
}

// ValidationFields extracts field-level detail from a validation error for
// the 422 response body. It understands both validator.ValidationErrors from
// request binding and the domain's own sentinels.
func ValidationFields(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationTagMessage(fe.Tag())
		}
		return fields
	}

	var dverr *domain.ValidationError
	if errors.As(err, &dverr) {
		fields[dverr.Field] = dverr.Message
		return fields
	}

	switch {
	case errors.Is(err, domain.ErrTaskEmptyTitle):
		fields["title"] = "required field"
	case errors.Is(err, domain.ErrTaskTitleTooLong):
		fields["title"] = "too long"
	case errors.Is(err, domain.ErrTaskDescriptionTooLong):
		fields["description"] = "too long"
	}

	return fields
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
