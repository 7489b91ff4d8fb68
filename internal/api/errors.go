package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/quiz"
	"github.com/phrazzld/scry-vocab/internal/service"
	"github.com/phrazzld/scry-vocab/internal/service/auth"
	"github.com/phrazzld/scry-vocab/internal/service/card_review"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, quiz.ErrSessionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrCardExists),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, quiz.ErrSessionEnded),
		errors.Is(err, quiz.ErrWrongState):
		return http.StatusConflict

	// Nothing to act on
	case errors.Is(err, quiz.ErrNoCards),
		errors.Is(err, service.ErrEmptySelection):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, card_review.ErrInvalidAnswer),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

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
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		return "Invalid token"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, quiz.ErrSessionNotFound):
		return "Quiz not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrCapacityExceeded):
		return fmt.Sprintf("Flashcard limit reached (%d cards)", domain.MaxCapacity)
	case errors.Is(err, domain.ErrCardExists),
		errors.Is(err, store.ErrDuplicate):
		return "Flashcard already exists"
	case errors.Is(err, quiz.ErrSessionEnded):
		return "Quiz has ended"
	case errors.Is(err, quiz.ErrWrongState):
		return "Action not allowed at this point of the quiz"

	case errors.Is(err, quiz.ErrNoCards):
		return "No flashcards to study"
	case errors.Is(err, service.ErrEmptySelection):
		return "No flashcards match the filters"

	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, card_review.ErrInvalidAnswer):
		return "Invalid rating: must be one of good, okay, poor"
	case errors.Is(err, domain.ErrValidation):
		return validationDetail(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// validationDetail exposes the user-facing part of a domain validation error,
// e.g. "position 7 out of range 1-5". Domain validation messages are built
// from user input only, never from internal state.
func validationDetail(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		if detail := strings.TrimSpace(msg[i+len(prefix):]); detail != "" {
			return "Invalid input: " + detail
		}
	}
	return "Invalid input"
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() != "" {
			return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
		}
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
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

// HandleAPIError writes the sanitized response for err and logs the details.
// A non-empty fallback replaces the generic message for 5xx errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
