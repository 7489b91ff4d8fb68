package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// ReviewAnswer represents a user's rating of a flashcard.
type ReviewAnswer struct {
	Rating domain.Rating `json:"rating"`
}

// ReviewResult is the outcome of a stored rating.
type ReviewResult struct {
	// Card is the card's new scheduling state as stored.
	Card domain.Card `json:"card"`
	// Points is the study_points increment the rating earned.
	Points int `json:"points"`
}

// CardReviewService applies ratings to cards using the spaced repetition
// scheduler.
type CardReviewService interface {
	// SubmitAnswer rates the stored card with the given id.
	//
	// The card is reloaded under the user's lock so a rating always applies
	// to the latest stored state, never to a copy a quiz flipped or inverted.
	// The updated card and the study_points / flashcards_studied increments
	// are written in one atomic store step.
	//
	// Returns:
	//   - ErrInvalidAnswer when the rating is not good, okay or poor
	//   - ErrCardNotFound when the card left the set, e.g. deleted mid-quiz
	//   - any other error from the store, wrapped
	SubmitAnswer(ctx context.Context, userID, cardID string, answer ReviewAnswer) (*ReviewResult, error)
}

// Common error types for CardReviewService
var (
	// ErrCardNotFound indicates that the card is not in the user's set.
	ErrCardNotFound = domain.ErrCardNotFound

	// ErrInvalidAnswer indicates an invalid rating was provided.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_answer",
		Message:   message,
		Err:       err,
	}
}
