package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or user input fails validation.
	// This is usually wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrCapacityExceeded is returned when a card is added to a full card set.
	ErrCapacityExceeded = errors.New("card set is full")

	// ErrCardNotFound is returned when a referenced card is not in the user's set.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardExists is returned when a card with the same id is already in the set.
	ErrCardExists = errors.New("card already exists")

	// ErrInvalidRating is returned when a rating is not one of good, okay or poor.
	ErrInvalidRating = errors.New("invalid rating")
)
