package domain

import (
	"fmt"
	"strings"
)

// Rating is the user's coarse recall feedback for a shown card.
type Rating string

// Valid ratings.
const (
	RatingGood Rating = "good"
	RatingOkay Rating = "okay"
	RatingPoor Rating = "poor"
)

// Valid reports whether r is one of the three known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingGood, RatingOkay, RatingPoor:
		return true
	default:
		return false
	}
}

// ParseRating parses a case-insensitive rating name.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}
