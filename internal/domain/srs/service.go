package srs

import (
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Service defines the interface for scheduling operations.
type Service interface {
	// Rate returns the card's next scheduling state for rating at now, along
	// with the points the rating earns. The input card is not modified.
	Rate(card domain.Card, rating domain.Rating, now time.Time) (domain.Card, int, error)

	// CheckDue applies due detection to card in place at now and reports
	// whether it should be included in a reminder batch.
	CheckDue(card *domain.Card, now time.Time) bool
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Rate implements Service.
func (s *defaultService) Rate(
	card domain.Card,
	rating domain.Rating,
	now time.Time,
) (domain.Card, int, error) {
	if !rating.Valid() {
		return domain.Card{}, 0, domain.ErrInvalidRating
	}

	next, points := rate(card, rating, now, s.params)
	return next, points, nil
}

// CheckDue implements Service.
func (s *defaultService) CheckDue(card *domain.Card, now time.Time) bool {
	if card == nil {
		return false
	}
	return checkDue(card, now, s.params)
}
