package domain

import (
	"fmt"
	"strings"
	"time"
)

// Scheduling constants, in minutes.
const (
	// LearningThresholdMinutes separates the learning phase from the review phase.
	LearningThresholdMinutes = 60

	// MinIntervalMinutes is the smallest interval a card can be scheduled for.
	MinIntervalMinutes = 10

	// InitialIntervalMinutes is the interval assigned to a newly created card.
	InitialIntervalMinutes = 10

	// DefaultMaxIntervalMinutes is 30 days.
	DefaultMaxIntervalMinutes = 30 * 24 * 60
)

// Side is one face of a flashcard.
type Side struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// SpacedRepetition is the mutable scheduling state of a card.
type SpacedRepetition struct {
	ToReview      bool       `json:"toReview"`
	LastReviewed  *time.Time `json:"lastReviewed,omitempty"`
	LastReminded  *time.Time `json:"lastReminded,omitempty"`
	Interval      int        `json:"interval"`
	LearningPhase bool       `json:"learningPhase"`
	TimesStudied  int        `json:"timesStudied"`
}

// Card is a single vocabulary flashcard.
type Card struct {
	ID               string           `json:"id"`
	Front            Side             `json:"front"`
	Back             Side             `json:"back"`
	Label            *string          `json:"label,omitempty"`
	SpacedRepetition SpacedRepetition `json:"spacedRepetition"`
}

// NewCard creates a card in its initial scheduling state.
// Returns an error wrapping ErrValidation if the id or either word is empty.
func NewCard(id string, front, back Side) (*Card, error) {
	card := &Card{
		ID:    strings.TrimSpace(id),
		Front: front,
		Back:  back,
		SpacedRepetition: SpacedRepetition{
			Interval:      InitialIntervalMinutes,
			LearningPhase: InitialIntervalMinutes < LearningThresholdMinutes,
		},
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the card's identity and content.
func (c *Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: card id cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(c.Front.Word) == "" {
		return fmt.Errorf("%w: front word cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(c.Back.Word) == "" {
		return fmt.Errorf("%w: back word cannot be empty", ErrValidation)
	}
	if c.SpacedRepetition.TimesStudied < 0 {
		return fmt.Errorf("%w: times studied cannot be negative", ErrValidation)
	}
	return nil
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.Label != nil {
		l := *c.Label
		out.Label = &l
	}
	if c.SpacedRepetition.LastReviewed != nil {
		t := *c.SpacedRepetition.LastReviewed
		out.SpacedRepetition.LastReviewed = &t
	}
	if c.SpacedRepetition.LastReminded != nil {
		t := *c.SpacedRepetition.LastReminded
		out.SpacedRepetition.LastReminded = &t
	}
	return out
}

// Inverted returns a copy with front and back swapped. The receiver is not modified.
func (c Card) Inverted() Card {
	out := c.Clone()
	out.Front, out.Back = out.Back, out.Front
	return out
}

// LabelValue returns the label and whether one has been set.
func (c *Card) LabelValue() (string, bool) {
	if c.Label == nil {
		return "", false
	}
	return *c.Label, true
}

// SetLabel assigns the card's label.
func (c *Card) SetLabel(label string) {
	c.Label = &label
}

// IsDue reports whether at least one interval has elapsed since the last review.
// A card that has never been reviewed is never due.
func (c *Card) IsDue(now time.Time) bool {
	last := c.SpacedRepetition.LastReviewed
	if last == nil {
		return false
	}
	return now.Sub(*last) >= time.Duration(c.SpacedRepetition.Interval)*time.Minute
}
