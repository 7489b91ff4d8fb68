package api

import (
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/quiz"
	"github.com/phrazzld/scry-vocab/internal/service"
)

// Common request/response structures

// UserResponse describes the authenticated user.
type UserResponse struct {
	ID            string    `json:"id"`
	Notifications bool      `json:"notifications"`
	CreatedAt     time.Time `json:"created_at"`
	// Created is true when this request registered the user.
	Created bool `json:"created"`
}

// PreferencesRequest updates notification preferences.
type PreferencesRequest struct {
	Notifications *bool `json:"notifications" validate:"required"`
}

// StatsResponse is the user's progress overview.
type StatsResponse = service.Stats

// CardResponse is one card of a listing. Position is the 1-based index used by
// the label and delete commands.
type CardResponse struct {
	Position      int         `json:"position"`
	ID            string      `json:"id"`
	Front         domain.Side `json:"front"`
	Back          domain.Side `json:"back"`
	Label         *string     `json:"label,omitempty"`
	ToReview      bool        `json:"to_review"`
	Interval      int         `json:"interval"`
	LearningPhase bool        `json:"learning_phase"`
	TimesStudied  int         `json:"times_studied"`
	LastReviewed  *time.Time  `json:"last_reviewed,omitempty"`
}

// CardListResponse is the result of GET /cards.
type CardListResponse struct {
	Cards    []CardResponse `json:"cards"`
	Total    int            `json:"total"`
	Capacity int            `json:"capacity"`
}

// SelectionRequest addresses cards by position in the list produced by
// Filters. For labeling, Input is "<label> <positions>".
type SelectionRequest struct {
	Input   string   `json:"input"   validate:"required"`
	Filters []string `json:"filters"`
}

// SelectionResponse reports how many cards a command changed.
type SelectionResponse struct {
	Affected int `json:"affected"`
}

// StartQuizRequest starts a quiz. A missing count uses the configured
// default; a count below one studies a single card.
type StartQuizRequest struct {
	Count   *int     `json:"count"`
	Invert  bool     `json:"invert"`
	Filters []string `json:"filters"`
}

// RateRequest rates the card currently shown.
type RateRequest struct {
	Rating string `json:"rating" validate:"required,oneof=good okay poor"`
}

// QuizResponse is the current quiz prompt.
type QuizResponse = quiz.Snapshot

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func userToResponse(u *domain.User, created bool) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Notifications: u.Preferences.Notifications,
		CreatedAt:     u.CreatedAt,
		Created:       created,
	}
}

func cardsToResponse(cards []domain.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, c := range cards {
		sr := c.SpacedRepetition
		out[i] = CardResponse{
			Position:      i + 1,
			ID:            c.ID,
			Front:         c.Front,
			Back:          c.Back,
			Label:         c.Label,
			ToReview:      sr.ToReview,
			Interval:      sr.Interval,
			LearningPhase: sr.LearningPhase,
			TimesStudied:  sr.TimesStudied,
			LastReviewed:  sr.LastReviewed,
		}
	}
	return out
}
