// Package quiz runs interactive flashcard quiz sessions.
//
// A session walks a random sample of the user's cards. Each card is shown
// front first; the user flips it or stops, then rates it. Every prompt waits
// at most the prompt timeout, after which the session ends and keeps the
// ratings already recorded.
//
//	AwaitingFront --flip--> AwaitingRating --rate--> AwaitingFront (next card)
//	      |                       |            \--> Ended (last card)
//	      +------stop/timeout-----+------------> Ended
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/service"
	"github.com/phrazzld/scry-vocab/internal/service/card_review"
)

var (
	// ErrSessionEnded is returned by Flip, Rate and Stop on a finished session.
	ErrSessionEnded = errors.New("quiz session has ended")

	// ErrSessionNotFound is returned for unknown or reaped sessions, and for
	// sessions that belong to another user.
	ErrSessionNotFound = errors.New("quiz session not found")

	// ErrWrongState is returned when an action does not fit the current prompt,
	// e.g. rating a card that has not been flipped.
	ErrWrongState = errors.New("action not allowed in current quiz state")

	// ErrNoCards is returned when no card matches the quiz filters.
	ErrNoCards = errors.New("no flashcards to study")
)

// State is the position of a session in its state machine.
type State string

// Session states.
const (
	StateAwaitingFront  State = "awaiting_front"
	StateAwaitingRating State = "awaiting_rating"
	StateEnded          State = "ended"
)

// EndReason records why a session ended.
type EndReason string

// End reasons.
const (
	EndCompleted EndReason = "completed"
	EndStopped   EndReason = "stopped"
	EndTimeout   EndReason = "timeout"
	EndReplaced  EndReason = "replaced"
	EndShutdown  EndReason = "shutdown"
)

// Choice names offered at each prompt.
const (
	ChoiceFlip = "flip"
	ChoiceStop = "stop"
)

var (
	frontChoices  = []string{ChoiceFlip, ChoiceStop}
	ratingChoices = []string{string(domain.RatingPoor), string(domain.RatingOkay), string(domain.RatingGood)}
)

// Options configure a new session.
type Options struct {
	// Count is the number of cards to sample. Zero uses the configured
	// default and anything below one studies a single card.
	Count int `json:"count"`
	// Invert shows the back side first.
	Invert  bool               `json:"invert"`
	Filters []domain.Predicate `json:"filters"`
}

// Summary describes a finished session.
type Summary struct {
	Reason    EndReason      `json:"reason"`
	Studied   int            `json:"studied"`
	Points    int            `json:"points"`
	NewBadges []domain.Badge `json:"new_badges"`
	Text      string         `json:"text"`
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID       string       `json:"id"`
	UserID   string       `json:"user_id"`
	State    State        `json:"state"`
	Position int          `json:"position"`
	Total    int          `json:"total"`
	CardID   string       `json:"card_id,omitempty"`
	Front    *domain.Side `json:"front,omitempty"`
	Back     *domain.Side `json:"back,omitempty"`
	Choices  []string     `json:"choices"`
	Deadline *time.Time   `json:"deadline,omitempty"`
	Studied  int          `json:"studied"`
	Points   int          `json:"points"`
	Summary  *Summary     `json:"summary,omitempty"`
}

// CardSource supplies the card set a quiz samples from.
type CardSource interface {
	GetCardSet(ctx context.Context, userID string) (*domain.CardSet, error)
}

// Reviewer stores a rating. card_review.CardReviewService satisfies it.
type Reviewer interface {
	SubmitAnswer(ctx context.Context, userID, cardID string, answer card_review.ReviewAnswer) (*card_review.ReviewResult, error)
}

// Completer records a finished quiz. service.ProgressService satisfies it.
type Completer interface {
	CompleteQuiz(ctx context.Context, userID string) (*service.QuizCompletion, error)
}

// FormatSummary renders the end-of-quiz message.
func FormatSummary(studied, points int) string {
	return fmt.Sprintf("%d flashcard%s studied\n%d point%s earned",
		studied, plural(studied), points, plural(points))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
