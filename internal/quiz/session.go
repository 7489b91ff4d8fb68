package quiz

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/service/card_review"
)

// session is one quiz run. All fields are guarded by mu.
type session struct {
	mu sync.Mutex

	id     string
	userID string
	// cards are the display copies, already inverted when requested.
	cards    []domain.Card
	index    int
	state    State
	deadline time.Time
	endedAt  time.Time

	studied int
	points  int
	summary *Summary
}

func newSession(id, userID string, cards []domain.Card, now time.Time, timeout time.Duration) *session {
	return &session{
		id:       id,
		userID:   userID,
		cards:    cards,
		state:    StateAwaitingFront,
		deadline: now.Add(timeout),
	}
}

// snapshot must be called with mu held.
func (s *session) snapshot() *Snapshot {
	snap := &Snapshot{
		ID:      s.id,
		UserID:  s.userID,
		State:   s.state,
		Total:   len(s.cards),
		Studied: s.studied,
		Points:  s.points,
		Choices: []string{},
	}

	if s.state == StateEnded {
		snap.Position = s.index
		summary := *s.summary
		snap.Summary = &summary
		return snap
	}

	card := s.cards[s.index]
	front := card.Front
	deadline := s.deadline
	snap.Position = s.index + 1
	snap.CardID = card.ID
	snap.Front = &front
	snap.Deadline = &deadline

	switch s.state {
	case StateAwaitingFront:
		snap.Choices = append(snap.Choices, frontChoices...)
	case StateAwaitingRating:
		back := card.Back
		snap.Back = &back
		snap.Choices = append(snap.Choices, ratingChoices...)
	}
	return snap
}

// expired reports whether the current prompt has timed out. mu must be held.
func (s *session) expired(now time.Time) bool {
	return s.state != StateEnded && !now.Before(s.deadline)
}

// active returns ErrSessionEnded if the session is over. mu must be held.
func (s *session) active() error {
	if s.state == StateEnded {
		return ErrSessionEnded
	}
	return nil
}

func (s *session) flip(now time.Time, timeout time.Duration) error {
	if err := s.active(); err != nil {
		return err
	}
	if s.state != StateAwaitingFront {
		return ErrWrongState
	}
	s.state = StateAwaitingRating
	s.deadline = now.Add(timeout)
	return nil
}

// rate stores the rating for the shown card and advances. It reports whether
// that was the last card. A card deleted since the quiz started is skipped
// without counting. Any other store failure leaves the prompt in place so the
// user can rate again.
func (s *session) rate(
	ctx context.Context,
	reviewer Reviewer,
	rating domain.Rating,
	now time.Time,
	timeout time.Duration,
	log *slog.Logger,
) (bool, error) {
	if err := s.active(); err != nil {
		return false, err
	}
	if s.state != StateAwaitingRating {
		return false, ErrWrongState
	}
	if !rating.Valid() {
		return false, domain.ErrInvalidRating
	}

	card := s.cards[s.index]
	result, err := reviewer.SubmitAnswer(ctx, s.userID, card.ID, card_review.ReviewAnswer{Rating: rating})
	switch {
	case errors.Is(err, card_review.ErrCardNotFound):
		log.Info("skipping card removed during quiz",
			slog.String("session_id", s.id),
			slog.String("card_id", card.ID))
	case err != nil:
		return false, err
	default:
		s.studied++
		s.points += result.Points
	}

	s.index++
	if s.index >= len(s.cards) {
		return true, nil
	}
	s.state = StateAwaitingFront
	s.deadline = now.Add(timeout)
	return false, nil
}

// finish ends the session and runs completion bookkeeping when at least one
// card was rated. A bookkeeping failure is logged; the summary still reports
// the recorded ratings. mu must be held.
func (s *session) finish(ctx context.Context, reason EndReason, completer Completer, now time.Time, log *slog.Logger) {
	if s.state == StateEnded {
		return
	}
	s.state = StateEnded
	s.endedAt = now

	summary := &Summary{
		Reason:    reason,
		Studied:   s.studied,
		Points:    s.points,
		NewBadges: []domain.Badge{},
		Text:      FormatSummary(s.studied, s.points),
	}
	s.summary = summary

	if s.studied == 0 {
		return
	}
	completion, err := completer.CompleteQuiz(ctx, s.userID)
	if err != nil {
		log.Error("failed to record quiz completion",
			slog.String("session_id", s.id),
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()))
		return
	}
	summary.NewBadges = completion.NewBadges
}
