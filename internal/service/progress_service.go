package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// QuizCompletion is the bookkeeping result of a finished quiz.
type QuizCompletion struct {
	Progress  domain.Progress `json:"progress"`
	NewBadges []domain.Badge  `json:"new_badges"`
}

// ProgressService tracks study counters and awards badges.
type ProgressService interface {
	// Increment adds delta to a counter. Negative deltas and unknown counters
	// are rejected with domain.ErrValidation.
	Increment(ctx context.Context, userID string, counter domain.Counter, delta int) error

	// CompleteQuiz counts a finished quiz, updates the streak and awards every
	// badge the new progress satisfies.
	CompleteQuiz(ctx context.Context, userID string) (*QuizCompletion, error)

	// Badges returns the loaded badge definitions.
	Badges() []domain.Badge
}

type progressServiceImpl struct {
	userStore store.UserStore
	badges    []domain.Badge
	clock     clock.Clock
	logger    *slog.Logger
}

// NewProgressService creates a ProgressService using the given badge definitions.
func NewProgressService(userStore store.UserStore, badges []domain.Badge, clk clock.Clock, logger *slog.Logger) ProgressService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &progressServiceImpl{
		userStore: userStore,
		badges:    badges,
		clock:     clk,
		logger:    logger.With(slog.String("component", "progress_service")),
	}
}

// Increment implements ProgressService.
func (s *progressServiceImpl) Increment(ctx context.Context, userID string, counter domain.Counter, delta int) error {
	if !counter.Valid() {
		return fmt.Errorf("%w: unknown counter %q", domain.ErrValidation, counter)
	}
	if delta < 0 {
		return fmt.Errorf("%w: counter delta cannot be negative", domain.ErrValidation)
	}
	if err := s.userStore.IncrementCounter(ctx, userID, counter, delta); err != nil {
		return wrapStoreError("increment", "failed to update counter", err)
	}
	return nil
}

// CompleteQuiz implements ProgressService.
func (s *progressServiceImpl) CompleteQuiz(ctx context.Context, userID string) (*QuizCompletion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.userStore.RecordQuizCompletion(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, wrapStoreError("complete_quiz", "failed to record quiz completion", err)
	}

	out := &QuizCompletion{NewBadges: []domain.Badge{}}
	for _, b := range domain.EvaluateBadges(progress, s.badges) {
		added, err := s.userStore.AddBadge(ctx, userID, b.Name)
		if err != nil {
			log.Error("failed to award badge",
				slog.String("user_id", userID),
				slog.String("badge", b.Name),
				slog.String("error", err.Error()))
			return nil, wrapStoreError("complete_quiz", "failed to award badge", err)
		}
		if !added {
			continue
		}
		progress.AddBadge(b.Name)
		out.NewBadges = append(out.NewBadges, b)
		log.Info("badge earned",
			slog.String("user_id", userID),
			slog.String("badge", b.Name))
	}

	out.Progress = *progress
	return out, nil
}

// Badges implements ProgressService.
func (s *progressServiceImpl) Badges() []domain.Badge {
	return s.badges
}
