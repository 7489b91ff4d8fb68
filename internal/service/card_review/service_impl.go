package card_review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/lock"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	userStore  store.UserStore
	srsService srs.Service
	locks      *lock.Keyed
	clock      clock.Clock
	logger     *slog.Logger
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	userStore store.UserStore,
	srsService srs.Service,
	locks *lock.Keyed,
	clk clock.Clock,
	logger *slog.Logger,
) CardReviewService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if locks == nil {
		panic("locks cannot be nil")
	}
	if clk == nil {
		clk = clock.Real{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &cardReviewServiceImpl{
		userStore:  userStore,
		srsService: srsService,
		locks:      locks,
		clock:      clk,
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, cardID string,
	answer ReviewAnswer,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.String("user_id", userID),
		slog.String("card_id", cardID),
		slog.String("rating", string(answer.Rating)))

	if !answer.Rating.Valid() {
		log.Warn("invalid review rating",
			slog.String("user_id", userID),
			slog.String("card_id", cardID),
			slog.String("rating", string(answer.Rating)))
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnswer, domain.ErrInvalidRating)
	}

	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return nil, NewSubmitAnswerError("failed to acquire user lock", err)
	}
	defer unlock()

	set, err := s.userStore.GetCardSet(ctx, userID)
	if err != nil {
		log.Error("failed to load card set",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, NewSubmitAnswerError("failed to load card set", err)
	}

	card, ok := set.Get(cardID)
	if !ok {
		log.Warn("card not found for review",
			slog.String("user_id", userID),
			slog.String("card_id", cardID))
		return nil, ErrCardNotFound
	}

	next, points, err := s.srsService.Rate(card, answer.Rating, s.clock.Now())
	if err != nil {
		return nil, NewSubmitAnswerError("failed to calculate next review", err)
	}

	increments := map[domain.Counter]int{
		domain.CounterStudyPoints:       points,
		domain.CounterFlashcardsStudied: 1,
	}
	if err := s.userStore.SaveReview(ctx, userID, next, increments); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to save review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("card_id", cardID))
		return nil, NewSubmitAnswerError("failed to save review", err)
	}

	log.Debug("successfully processed review answer",
		slog.String("user_id", userID),
		slog.String("card_id", cardID),
		slog.String("rating", string(answer.Rating)),
		slog.Int("interval", next.SpacedRepetition.Interval),
		slog.Bool("learning_phase", next.SpacedRepetition.LearningPhase),
		slog.Int("points", points))

	return &ReviewResult{Card: next, Points: points}, nil
}
