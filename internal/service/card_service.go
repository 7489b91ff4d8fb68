package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/dictionary"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/lock"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// CardService provides card set operations for a single user.
//
// Positional commands (LabelCards, DeleteCards) resolve positions against the
// list the filters produce at call time. If the set changed since the user
// last listed it, positions refer to the current list.
type CardService interface {
	// AddCard creates a card from a dictionary entry.
	// Returns domain.ErrCardExists if the id is taken and
	// domain.ErrCapacityExceeded if the set is full.
	AddCard(ctx context.Context, userID string, entry dictionary.Entry) (*domain.Card, error)

	// ListCards returns the cards matching every filter, in display order.
	ListCards(ctx context.Context, userID string, filters []domain.Predicate) ([]domain.Card, error)

	// LabelCards parses "<label> <positions>" and labels the listed cards.
	LabelCards(ctx context.Context, userID, input string, filters []domain.Predicate) (int, error)

	// DeleteCards parses a position list and removes the listed cards.
	DeleteCards(ctx context.Context, userID, input string, filters []domain.Predicate) (int, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	userStore store.UserStore
	locks     *lock.Keyed
	newID     dictionary.IDGenerator
	logger    *slog.Logger
}

// NewCardService creates a new CardService. A nil newID uses nanoid.
func NewCardService(
	userStore store.UserStore,
	locks *lock.Keyed,
	newID dictionary.IDGenerator,
	logger *slog.Logger,
) CardService {
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if locks == nil {
		panic("locks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cardServiceImpl{
		userStore: userStore,
		locks:     locks,
		newID:     newID,
		logger:    logger.With(slog.String("component", "card_service")),
	}
}

// AddCard implements CardService.AddCard
func (s *cardServiceImpl) AddCard(ctx context.Context, userID string, entry dictionary.Entry) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := dictionary.NewCard(entry, s.newID)
	if err != nil {
		return nil, err
	}

	err = s.withCardSet(ctx, "add_card", userID, func(set *domain.CardSet) (bool, error) {
		if set.Contains(card.ID) {
			return false, domain.ErrCardExists
		}
		if !set.Add(*card) {
			return false, domain.ErrCapacityExceeded
		}
		return true, nil
	})
	if err != nil {
		log.Debug("card not added",
			slog.String("user_id", userID),
			slog.String("card_id", card.ID),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("card added",
		slog.String("user_id", userID),
		slog.String("card_id", card.ID))
	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, userID string, filters []domain.Predicate) ([]domain.Card, error) {
	if err := validatePredicates(filters); err != nil {
		return nil, err
	}

	set, err := s.userStore.GetCardSet(ctx, userID)
	if err != nil {
		return nil, wrapStoreError("list_cards", "failed to load card set", err)
	}
	return set.Filter(filters...), nil
}

// LabelCards implements CardService.LabelCards
func (s *cardServiceImpl) LabelCards(ctx context.Context, userID, input string, filters []domain.Predicate) (int, error) {
	if err := validatePredicates(filters); err != nil {
		return 0, err
	}

	var labeled int
	err := s.withCardSet(ctx, "label_cards", userID, func(set *domain.CardSet) (bool, error) {
		display := set.Filter(filters...)
		if len(display) == 0 {
			return false, ErrEmptySelection
		}
		label, positions, err := domain.ParseLabelInput(input, len(display))
		if err != nil {
			return false, err
		}
		labeled, err = set.Label(positions, label, display)
		return labeled > 0, err
	})
	if err != nil {
		return 0, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("cards labeled",
		slog.String("user_id", userID),
		slog.Int("count", labeled))
	return labeled, nil
}

// DeleteCards implements CardService.DeleteCards
func (s *cardServiceImpl) DeleteCards(ctx context.Context, userID, input string, filters []domain.Predicate) (int, error) {
	if err := validatePredicates(filters); err != nil {
		return 0, err
	}

	var removed int
	err := s.withCardSet(ctx, "delete_cards", userID, func(set *domain.CardSet) (bool, error) {
		display := set.Filter(filters...)
		if len(display) == 0 {
			return false, ErrEmptySelection
		}
		positions, err := domain.ParsePositions(input, len(display))
		if err != nil {
			return false, err
		}
		removed, err = set.Delete(positions, display)
		return removed > 0, err
	})
	if err != nil {
		return 0, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("cards deleted",
		slog.String("user_id", userID),
		slog.Int("count", removed))
	return removed, nil
}

// withCardSet loads the user's set under the user's lock, applies fn and
// stores the set when fn reports a change.
func (s *cardServiceImpl) withCardSet(
	ctx context.Context,
	operation, userID string,
	fn func(set *domain.CardSet) (bool, error),
) error {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return NewCardServiceError(operation, "failed to acquire user lock", err)
	}
	defer unlock()

	set, err := s.userStore.GetCardSet(ctx, userID)
	if err != nil {
		return wrapStoreError(operation, "failed to load card set", err)
	}

	changed, err := fn(set)
	if err != nil || !changed {
		return err
	}

	if err := s.userStore.PutCardSet(ctx, userID, set); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to store card set",
			slog.String("operation", operation),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return wrapStoreError(operation, "failed to store card set", err)
	}
	return nil
}

func validatePredicates(preds []domain.Predicate) error {
	for _, p := range preds {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// wrapStoreError keeps not-found errors recognizable and wraps everything else.
func wrapStoreError(operation, message string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	return NewCardServiceError(operation, message, err)
}
