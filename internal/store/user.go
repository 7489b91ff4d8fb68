package store

import (
	"context"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// UserStore persists users, their progress and their card sets.
// Every method is strongly consistent for a single user. Callers that need
// read-modify-write of a card set hold the user's lock (see lock.Keyed).
type UserStore interface {
	// Create stores a new user. It reports false without error if a user with
	// the same id already exists, leaving that user untouched.
	Create(ctx context.Context, user *domain.User) (bool, error)

	// Get returns the user with progress and preferences.
	// Returns ErrUserNotFound if the user does not exist.
	Get(ctx context.Context, userID string) (*domain.User, error)

	// ListIDs returns the ids of all users, in a stable order.
	ListIDs(ctx context.Context) ([]string, error)

	// GetCardSet returns the user's card set.
	// Returns ErrUserNotFound if the user does not exist.
	GetCardSet(ctx context.Context, userID string) (*domain.CardSet, error)

	// PutCardSet replaces the user's card set.
	// Returns ErrUserNotFound if the user does not exist.
	PutCardSet(ctx context.Context, userID string, set *domain.CardSet) error

	// IncrementCounter atomically adds delta to a progress counter.
	// A negative delta is rejected with an error wrapping domain.ErrValidation.
	IncrementCounter(ctx context.Context, userID string, counter domain.Counter, delta int) error

	// AddBadge records an earned badge and reports whether it was newly added.
	AddBadge(ctx context.Context, userID, badge string) (bool, error)

	// SetNotifications updates the user's reminder preference.
	SetNotifications(ctx context.Context, userID string, enabled bool) error

	// SaveReview replaces one card in the user's set and applies the counter
	// increments in the same atomic step: either both are stored or neither.
	// Returns ErrCardNotFound if the card is no longer in the set.
	SaveReview(ctx context.Context, userID string, card domain.Card, increments map[domain.Counter]int) error

	// RecordQuizCompletion counts a finished quiz at now, updates the streak
	// counters and returns the resulting progress.
	RecordQuizCompletion(ctx context.Context, userID string, now time.Time) (*domain.Progress, error)

	// Close releases resources held by the store.
	Close() error
}
