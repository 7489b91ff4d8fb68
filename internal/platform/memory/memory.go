// Package memory provides an in-process store.UserStore. It backs the
// "memory" database driver and service-level tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

type entry struct {
	user  domain.User
	cards *domain.CardSet
}

// UserStore keeps users in a map guarded by a mutex. Values are copied on the
// way in and out so callers never share state with the store.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*entry
	now   func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*entry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (bool, error) {
	if err := user.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return false, nil
	}
	s.users[user.ID] = &entry{user: cloneUser(*user), cards: domain.NewCardSet()}
	return true, nil
}

// Get implements store.UserStore.
func (s *UserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := cloneUser(e.user)
	return &u, nil
}

// ListIDs implements store.UserStore.
func (s *UserStore) ListIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// GetCardSet implements store.UserStore.
func (s *UserStore) GetCardSet(ctx context.Context, userID string) (*domain.CardSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return domain.NewCardSet(e.cards.Cards()...), nil
}

// PutCardSet implements store.UserStore.
func (s *UserStore) PutCardSet(ctx context.Context, userID string, set *domain.CardSet) error {
	return s.mutate(userID, func(e *entry) error {
		e.cards = domain.NewCardSet(set.Cards()...)
		return nil
	})
}

// SetNotifications implements store.UserStore.
func (s *UserStore) SetNotifications(ctx context.Context, userID string, enabled bool) error {
	return s.mutate(userID, func(e *entry) error {
		e.user.Preferences.Notifications = enabled
		return nil
	})
}

// IncrementCounter implements store.UserStore.
func (s *UserStore) IncrementCounter(ctx context.Context, userID string, counter domain.Counter, delta int) error {
	return s.mutate(userID, func(e *entry) error {
		return e.user.Progress.Increment(counter, delta)
	})
}

// AddBadge implements store.UserStore.
func (s *UserStore) AddBadge(ctx context.Context, userID, badge string) (bool, error) {
	var added bool
	err := s.mutate(userID, func(e *entry) error {
		added = e.user.Progress.AddBadge(badge)
		return nil
	})
	return added, err
}

// SaveReview implements store.UserStore.
func (s *UserStore) SaveReview(
	ctx context.Context,
	userID string,
	card domain.Card,
	increments map[domain.Counter]int,
) error {
	return s.mutate(userID, func(e *entry) error {
		if !e.cards.Contains(card.ID) {
			return store.ErrCardNotFound
		}
		for counter, delta := range increments {
			if err := e.user.Progress.Increment(counter, delta); err != nil {
				return err
			}
		}
		return e.cards.Update(card)
	})
}

// RecordQuizCompletion implements store.UserStore.
func (s *UserStore) RecordQuizCompletion(ctx context.Context, userID string, now time.Time) (*domain.Progress, error) {
	var out domain.Progress
	err := s.mutate(userID, func(e *entry) error {
		e.user.Progress.RecordQuizCompletion(now)
		out = cloneUser(e.user).Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Close implements store.UserStore.
func (s *UserStore) Close() error {
	return nil
}

// mutate applies fn to a working copy of the user and commits the copy only
// when fn succeeds.
func (s *UserStore) mutate(userID string, fn func(*entry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}

	work := &entry{user: cloneUser(e.user), cards: domain.NewCardSet(e.cards.Cards()...)}
	if err := fn(work); err != nil {
		return err
	}
	work.user.UpdatedAt = s.now()
	s.users[userID] = work
	return nil
}

func cloneUser(u domain.User) domain.User {
	out := u
	out.Progress.Badges = slices.Clone(u.Progress.Badges)
	if out.Progress.Badges == nil {
		out.Progress.Badges = []string{}
	}
	if u.Progress.LastQuizCompletion != nil {
		t := *u.Progress.LastQuizCompletion
		out.Progress.LastQuizCompletion = &t
	}
	return out
}
