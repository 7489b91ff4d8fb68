package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// UserStore is a testify mock of store.UserStore.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

// Create mocks store.UserStore.Create
func (m *UserStore) Create(ctx context.Context, user *domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

// Get mocks store.UserStore.Get
func (m *UserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListIDs mocks store.UserStore.ListIDs
func (m *UserStore) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetCardSet mocks store.UserStore.GetCardSet
func (m *UserStore) GetCardSet(ctx context.Context, userID string) (*domain.CardSet, error) {
	args := m.Called(ctx, userID)
	if set, ok := args.Get(0).(*domain.CardSet); ok {
		return set, args.Error(1)
	}
	return nil, args.Error(1)
}

// PutCardSet mocks store.UserStore.PutCardSet
func (m *UserStore) PutCardSet(ctx context.Context, userID string, set *domain.CardSet) error {
	return m.Called(ctx, userID, set).Error(0)
}

// IncrementCounter mocks store.UserStore.IncrementCounter
func (m *UserStore) IncrementCounter(ctx context.Context, userID string, counter domain.Counter, delta int) error {
	return m.Called(ctx, userID, counter, delta).Error(0)
}

// AddBadge mocks store.UserStore.AddBadge
func (m *UserStore) AddBadge(ctx context.Context, userID, badge string) (bool, error) {
	args := m.Called(ctx, userID, badge)
	return args.Bool(0), args.Error(1)
}

// SetNotifications mocks store.UserStore.SetNotifications
func (m *UserStore) SetNotifications(ctx context.Context, userID string, enabled bool) error {
	return m.Called(ctx, userID, enabled).Error(0)
}

// SaveReview mocks store.UserStore.SaveReview
func (m *UserStore) SaveReview(
	ctx context.Context,
	userID string,
	card domain.Card,
	increments map[domain.Counter]int,
) error {
	return m.Called(ctx, userID, card, increments).Error(0)
}

// RecordQuizCompletion mocks store.UserStore.RecordQuizCompletion
func (m *UserStore) RecordQuizCompletion(ctx context.Context, userID string, now time.Time) (*domain.Progress, error) {
	args := m.Called(ctx, userID, now)
	if p, ok := args.Get(0).(*domain.Progress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Close mocks store.UserStore.Close
func (m *UserStore) Close() error {
	return m.Called().Error(0)
}
