package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/scry-vocab/internal/notify"
)

// Notifier is a testify mock of notify.Notifier.
type Notifier struct {
	mock.Mock
}

var _ notify.Notifier = (*Notifier)(nil)

// SendReminder mocks notify.Notifier.SendReminder
func (m *Notifier) SendReminder(ctx context.Context, userID string, batch []notify.Pair) error {
	return m.Called(ctx, userID, batch).Error(0)
}
