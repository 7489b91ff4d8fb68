package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/mocks"
	"github.com/phrazzld/scry-vocab/internal/notify"
)

func TestDispatcherForwardsBatchUnchanged(t *testing.T) {
	t.Parallel()

	batch := []notify.Pair{{Front: "사과", Back: "apple"}, {Front: "물", Back: "water"}}
	next := &mocks.Notifier{}
	next.On("SendReminder", mock.Anything, "u1", batch).Return(nil).Once()

	d := notify.NewDispatcher(next, notify.DispatcherConfig{QueueSize: 1, Workers: 1}, nil)
	d.Start()
	require.NoError(t, d.SendReminder(context.Background(), "u1", batch))
	d.Stop()

	next.AssertExpectations(t)
}
