package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes reminders to the application log. It is the default
// when no outbound channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

// SendReminder implements Notifier.
func (n *LogNotifier) SendReminder(ctx context.Context, userID string, batch []Pair) error {
	n.logger.InfoContext(ctx, "reminder",
		slog.String("user_id", userID),
		slog.Int("cards", len(batch)),
		slog.String("text", FormatReminder(batch)))
	return nil
}
