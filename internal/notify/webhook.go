package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WebhookNotifier posts each reminder as JSON to a fixed URL, for example a
// chat bot relay. Outbound requests are rate limited.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// WebhookPayload is the request body sent to the webhook.
type WebhookPayload struct {
	UserID string `json:"user_id"`
	Cards  []Pair `json:"cards"`
	Text   string `json:"text"`
}

// NewWebhookNotifier creates a notifier posting to url. perSecond limits the
// request rate; zero or less disables limiting. A nil client uses one with a
// ten second timeout.
func NewWebhookNotifier(url string, perSecond float64, client *http.Client, logger *slog.Logger) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}

	return &WebhookNotifier{
		url:     url,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With(slog.String("component", "webhook_notifier")),
	}
}

// SendReminder implements Notifier.
func (n *WebhookNotifier) SendReminder(ctx context.Context, userID string, batch []Pair) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(WebhookPayload{UserID: userID, Cards: batch, Text: FormatReminder(batch)})
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.DebugContext(ctx, "reminder delivered",
		slog.String("user_id", userID),
		slog.Int("cards", len(batch)))
	return nil
}
