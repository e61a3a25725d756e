package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// =============================================================================
// WebhookNotifier
// =============================================================================

// webhookTimeout bounds a single delivery. Release runs must not hang on an
// unresponsive endpoint.
const webhookTimeout = 10 * time.Second

// WebhookNotifier posts release run events as JSON to an HTTP endpoint. The
// body is the Event itself, so receivers see run_id, branch, tags, and
// severity without any translation layer.
type WebhookNotifier struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

// NewWebhookNotifier creates a webhook notifier for the endpoint. Extra
// headers (authorization tokens, routing hints) are sent with every event.
func NewWebhookNotifier(url string, headers map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:     url,
		Headers: headers,
		Client:  &http.Client{Timeout: webhookTimeout},
	}
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode release event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver release event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook rejected %s event: status %d", event.Type, resp.StatusCode)
	}
	return nil
}
