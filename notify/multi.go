package notify

import (
	"context"
	"log/slog"
)

// =============================================================================
// MultiNotifier
// =============================================================================

// MultiNotifier fans each release event out to every configured notifier.
// A failing sink never blocks the others: a Slack outage must not keep the
// release webhook from firing.
type MultiNotifier struct {
	Notifiers []Notifier
	Logger    *slog.Logger
}

// NewMultiNotifier creates a notifier that delivers to every argument in
// order. Individual failures are logged; the last one is returned so callers
// can tell delivery was incomplete.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		Notifiers: notifiers,
		Logger:    slog.Default(),
	}
}

// Notify implements Notifier.
func (n *MultiNotifier) Notify(ctx context.Context, event Event) error {
	var lastErr error
	for _, sink := range n.Notifiers {
		err := sink.Notify(ctx, event)
		if err == nil {
			continue
		}
		lastErr = err
		if n.Logger != nil {
			n.Logger.Warn("release event delivery failed",
				"error", err,
				"event_type", event.Type,
				"run_id", event.RunID,
			)
		}
	}
	return lastErr
}

// =============================================================================
// NopNotifier
// =============================================================================

// NopNotifier discards every event. Used when notifications are disabled and
// throughout the test suite.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(ctx context.Context, event Event) error {
	return nil
}
