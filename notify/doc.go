// Package notify delivers notifications about release runs.
//
// Core types:
//   - Notifier: Interface for sending notifications
//   - Event: Notification event with type, message, and metadata
//   - EventType: Type of event (run started, released, publish failed, etc.)
//
// Implementations:
//   - SlackNotifier: Sends notifications to Slack webhooks
//   - WebhookNotifier: Sends notifications to generic webhooks
//   - LogNotifier: Logs notifications (for testing/debugging)
//   - MultiNotifier: Combines multiple notifiers
//   - NopNotifier: No-op notifier (for testing)
//
// Example usage:
//
//	notifier := notify.NewSlackNotifier(webhookURL,
//	    notify.WithSlackChannel("#releases"),
//	)
//	err := notifier.Notify(ctx, notify.Event{
//	    Type:    notify.EventReleased,
//	    Message: "released v1.3.0",
//	})
package notify
