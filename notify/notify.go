package notify

import (
	"context"
	"time"
)

// =============================================================================
// Notification Types
// =============================================================================

// EventType represents the type of release event.
type EventType string

// Event type constants.
const (
	EventRunStarted    EventType = "run_started"
	EventReleased      EventType = "released"
	EventNoRelease     EventType = "no_release"
	EventRunFailed     EventType = "run_failed"
	EventPublishFailed EventType = "publish_failed"
)

// Severity constants for notification events.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes a release run event for notification.
type Event struct {
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id"`
	Branch    string         `json:"branch,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"` // SeverityInfo, SeverityWarning, SeverityError
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// =============================================================================
// Notifier Interface
// =============================================================================

// Notifier sends notifications about release run events.
type Notifier interface {
	// Notify sends a notification. Implementations should handle errors
	// gracefully (log, don't crash) — a failed notification never fails
	// a release.
	Notify(ctx context.Context, event Event) error
}
