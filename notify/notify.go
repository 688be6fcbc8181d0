package notify

import (
	"context"
	"time"
)

// =============================================================================
// Event Types
// =============================================================================

// EventType represents the type of pipeline event.
type EventType string

// Event type constants.
const (
	EventSessionStarted      EventType = "session_started"
	EventStageCompleted      EventType = "stage_completed"
	EventStageFailed         EventType = "stage_failed"
	EventEstimateReady       EventType = "estimate_ready"
	EventTaskCommitted       EventType = "task_committed"
	EventSessionAbandoned    EventType = "session_abandoned"
	EventObservationRecorded EventType = "observation_recorded"
)

// Severity constants for events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Event describes one pipeline event for notification.
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id"`
	Stage     string         `json:"stage,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// =============================================================================
// Notifier Interface
// =============================================================================

// Notifier sends notifications about pipeline events.
type Notifier interface {
	// Notify sends a notification. Implementations should be non-blocking
	// and handle errors gracefully (log, don't crash).
	Notify(ctx context.Context, event Event) error
}

// =============================================================================
// Context Injection
// =============================================================================

type serviceContextKey string

const notifierServiceKey serviceContextKey = "focusflow.notifier"

// WithNotifier adds a Notifier to the context.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierServiceKey, n)
}

// NotifierFromContext extracts the Notifier from context.
// Returns nil if no notifier is configured.
func NotifierFromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(notifierServiceKey).(Notifier); ok {
		return n
	}
	return nil
}
