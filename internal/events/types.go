package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	// Worker lifecycle events
	EventTypeScanStarted EventType = "scan.started"
	EventTypeScanStopped EventType = "scan.stopped"
	EventTypeScanFailed  EventType = "scan.failed"

	// Tracking events
	EventTypeTargetFound EventType = "target.found"
	EventTypeTargetLost  EventType = "target.lost"
	EventTypeCursorMoved EventType = "cursor.moved"

	// Control events
	EventTypeSettingsUpdated EventType = "settings.updated"
)

// Event represents a system event with metadata
type Event struct {
	Type      EventType              // Type of event
	Source    string                 // Component that emitted event (e.g., "worker", "control")
	Timestamp time.Time              // When the event occurred
	Data      map[string]interface{} // Event-specific data
}

// EventHandler is a function that processes an event
type EventHandler func(Event)

// SubscriptionID uniquely identifies a subscription
type SubscriptionID int64

// EventBus defines the interface for event pub/sub
type EventBus interface {
	// Subscribe registers a handler for a specific event type
	Subscribe(eventType EventType, handler EventHandler) SubscriptionID

	// SubscribeAll registers a handler for every event type
	SubscribeAll(handler EventHandler) SubscriptionID

	// Unsubscribe removes a subscription by ID
	Unsubscribe(id SubscriptionID)

	// Publish sends an event to all subscribers (blocking until queued)
	Publish(event Event)

	// Stop stops the event bus and drains remaining events
	Stop()
}

// Helper functions to create common events

// NewScanStartedEvent creates a scan started event
func NewScanStartedEvent(runID string) Event {
	return Event{
		Type:      EventTypeScanStarted,
		Source:    "control",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"run_id": runID},
	}
}

// NewScanStoppedEvent creates a scan stopped event
func NewScanStoppedEvent(runID string, passes int) Event {
	return Event{
		Type:      EventTypeScanStopped,
		Source:    "worker",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"run_id": runID, "passes": passes},
	}
}

// NewScanFailedEvent creates an event for a failed (retried) scan iteration
func NewScanFailedEvent(runID string, err error) Event {
	return Event{
		Type:      EventTypeScanFailed,
		Source:    "worker",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"run_id": runID, "error": err.Error()},
	}
}

// NewTargetFoundEvent creates a target found event
func NewTargetFoundEvent(runID string, x, y int, ratio float64) Event {
	return Event{
		Type:      EventTypeTargetFound,
		Source:    "worker",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"run_id": runID, "x": x, "y": y, "ratio": ratio},
	}
}

// NewTargetLostEvent creates a target lost event
func NewTargetLostEvent(runID string, bestRatio float64) Event {
	return Event{
		Type:      EventTypeTargetLost,
		Source:    "worker",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"run_id": runID, "best_ratio": bestRatio},
	}
}

// NewCursorMovedEvent creates a cursor moved event
func NewCursorMovedEvent(source string, fromX, fromY, toX, toY int) Event {
	return Event{
		Type:      EventTypeCursorMoved,
		Source:    source,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"from_x": fromX,
			"from_y": fromY,
			"to_x":   toX,
			"to_y":   toY,
		},
	}
}

// NewSettingsUpdatedEvent creates a settings updated event
func NewSettingsUpdatedEvent(fields []string) Event {
	return Event{
		Type:      EventTypeSettingsUpdated,
		Source:    "control",
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"fields": fields},
	}
}
