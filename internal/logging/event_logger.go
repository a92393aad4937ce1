package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jordanella.com/cursor-tracker/internal/events"
)

// EventLogger subscribes to the event bus and logs every tracker event
type EventLogger struct {
	logger        *Logger
	eventBus      events.EventBus
	subscriptions []events.SubscriptionID
	logFile       *os.File
}

// NewEventLogger logs events through logger. When logDir is not empty the
// events are also appended to a timestamped file in that directory.
func NewEventLogger(eventBus events.EventBus, logger *Logger, logDir string) (*EventLogger, error) {
	el := &EventLogger{
		logger:   logger.Fork("Events"),
		eventBus: eventBus,
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		logPath := filepath.Join(logDir, fmt.Sprintf("events_%s.log", timestamp))
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		el.logFile = logFile
		el.logger.AddOutput(logFile)
	}

	el.subscriptions = append(el.subscriptions, eventBus.SubscribeAll(el.handleEvent))

	return el, nil
}

// handleEvent logs one event with its data as context
func (el *EventLogger) handleEvent(event events.Event) {
	context := map[string]interface{}{
		"source": event.Source,
	}
	for k, v := range event.Data {
		context[k] = v
	}

	switch event.Type {
	case events.EventTypeScanFailed:
		el.logger.WarnWithContext(fmt.Sprintf("Event: %s", event.Type), context)
	case events.EventTypeCursorMoved:
		el.logger.DebugWithContext(fmt.Sprintf("Event: %s", event.Type), context)
	default:
		el.logger.InfoWithContext(fmt.Sprintf("Event: %s", event.Type), context)
	}
}

// Close unsubscribes from the bus and closes the log file
func (el *EventLogger) Close() error {
	for _, id := range el.subscriptions {
		el.eventBus.Unsubscribe(id)
	}
	el.subscriptions = nil

	if el.logFile != nil {
		return el.logFile.Close()
	}
	return nil
}
