package tracker

import (
	"time"

	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/events"
	"jordanella.com/cursor-tracker/internal/logging"
)

// Timing holds the fixed delays of the worker loop and the smooth mover
type Timing struct {
	PollInterval time.Duration // sleep between successful passes
	RetryDelay   time.Duration // pause after a failed pass
	MoveSteps    int           // intermediate points per smooth move
	MovePace     time.Duration // delay between move commands
}

// DefaultTiming returns the stock loop and mover timing
func DefaultTiming() Timing {
	return Timing{
		PollInterval: 100 * time.Millisecond,
		RetryDelay:   time.Second,
		MoveSteps:    5,
		MovePace:     20 * time.Millisecond,
	}
}

// Journal receives a record of every applied pass and every move
type Journal interface {
	RecordPass(p database.ScanPass) error
	RecordMove(m database.CursorMove, moveErr error) error
}

type options struct {
	settings Settings
	timing   Timing
	logger   *logging.Logger
	reporter *logging.ErrorReporter
	bus      events.EventBus
	journal  Journal
}

// Option configures a Tracker
type Option func(*options)

// WithSettings replaces the default settings
func WithSettings(s Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithTiming replaces the default timing
func WithTiming(t Timing) Option {
	return func(o *options) { o.timing = t }
}

// WithLogger sets the tracker logger
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithErrorReporter sets where worker and move failures are reported
func WithErrorReporter(r *logging.ErrorReporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithEventBus publishes tracker events on bus
func WithEventBus(bus events.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithJournal records passes and moves into j
func WithJournal(j Journal) Option {
	return func(o *options) { o.journal = j }
}
