package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"jordanella.com/cursor-tracker/internal/cv"
	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/events"
	"jordanella.com/cursor-tracker/internal/logging"
)

const (
	quickScanRange   = 100
	quickScanStep    = 20
	quickScanResults = 5
)

// Move sources recorded in events and the journal
const (
	SourceWorker  = "worker"
	SourceControl = "control"
)

// Sampler is the CV backend the tracker scans with
type Sampler interface {
	CellSampler
	GetDimensions() (width, height int)
	CellSize() int
}

// Tracker is the control surface over the shared tracker state and the
// background scan worker.
type Tracker struct {
	state   *State
	scanner *Scanner
	mover   *Mover
	pointer cv.Pointer
	timing  Timing

	logger   *logging.Logger
	reporter *logging.ErrorReporter
	bus      events.EventBus
	journal  Journal

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a tracker over a sampler and a pointer. The tracked
// position starts at the pointer's reported location.
func New(sampler Sampler, pointer cv.Pointer, opts ...Option) (*Tracker, error) {
	o := options{
		settings: DefaultSettings(),
		timing:   DefaultTiming(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger("Tracker")
	}
	if o.reporter == nil {
		o.reporter = logging.NewErrorReporter(0)
		o.reporter.SetLogger(o.logger)
	}

	width, height := sampler.GetDimensions()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", width, height)
	}
	if err := o.settings.ValidateFor(width, height); err != nil {
		return nil, fmt.Errorf("initial settings: %w", err)
	}

	x, y := pointer.Location()
	t := &Tracker{
		state:    NewState(width, height, cv.Point{X: x, Y: y}, o.settings),
		scanner:  NewScanner(sampler, width, height, sampler.CellSize()),
		mover:    NewMover(pointer, o.timing.MoveSteps, o.timing.MovePace),
		pointer:  pointer,
		timing:   o.timing,
		logger:   o.logger,
		reporter: o.reporter,
		bus:      o.bus,
		journal:  o.journal,
	}

	t.logger.InfoWithContext("tracker ready", map[string]interface{}{
		"width":  width,
		"height": height,
		"x":      t.state.Position().X,
		"y":      t.state.Position().Y,
	})
	return t, nil
}

// Status returns a snapshot of the tracker state
func (t *Tracker) Status() Status {
	return t.state.Snapshot()
}

// StartScanning launches the background worker.
// It returns false when a worker is already scanning.
func (t *Tracker) StartScanning() bool {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	runID := uuid.NewString()
	if !t.state.beginScanning(runID) {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.wg.Add(1)
	go t.runWorker(ctx, runID)

	t.logger.InfoWithContext("scanning started", map[string]interface{}{"run_id": runID})
	t.publish(events.NewScanStartedEvent(runID))
	return true
}

// StopScanning asks the worker to stop and returns without waiting for it.
// It returns false when no worker was scanning.
func (t *Tracker) StopScanning() bool {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	status := t.state.Snapshot()
	if !t.state.endScanning() {
		return false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	t.logger.InfoWithContext("scanning stopped", map[string]interface{}{
		"run_id": status.RunID,
		"passes": status.Passes,
	})
	t.publish(events.NewScanStoppedEvent(status.RunID, status.Passes))
	return true
}

// Wait blocks until every worker started so far has exited
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close stops scanning and waits for the worker to exit
func (t *Tracker) Close() {
	t.StopScanning()
	t.Wait()
}

// QuickScan runs one scan of ±100 by ±50 around the current position and
// returns the five best candidates. It does not touch the tracker state.
func (t *Tracker) QuickScan(ctx context.Context) ([]Candidate, error) {
	candidates, err := t.scanner.Scan(ctx, t.state.Position(), quickScanRange, quickScanStep)
	if err != nil {
		return nil, err
	}
	if failed := countFailed(candidates); failed > 0 {
		t.logger.WarnWithContext("quick scan had failed cells", map[string]interface{}{
			"failed": failed,
			"cells":  len(candidates),
		})
	}
	return TopCandidates(candidates, quickScanResults), nil
}

// MoveTo moves the cursor to (x, y) clamped to the screen and records the
// new position. When the move primitive fails the position is the last
// step that succeeded, or unchanged if none did.
func (t *Tracker) MoveTo(x, y int) (cv.Point, error) {
	width, height := t.state.ScreenSize()
	target := cv.Point{X: x, Y: y}.Clamp(cv.Point{}, cv.Point{X: width, Y: height})
	from := t.state.Position()
	smooth := t.state.Settings().SmoothMovement

	reached, moved, err := t.mover.MoveTo(target, smooth)
	t.recordMove(SourceControl, from, target, smooth, err)
	if moved {
		t.state.SetPosition(reached)
		t.publish(events.NewCursorMovedEvent(SourceControl, from.X, from.Y, reached.X, reached.Y))
	}
	if err != nil {
		t.reporter.ReportErrorWithContext(logging.ErrorCategoryMove, logging.ErrorSeverityMedium,
			"Tracker", "move request failed", err, map[string]interface{}{"x": target.X, "y": target.Y})
		return t.state.Position(), err
	}
	return target, nil
}

// CenterCursor moves the cursor to the middle of the screen
func (t *Tracker) CenterCursor() (cv.Point, error) {
	width, height := t.state.ScreenSize()
	return t.MoveTo(width/2, height/2)
}

// Settings returns the current settings
func (t *Tracker) Settings() Settings {
	return t.state.Settings()
}

// UpdateSettings validates u and merges it into the current settings.
// Fields absent from u keep their values.
func (t *Tracker) UpdateSettings(u SettingsUpdate) (Settings, error) {
	if err := u.Validate(); err != nil {
		t.reporter.ReportError(logging.ErrorCategorySettings, logging.ErrorSeverityLow,
			"Tracker", "settings update rejected", err)
		return t.state.Settings(), err
	}

	width, height := t.state.ScreenSize()
	settings, err := t.state.UpdateSettings(u, func(next Settings) error {
		return next.ValidateFor(width, height)
	})
	if err != nil {
		t.reporter.ReportError(logging.ErrorCategorySettings, logging.ErrorSeverityLow,
			"Tracker", "settings update rejected", err)
		return settings, err
	}

	fields := u.Fields()
	if len(fields) > 0 {
		t.logger.InfoWithContext("settings updated", map[string]interface{}{
			"scan_step":       settings.ScanStep,
			"scan_range":      settings.ScanRange,
			"green_threshold": settings.MatchThreshold,
			"smooth_movement": settings.SmoothMovement,
		})
		t.publish(events.NewSettingsUpdatedEvent(fields))
	}
	return settings, nil
}

// LastResults returns the top candidates of the last applied worker pass
func (t *Tracker) LastResults() []Candidate {
	return t.state.LastResults()
}

// Reporter returns the error reporter the tracker reports into
func (t *Tracker) Reporter() *logging.ErrorReporter {
	return t.reporter
}

func (t *Tracker) publish(e events.Event) {
	if t.bus != nil {
		t.bus.Publish(e)
	}
}

func (t *Tracker) recordMove(source string, from, to cv.Point, smooth bool, moveErr error) {
	if t.journal == nil {
		return
	}
	err := t.journal.RecordMove(database.CursorMove{
		Source:     source,
		FromX:      from.X,
		FromY:      from.Y,
		ToX:        to.X,
		ToY:        to.Y,
		Smooth:     smooth,
		RecordedAt: time.Now(),
	}, moveErr)
	if err != nil {
		t.logger.Warn(fmt.Sprintf("failed to journal move: %v", err))
	}
}
