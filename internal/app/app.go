// Package app wires the display, classifier, tracker and their supporting
// services into one runnable unit shared by the CLI and the desktop panel.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jordanella.com/cursor-tracker/internal/api"
	"jordanella.com/cursor-tracker/internal/config"
	"jordanella.com/cursor-tracker/internal/cv"
	"jordanella.com/cursor-tracker/internal/cv/hsv"
	"jordanella.com/cursor-tracker/internal/cv/screen"
	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/events"
	"jordanella.com/cursor-tracker/internal/logging"
	"jordanella.com/cursor-tracker/internal/monitor"
	"jordanella.com/cursor-tracker/internal/tracker"
)

const eventBufferSize = 256

// App owns every long-lived component of a tracker process
type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	Bus      *events.DefaultEventBus
	Reporter *logging.ErrorReporter
	Journal  *database.DB
	Vision   *cv.Service
	Tracker  *tracker.Tracker
	Health   *monitor.HealthChecker

	eventLog *logging.EventLogger
	logFile  *os.File
}

// New opens the primary display and builds the app on top of it
func New(cfg *config.Config) (*App, error) {
	display, err := screen.New()
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}
	return NewWithDisplay(cfg, display)
}

// NewWithDisplay builds the app over an existing display backend
func NewWithDisplay(cfg *config.Config, display cv.Display) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.setupLogging(); err != nil {
		return nil, err
	}

	a.Reporter = logging.NewErrorReporter(0)
	a.Reporter.SetLogger(a.Logger.Named("Errors"))

	a.Bus = events.NewEventBus(eventBufferSize)
	a.eventLog, err = logging.NewEventLogger(a.Bus, a.Logger, cfg.LogDir)
	if err != nil {
		return nil, err
	}

	profile := hsv.DefaultProfile()
	if cfg.ProfilePath != "" {
		profile, err = hsv.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
	}
	classifier, err := hsv.NewClassifier(profile)
	if err != nil {
		return nil, err
	}
	a.Vision = cv.NewService(display, classifier, cv.WithLogger(a.Logger.Named("CV")))

	opts := []tracker.Option{
		tracker.WithSettings(cfg.Settings()),
		tracker.WithTiming(cfg.Timing()),
		tracker.WithLogger(a.Logger.Named("Tracker")),
		tracker.WithErrorReporter(a.Reporter),
		tracker.WithEventBus(a.Bus),
	}
	if cfg.JournalEnabled {
		a.Journal, err = database.OpenInMemory()
		if err != nil {
			return nil, err
		}
		a.Journal.SetMaxPasses(cfg.MaxPasses)
		opts = append(opts, tracker.WithJournal(a.Journal))
	}

	a.Tracker, err = tracker.New(a.Vision, display, opts...)
	if err != nil {
		return nil, err
	}

	a.Health = monitor.NewHealthChecker(a.Tracker, a.Vision).
		WithCheckInterval(10 * time.Second).
		WithStuckTimeout(30*time.Second + cfg.Timing().RetryDelay).
		WithUnhealthyCallback(func(reason string, err error) {
			a.Reporter.ReportErrorWithContext(logging.ErrorCategorySystem, logging.ErrorSeverityHigh,
				"Monitor", "tracker unhealthy", err, map[string]interface{}{"reason": reason})
		})
	a.Health.Start()

	a.Logger.InfoWithContext("profile loaded", map[string]interface{}{
		"profile": profile.Name,
		"bands":   len(profile.Bands),
	})
	return a, nil
}

func (a *App) setupLogging() error {
	level, err := logging.ParseLogLevel(a.Config.LogLevel)
	if err != nil {
		return err
	}
	a.Logger = logging.NewLogger("App").SetMinLevel(level)

	if a.Config.LogDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.Config.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	name := fmt.Sprintf("tracker_%s.log", time.Now().Format("2006-01-02_15-04-05"))
	a.logFile, err = os.OpenFile(filepath.Join(a.Config.LogDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	a.Logger.AddOutput(a.logFile)
	return nil
}

// Server builds the HTTP control surface over the app's tracker
func (a *App) Server() *api.Server {
	opts := []api.Option{
		api.WithLogger(a.Logger.Named("API")),
		api.WithErrorReporter(a.Reporter),
		api.WithHealth(a.Health),
	}
	if a.Journal != nil {
		opts = append(opts, api.WithHistory(a.Journal))
	}
	return api.NewServer(a.Tracker, opts...)
}

// Close stops the worker and releases every resource in reverse order
func (a *App) Close() {
	if a.Health != nil {
		a.Health.Stop()
	}
	if a.Tracker != nil {
		a.Tracker.Close()
	}
	if a.Journal != nil {
		if err := a.Journal.Close(); err != nil {
			a.Logger.Error("failed to close journal", err)
		}
	}
	if a.eventLog != nil {
		a.eventLog.Close()
	}
	if a.Bus != nil {
		a.Bus.Stop()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
