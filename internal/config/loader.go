package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"

	"jordanella.com/cursor-tracker/internal/logging"
	"jordanella.com/cursor-tracker/internal/tracker"
)

// DefaultPath is where the CLI looks for its configuration
const DefaultPath = "tracker.ini"

// Config is the process configuration read at startup
type Config struct {
	// Server
	Host string
	Port int

	// Logging
	LogLevel string
	LogDir   string

	// Scan defaults; runtime changes go through the settings endpoint
	ScanStep       int
	ScanRange      int
	MatchThreshold float64
	SmoothMovement bool
	ProfilePath    string

	// Timing
	PollMS     int
	RetryMS    int
	MoveSteps  int
	MovePaceMS int

	// Journal
	JournalEnabled bool
	MaxPasses      int
}

// NewDefaultConfig creates a config with default values
func NewDefaultConfig() *Config {
	defaults := tracker.DefaultSettings()
	timing := tracker.DefaultTiming()

	return &Config{
		Host:           "0.0.0.0",
		Port:           8080,
		LogLevel:       "INFO",
		ScanStep:       defaults.ScanStep,
		ScanRange:      defaults.ScanRange,
		MatchThreshold: defaults.MatchThreshold,
		SmoothMovement: defaults.SmoothMovement,
		PollMS:         int(timing.PollInterval / time.Millisecond),
		RetryMS:        int(timing.RetryDelay / time.Millisecond),
		MoveSteps:      timing.MoveSteps,
		MovePaceMS:     int(timing.MovePace / time.Millisecond),
		JournalEnabled: true,
		MaxPasses:      500,
	}
}

// LoadFromINI loads configuration from an INI file. A missing file yields
// the defaults. The PORT environment variable overrides [server] port.
func LoadFromINI(path string) (*Config, error) {
	config := NewDefaultConfig()

	cfg, err := ini.Load(path)
	switch {
	case err == nil:
		readSections(cfg, config)
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		config.Port = p
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func readSections(cfg *ini.File, config *Config) {
	server := cfg.Section("server")
	config.Host = server.Key("host").MustString(config.Host)
	config.Port = server.Key("port").MustInt(config.Port)

	logs := cfg.Section("logging")
	config.LogLevel = logs.Key("level").MustString(config.LogLevel)
	config.LogDir = logs.Key("dir").MustString(config.LogDir)

	scan := cfg.Section("scan")
	config.ScanStep = scan.Key("step").MustInt(config.ScanStep)
	config.ScanRange = scan.Key("range").MustInt(config.ScanRange)
	config.MatchThreshold = scan.Key("threshold").MustFloat64(config.MatchThreshold)
	config.SmoothMovement = scan.Key("smooth").MustBool(config.SmoothMovement)
	config.ProfilePath = scan.Key("profile").MustString(config.ProfilePath)

	timing := cfg.Section("timing")
	config.PollMS = timing.Key("poll_ms").MustInt(config.PollMS)
	config.RetryMS = timing.Key("retry_ms").MustInt(config.RetryMS)
	config.MoveSteps = timing.Key("move_steps").MustInt(config.MoveSteps)
	config.MovePaceMS = timing.Key("move_pace_ms").MustInt(config.MovePaceMS)

	journal := cfg.Section("journal")
	config.JournalEnabled = journal.Key("enabled").MustBool(config.JournalEnabled)
	config.MaxPasses = journal.Key("max_passes").MustInt(config.MaxPasses)
}

// Validate checks the values the tracker cannot start with
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := logging.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("[scan]: %w", err)
	}
	if c.PollMS < 0 || c.RetryMS < 0 || c.MovePaceMS < 0 {
		return errors.New("[timing]: delays must not be negative")
	}
	if c.MoveSteps < 1 {
		return errors.New("[timing]: move_steps must be >= 1")
	}
	if c.MaxPasses < 1 {
		return errors.New("[journal]: max_passes must be >= 1")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Settings returns the initial tracker settings
func (c *Config) Settings() tracker.Settings {
	return tracker.Settings{
		ScanStep:       c.ScanStep,
		ScanRange:      c.ScanRange,
		MatchThreshold: c.MatchThreshold,
		SmoothMovement: c.SmoothMovement,
	}
}

// Timing returns the worker and mover timing
func (c *Config) Timing() tracker.Timing {
	return tracker.Timing{
		PollInterval: time.Duration(c.PollMS) * time.Millisecond,
		RetryDelay:   time.Duration(c.RetryMS) * time.Millisecond,
		MoveSteps:    c.MoveSteps,
		MovePace:     time.Duration(c.MovePaceMS) * time.Millisecond,
	}
}

// SaveToINI saves configuration to an INI file
func SaveToINI(config *Config, path string) error {
	cfg := ini.Empty()

	server := cfg.Section("server")
	server.Key("host").SetValue(config.Host)
	server.Key("port").SetValue(strconv.Itoa(config.Port))

	logs := cfg.Section("logging")
	logs.Key("level").SetValue(config.LogLevel)
	logs.Key("dir").SetValue(config.LogDir)

	scan := cfg.Section("scan")
	scan.Key("step").SetValue(strconv.Itoa(config.ScanStep))
	scan.Key("range").SetValue(strconv.Itoa(config.ScanRange))
	scan.Key("threshold").SetValue(strconv.FormatFloat(config.MatchThreshold, 'f', -1, 64))
	scan.Key("smooth").SetValue(fmt.Sprintf("%t", config.SmoothMovement))
	scan.Key("profile").SetValue(config.ProfilePath)

	timing := cfg.Section("timing")
	timing.Key("poll_ms").SetValue(strconv.Itoa(config.PollMS))
	timing.Key("retry_ms").SetValue(strconv.Itoa(config.RetryMS))
	timing.Key("move_steps").SetValue(strconv.Itoa(config.MoveSteps))
	timing.Key("move_pace_ms").SetValue(strconv.Itoa(config.MovePaceMS))

	journal := cfg.Section("journal")
	journal.Key("enabled").SetValue(fmt.Sprintf("%t", config.JournalEnabled))
	journal.Key("max_passes").SetValue(strconv.Itoa(config.MaxPasses))

	return cfg.SaveTo(path)
}
