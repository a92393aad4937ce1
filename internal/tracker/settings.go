package tracker

import (
	"fmt"
	"math"
)

const (
	// MaxScanRange bounds scan_range and scan_step on any screen
	MaxScanRange = 10000

	// MaxScanCells bounds the number of cells one scan pass may sample
	MaxScanCells = 10000
)

// ScanCells returns how many cells a pass over rng with step samples
func ScanCells(rng, step int) int {
	if step < 1 {
		step = 1
	}
	if rng < 0 {
		rng = 0
	}
	return (2*rng/step + 1) * (2*(rng/2)/step + 1)
}

// Settings are the runtime-tunable scan parameters
type Settings struct {
	ScanStep       int     `json:"scan_step"`
	ScanRange      int     `json:"scan_range"`
	MatchThreshold float64 `json:"green_threshold"`
	SmoothMovement bool    `json:"smooth_movement"`
}

// DefaultSettings returns the settings every process starts with
func DefaultSettings() Settings {
	return Settings{
		ScanStep:       20,
		ScanRange:      200,
		MatchThreshold: 0.15,
		SmoothMovement: true,
	}
}

// SettingsUpdate is a partial settings change; nil fields are left unchanged
type SettingsUpdate struct {
	ScanStep       *int     `json:"scan_step,omitempty"`
	ScanRange      *int     `json:"scan_range,omitempty"`
	MatchThreshold *float64 `json:"green_threshold,omitempty"`
	SmoothMovement *bool    `json:"smooth_movement,omitempty"`
}

// Validate rejects values the scan loop cannot work with
func (u SettingsUpdate) Validate() error {
	if u.ScanStep != nil && (*u.ScanStep < 1 || *u.ScanStep > MaxScanRange) {
		return &ValidationError{Field: "scan_step", Reason: fmt.Sprintf("must be within [1,%d]", MaxScanRange)}
	}
	if u.ScanRange != nil && (*u.ScanRange < 0 || *u.ScanRange > MaxScanRange) {
		return &ValidationError{Field: "scan_range", Reason: fmt.Sprintf("must be within [0,%d]", MaxScanRange)}
	}
	if u.MatchThreshold != nil {
		v := *u.MatchThreshold
		if math.IsNaN(v) || v < 0 || v > 1 {
			return &ValidationError{Field: "green_threshold", Reason: "must be within [0,1]"}
		}
	}
	return nil
}

// Fields names the settings the update touches
func (u SettingsUpdate) Fields() []string {
	var fields []string
	if u.ScanStep != nil {
		fields = append(fields, "scan_step")
	}
	if u.ScanRange != nil {
		fields = append(fields, "scan_range")
	}
	if u.MatchThreshold != nil {
		fields = append(fields, "green_threshold")
	}
	if u.SmoothMovement != nil {
		fields = append(fields, "smooth_movement")
	}
	return fields
}

// Apply returns s with the update merged in
func (s Settings) Apply(u SettingsUpdate) Settings {
	if u.ScanStep != nil {
		s.ScanStep = *u.ScanStep
	}
	if u.ScanRange != nil {
		s.ScanRange = *u.ScanRange
	}
	if u.MatchThreshold != nil {
		s.MatchThreshold = *u.MatchThreshold
	}
	if u.SmoothMovement != nil {
		s.SmoothMovement = *u.SmoothMovement
	}
	return s
}

// Validate checks a full settings value
func (s Settings) Validate() error {
	return SettingsUpdate{
		ScanStep:       &s.ScanStep,
		ScanRange:      &s.ScanRange,
		MatchThreshold: &s.MatchThreshold,
	}.Validate()
}

// ValidateFor checks s as a whole for a width×height screen: the range may
// not exceed the longer screen side and one pass may not sample more than
// MaxScanCells cells.
func (s Settings) ValidateFor(width, height int) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if limit := max(width, height); s.ScanRange > limit {
		return &ValidationError{
			Field:  "scan_range",
			Reason: fmt.Sprintf("must be <= %d on a %dx%d screen", limit, width, height),
		}
	}
	if n := ScanCells(s.ScanRange, s.ScanStep); n > MaxScanCells {
		return &ValidationError{
			Field:  "scan_range",
			Reason: fmt.Sprintf("range %d with step %d samples %d cells, limit is %d", s.ScanRange, s.ScanStep, n, MaxScanCells),
		}
	}
	return nil
}
