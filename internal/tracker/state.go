package tracker

import (
	"sync"

	"jordanella.com/cursor-tracker/internal/cv"
)

// maxStoredResults bounds the candidates kept from the last scan pass
const maxStoredResults = 10

// Status is a consistent snapshot of the tracker state
type Status struct {
	Position     cv.Point
	IsScanning   bool
	TargetFound  bool
	ScreenWidth  int
	ScreenHeight int
	RunID        string
	Passes       int
}

// State is the shared tracker record. The worker owns position, flags and
// results while scanning; control calls update settings and position.
// Every accessor takes the lock, so readers never see a torn position.
type State struct {
	mu sync.RWMutex

	position     cv.Point
	screenWidth  int
	screenHeight int

	scanning    bool
	targetFound bool
	runID       string
	passes      int

	settings    Settings
	lastResults []Candidate
}

// NewState creates the tracker record for a screen of the given size
func NewState(width, height int, start cv.Point, settings Settings) *State {
	s := &State{
		screenWidth:  width,
		screenHeight: height,
		settings:     settings,
	}
	s.position = s.clamp(start)
	return s
}

func (s *State) clamp(p cv.Point) cv.Point {
	return p.Clamp(cv.Point{}, cv.Point{X: s.screenWidth, Y: s.screenHeight})
}

// Snapshot returns the current status
func (s *State) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Position:     s.position,
		IsScanning:   s.scanning,
		TargetFound:  s.targetFound,
		ScreenWidth:  s.screenWidth,
		ScreenHeight: s.screenHeight,
		RunID:        s.runID,
		Passes:       s.passes,
	}
}

// Position returns the tracked cursor position
func (s *State) Position() cv.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// SetPosition stores p clamped to the screen
func (s *State) SetPosition(p cv.Point) cv.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = s.clamp(p)
	return s.position
}

// ScreenSize returns the screen dimensions fixed at startup
func (s *State) ScreenSize() (width, height int) {
	return s.screenWidth, s.screenHeight
}

// Settings returns the current settings
func (s *State) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges u into the settings when check accepts the merged
// value. It returns the settings in effect afterwards.
func (s *State) UpdateSettings(u SettingsUpdate, check func(Settings) error) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Apply(u)
	if check != nil {
		if err := check(next); err != nil {
			return s.settings, err
		}
	}
	s.settings = next
	return s.settings, nil
}

// LastResults returns a copy of the candidates stored by the last pass
func (s *State) LastResults() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Candidate, len(s.lastResults))
	copy(out, s.lastResults)
	return out
}

// beginScanning flips the scanning flag on for runID.
// It returns false when a worker is already scanning.
func (s *State) beginScanning(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanning {
		return false
	}
	s.scanning = true
	s.runID = runID
	s.passes = 0
	return true
}

// endScanning clears the scanning flag and reports whether it was set
func (s *State) endScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.scanning {
		return false
	}
	s.scanning = false
	return true
}

// isCurrentRun reports whether runID is the active scanning run
func (s *State) isCurrentRun(runID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanning && s.runID == runID
}

// passOutcome is what one worker iteration commits to the state
type passOutcome struct {
	found   bool
	results []Candidate
}

// recordPass commits a pass for runID. Passes from a run that has been
// stopped are discarded. It returns the previous target flag and whether
// the pass was applied.
func (s *State) recordPass(runID string, out passOutcome) (wasFound, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.scanning || s.runID != runID {
		return s.targetFound, false
	}

	wasFound = s.targetFound
	s.targetFound = out.found
	if len(out.results) > maxStoredResults {
		out.results = out.results[:maxStoredResults]
	}
	s.lastResults = out.results
	s.passes++
	return wasFound, true
}
