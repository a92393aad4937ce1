package cv

import (
	"fmt"
	"sync/atomic"

	"jordanella.com/cursor-tracker/internal/logging"
)

// Service samples single cells of the display and classifies them.
//
// SampleCell never returns an error: capture failures and classifier panics
// are folded into a zero-ratio MatchResult whose Err field carries the cause,
// so a scan pass always runs to completion.
type Service struct {
	capturer   Capturer
	classifier Classifier
	cellSize   int
	logger     *logging.Logger

	samples  atomic.Uint64
	failures atomic.Uint64
}

// NewService creates a CV service over a capture backend and a classifier
func NewService(capturer Capturer, classifier Classifier, opts ...Option) *Service {
	o := serviceOptions{cellSize: CellSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger("CV")
	}

	return &Service{
		capturer:   capturer,
		classifier: classifier,
		cellSize:   o.cellSize,
		logger:     o.logger,
	}
}

// CellSize returns the sampled cell edge length
func (s *Service) CellSize() int {
	return s.cellSize
}

// GetDimensions returns the capture dimensions
func (s *Service) GetDimensions() (width, height int) {
	return s.capturer.GetDimensions()
}

// SampleCell captures the cell centered at c and classifies it
func (s *Service) SampleCell(c Point) (result MatchResult) {
	s.samples.Add(1)
	region := CellAround(c, s.cellSize)

	defer func() {
		if r := recover(); r != nil {
			result = FailedMatch(fmt.Errorf("classifier panic at (%d,%d): %v", c.X, c.Y, r))
		}
		if result.Failed() {
			s.failures.Add(1)
			s.logger.DebugWithContext("cell sample failed", map[string]interface{}{
				"x":     c.X,
				"y":     c.Y,
				"error": result.Err,
			})
		}
	}()

	frame, err := s.capturer.CaptureRegion(region)
	if err != nil {
		return FailedMatch(fmt.Errorf("capture %dx%d at (%d,%d): %w", region.Width(), region.Height(), region.X1, region.Y1, err))
	}
	if frame == nil {
		return FailedMatch(fmt.Errorf("capture at (%d,%d) returned no frame", region.X1, region.Y1))
	}

	return s.classifier.Classify(frame)
}

// Stats returns the number of sampled cells and how many of them failed
func (s *Service) Stats() (samples, failures uint64) {
	return s.samples.Load(), s.failures.Load()
}
