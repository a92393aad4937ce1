package cv

import "jordanella.com/cursor-tracker/internal/logging"

// Service construction options
type Option func(*serviceOptions)

type serviceOptions struct {
	cellSize int
	logger   *logging.Logger
}

// WithCellSize overrides the sampled cell edge length
func WithCellSize(size int) Option {
	return func(opts *serviceOptions) {
		if size > 0 {
			opts.cellSize = size
		}
	}
}

// WithLogger sets the logger used for capture diagnostics
func WithLogger(l *logging.Logger) Option {
	return func(opts *serviceOptions) {
		opts.logger = l
	}
}
