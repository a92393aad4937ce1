package database

import (
	"database/sql"
	"time"
)

// ScanPass is one completed pass of the background worker
type ScanPass struct {
	ID          int64         `json:"id"`
	RunID       string        `json:"run_id"`
	CenterX     int           `json:"center_x"`
	CenterY     int           `json:"center_y"`
	Cells       int           `json:"cells"`
	FailedCells int           `json:"failed_cells"`
	BestX       int           `json:"best_x"`
	BestY       int           `json:"best_y"`
	BestRatio   float64       `json:"best_ratio"`
	TargetFound bool          `json:"target_found"`
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"duration_ms"`
	RecordedAt  time.Time     `json:"recorded_at"`
}

// CursorMove is one move request, successful or not
type CursorMove struct {
	ID           int64          `json:"id"`
	Source       string         `json:"source"`
	FromX        int            `json:"from_x"`
	FromY        int            `json:"from_y"`
	ToX          int            `json:"to_x"`
	ToY          int            `json:"to_y"`
	Smooth       bool           `json:"smooth"`
	ErrorMessage sql.NullString `json:"-"`
	RecordedAt   time.Time      `json:"recorded_at"`
}

// Summary aggregates the journal of the running process
type Summary struct {
	Passes      int64   `json:"passes"`
	FoundPasses int64   `json:"found_passes"`
	FailedCells int64   `json:"failed_cells"`
	AvgRatio    float64 `json:"avg_best_ratio"`
	Moves       int64   `json:"moves"`
	FailedMoves int64   `json:"failed_moves"`
}
