package tracker

import (
	"errors"
	"sync"
	"time"

	"jordanella.com/cursor-tracker/internal/cv"
	"jordanella.com/cursor-tracker/internal/database"
)

// fakeSampler scores cells with a function and records every sampled center
type fakeSampler struct {
	width, height int
	score         func(p cv.Point) cv.MatchResult

	mu      sync.Mutex
	sampled []cv.Point
}

func newFakeSampler(width, height int, score func(p cv.Point) cv.MatchResult) *fakeSampler {
	if score == nil {
		score = func(cv.Point) cv.MatchResult { return cv.MatchResult{} }
	}
	return &fakeSampler{width: width, height: height, score: score}
}

func (f *fakeSampler) SampleCell(p cv.Point) cv.MatchResult {
	f.mu.Lock()
	f.sampled = append(f.sampled, p)
	f.mu.Unlock()
	return f.score(p)
}

func (f *fakeSampler) GetDimensions() (int, int) { return f.width, f.height }

func (f *fakeSampler) CellSize() int { return cv.CellSize }

func (f *fakeSampler) points() []cv.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]cv.Point, len(f.sampled))
	copy(out, f.sampled)
	return out
}

// fakePointer is an in-memory cursor
type fakePointer struct {
	mu    sync.Mutex
	x, y  int
	moves []cv.Point
	err   error

	// failAfter > 0 makes every move after that many successful ones fail
	failAfter int
	// onMove runs after each successful move
	onMove func()
}

func (f *fakePointer) MoveMouse(x, y int) error {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return f.err
	}
	if f.failAfter > 0 && len(f.moves) >= f.failAfter {
		f.mu.Unlock()
		return errInjected
	}
	f.x, f.y = x, y
	f.moves = append(f.moves, cv.Point{X: x, Y: y})
	hook := f.onMove
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakePointer) Location() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y
}

func (f *fakePointer) moveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.moves)
}

func (f *fakePointer) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// memJournal collects journal records
type memJournal struct {
	mu     sync.Mutex
	passes []database.ScanPass
	moves  []database.CursorMove
	errs   []error
}

func (j *memJournal) RecordPass(p database.ScanPass) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.passes = append(j.passes, p)
	return nil
}

func (j *memJournal) RecordMove(m database.CursorMove, moveErr error) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.moves = append(j.moves, m)
	j.errs = append(j.errs, moveErr)
	return nil
}

var errInjected = errors.New("injected failure")

// ratioAt returns a scorer giving ratio at exactly p and rest everywhere else
func ratioAt(p cv.Point, ratio, rest float64) func(cv.Point) cv.MatchResult {
	return func(c cv.Point) cv.MatchResult {
		if c == p {
			return cv.MatchResult{Ratio: ratio, OffsetX: 3, OffsetY: -2}
		}
		return cv.MatchResult{Ratio: rest}
	}
}

func fastTiming() Timing {
	return Timing{
		PollInterval: time.Millisecond,
		RetryDelay:   5 * time.Millisecond,
		MoveSteps:    5,
		MovePace:     0,
	}
}
