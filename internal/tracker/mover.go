package tracker

import (
	"fmt"
	"time"

	"jordanella.com/cursor-tracker/internal/cv"
)

// Mover steers the cursor to a target, optionally through evenly spaced
// intermediate points paced by a fixed delay.
type Mover struct {
	pointer cv.Pointer
	steps   int
	pace    time.Duration
}

// NewMover creates a mover issuing steps moves per smooth motion
func NewMover(pointer cv.Pointer, steps int, pace time.Duration) *Mover {
	if steps < 1 {
		steps = 1
	}
	return &Mover{
		pointer: pointer,
		steps:   steps,
		pace:    pace,
	}
}

// Path returns the intermediate points of a linear move from -> to.
// The last point is always exactly to.
func (m *Mover) Path(from, to cv.Point) []cv.Point {
	path := make([]cv.Point, m.steps)
	dx, dy := to.X-from.X, to.Y-from.Y
	for i := 1; i <= m.steps; i++ {
		path[i-1] = cv.Point{
			X: from.X + dx*i/m.steps,
			Y: from.Y + dy*i/m.steps,
		}
	}
	return path
}

// MoveTo moves the cursor to target. Without smoothing it jumps directly;
// otherwise it walks the linear path from the cursor's reported position.
// reached is the last point a move command succeeded for and moved reports
// whether there was one, so a move that fails partway can still be tracked.
func (m *Mover) MoveTo(target cv.Point, smooth bool) (reached cv.Point, moved bool, err error) {
	if !smooth {
		if err := m.move(target); err != nil {
			return cv.Point{}, false, err
		}
		return target, true, nil
	}

	fx, fy := m.pointer.Location()
	path := m.Path(cv.Point{X: fx, Y: fy}, target)
	for i, p := range path {
		if err := m.move(p); err != nil {
			return reached, moved, err
		}
		reached, moved = p, true
		if i < len(path)-1 && m.pace > 0 {
			time.Sleep(m.pace)
		}
	}
	return reached, moved, nil
}

func (m *Mover) move(p cv.Point) error {
	if err := m.pointer.MoveMouse(p.X, p.Y); err != nil {
		return fmt.Errorf("%w: (%d,%d): %v", ErrMoveFailed, p.X, p.Y, err)
	}
	return nil
}
