package cv

import (
	"image"
)

// CellSize is the edge length in pixels of every sampled scan cell
const CellSize = 50

// Capturer grabs pixel data for a rectangle of the display
type Capturer interface {
	CaptureRegion(r Region) (*image.RGBA, error)
	GetDimensions() (width, height int)
}

// Pointer drives the on-screen cursor
type Pointer interface {
	// MoveMouse moves the cursor to an absolute screen position. It fails
	// when the input backend rejects the coordinates.
	MoveMouse(x, y int) error
	Location() (x, y int)
}

// Display is the full frame sampler: capture plus cursor control
type Display interface {
	Capturer
	Pointer
}
