// Package screen is the desktop frame sampler: region capture through
// kbinani/screenshot and cursor control through robotgo.
package screen

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
	"jordanella.com/cursor-tracker/internal/cv"
)

// ErrNoDisplay is returned when no active display can be detected
var ErrNoDisplay = errors.New("no active display")

// Display captures regions of the primary screen and drives the system cursor
type Display struct {
	width  int
	height int
	origin image.Point // top-left of the primary display in virtual-desktop coordinates

	moveMu sync.Mutex
}

// New detects the primary display size
func New() (*Display, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, ErrNoDisplay
	}

	bounds := screenshot.GetDisplayBounds(0)
	width, height := robotgo.GetScreenSize()
	if width <= 0 || height <= 0 {
		width, height = bounds.Dx(), bounds.Dy()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: reported size %dx%d", ErrNoDisplay, width, height)
	}

	return &Display{
		width:  width,
		height: height,
		origin: bounds.Min,
	}, nil
}

// GetDimensions returns the screen size in pixels
func (d *Display) GetDimensions() (width, height int) {
	return d.width, d.height
}

// CaptureRegion grabs the pixels of r
func (d *Display) CaptureRegion(r cv.Region) (*image.RGBA, error) {
	if r.Width() <= 0 || r.Height() <= 0 {
		return nil, fmt.Errorf("empty capture region %+v", r)
	}
	rect := r.ToImageRectangle().Add(d.origin)
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("capturing %v: %w", rect, err)
	}
	return img, nil
}

// MoveMouse moves the cursor to (x, y), rejecting off-screen coordinates
func (d *Display) MoveMouse(x, y int) error {
	if x < 0 || y < 0 || x > d.width || y > d.height {
		return fmt.Errorf("coordinates (%d,%d) outside screen %dx%d", x, y, d.width, d.height)
	}

	d.moveMu.Lock()
	defer d.moveMu.Unlock()
	robotgo.Move(x, y)
	return nil
}

// Location returns the current cursor position
func (d *Display) Location() (x, y int) {
	return robotgo.Location()
}

var _ cv.Display = (*Display)(nil)
