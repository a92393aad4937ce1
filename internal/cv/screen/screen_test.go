package screen

import (
	"os"
	"testing"

	"jordanella.com/cursor-tracker/internal/cv"
)

// TestDisplayCapture needs a real desktop session
func TestDisplayCapture(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping display capture test in short mode")
	}
	if os.Getenv("TRACKER_DISPLAY_TESTS") == "" {
		t.Skip("Set TRACKER_DISPLAY_TESTS=1 to run against a live display")
	}

	display, err := New()
	if err != nil {
		t.Fatalf("Failed to open display: %v", err)
	}

	width, height := display.GetDimensions()
	t.Logf("Display dimensions: %dx%d", width, height)

	frame, err := display.CaptureRegion(cv.CellAround(cv.Point{X: width / 2, Y: height / 2}, cv.CellSize))
	if err != nil {
		t.Fatalf("Failed to capture region: %v", err)
	}
	if frame.Bounds().Dx() != cv.CellSize || frame.Bounds().Dy() != cv.CellSize {
		t.Errorf("Expected %dx%d frame, got %v", cv.CellSize, cv.CellSize, frame.Bounds())
	}

	if err := display.MoveMouse(-1, 0); err == nil {
		t.Error("Expected off-screen move to be rejected")
	}
}
