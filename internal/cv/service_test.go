package cv

import (
	"errors"
	"image"
	"testing"
)

type stubCapturer struct {
	err     error
	regions []Region
}

func (c *stubCapturer) CaptureRegion(r Region) (*image.RGBA, error) {
	c.regions = append(c.regions, r)
	if c.err != nil {
		return nil, c.err
	}
	return image.NewRGBA(image.Rect(0, 0, r.Width(), r.Height())), nil
}

func (c *stubCapturer) GetDimensions() (int, int) {
	return 1920, 1080
}

func TestSampleCellCapturesCenteredCell(t *testing.T) {
	capturer := &stubCapturer{}
	classifier := ClassifierFunc(func(frame *image.RGBA) MatchResult {
		if frame.Bounds().Dx() != CellSize || frame.Bounds().Dy() != CellSize {
			t.Errorf("Expected %dx%d frame, got %v", CellSize, CellSize, frame.Bounds())
		}
		return MatchResult{Ratio: 0.5, OffsetX: 3, OffsetY: -2}
	})

	service := NewService(capturer, classifier)
	result := service.SampleCell(Point{X: 100, Y: 200})

	if result.Failed() {
		t.Fatalf("Unexpected failure: %v", result.Err)
	}
	if result.Ratio != 0.5 || result.OffsetX != 3 || result.OffsetY != -2 {
		t.Errorf("Unexpected result: %v", result)
	}

	want := Region{X1: 75, Y1: 175, X2: 125, Y2: 225}
	if len(capturer.regions) != 1 || capturer.regions[0] != want {
		t.Errorf("Expected capture of %+v, got %+v", want, capturer.regions)
	}
}

func TestSampleCellCaptureFailureIsData(t *testing.T) {
	captureErr := errors.New("display unavailable")
	service := NewService(&stubCapturer{err: captureErr}, ClassifierFunc(func(*image.RGBA) MatchResult {
		t.Fatal("Classifier must not run when capture fails")
		return MatchResult{}
	}))

	result := service.SampleCell(Point{X: 25, Y: 25})
	if !result.Failed() {
		t.Fatal("Expected failed result")
	}
	if !errors.Is(result.Err, captureErr) {
		t.Errorf("Expected wrapped capture error, got %v", result.Err)
	}
	if result.Ratio != 0 || result.OffsetX != 0 || result.OffsetY != 0 {
		t.Errorf("Failed result must be zero, got %v", result)
	}

	samples, failures := service.Stats()
	if samples != 1 || failures != 1 {
		t.Errorf("Expected 1/1 samples/failures, got %d/%d", samples, failures)
	}
}

func TestSampleCellRecoversClassifierPanic(t *testing.T) {
	service := NewService(&stubCapturer{}, ClassifierFunc(func(*image.RGBA) MatchResult {
		panic("bad mat")
	}))

	result := service.SampleCell(Point{X: 50, Y: 50})
	if !result.Failed() {
		t.Fatal("Expected panic to be converted into a failed result")
	}
	if result.Ratio != 0 {
		t.Errorf("Expected zero ratio, got %f", result.Ratio)
	}
}

func TestCellAroundAndClamp(t *testing.T) {
	cell := CellAround(Point{X: 25, Y: 25}, CellSize)
	if cell != (Region{X1: 0, Y1: 0, X2: 50, Y2: 50}) {
		t.Errorf("Unexpected cell: %+v", cell)
	}
	if cell.Width() != CellSize || cell.Height() != CellSize {
		t.Errorf("Expected a %dx%d cell, got %dx%d", CellSize, CellSize, cell.Width(), cell.Height())
	}

	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Point{X: 500, Y: 400}, Point{X: 500, Y: 400}},
		{"below min", Point{X: -30, Y: 3}, Point{X: 25, Y: 25}},
		{"above max", Point{X: 5000, Y: 2000}, Point{X: 1895, Y: 1055}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp(Point{X: 25, Y: 25}, Point{X: 1895, Y: 1055})
			if got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
