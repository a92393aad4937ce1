package logging

import (
	"errors"
	"io"
	"testing"
)

func TestErrorReporterHistoryIsBounded(t *testing.T) {
	reporter := NewErrorReporter(3)
	reporter.SetLogger(NewLogger("test").SetOutput(io.Discard))

	for i := 0; i < 5; i++ {
		reporter.ReportErrorWithContext(ErrorCategoryCapture, ErrorSeverityLow, "CV", "capture failed",
			errors.New("no frame"), map[string]interface{}{"i": i})
	}

	recent := reporter.GetRecentErrors(10)
	if len(recent) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(recent))
	}
	if recent[0].Context["i"] != 2 || recent[2].Context["i"] != 4 {
		t.Errorf("Expected reports 2..4 oldest first, got %v..%v", recent[0].Context["i"], recent[2].Context["i"])
	}
	if recent[2].ErrorText() != "no frame" {
		t.Errorf("Unexpected error text %q", recent[2].ErrorText())
	}
}

func TestErrorReporterStatsAndCategories(t *testing.T) {
	reporter := NewErrorReporter(10)
	reporter.SetLogger(NewLogger("test").SetOutput(io.Discard))

	reporter.ReportError(ErrorCategoryMove, ErrorSeverityHigh, "Tracker", "move rejected", errors.New("off screen"))
	reporter.ReportError(ErrorCategoryWorker, ErrorSeverityMedium, "Worker", "iteration failed", errors.New("boom"))
	reporter.ReportError(ErrorCategoryWorker, ErrorSeverityMedium, "Worker", "iteration failed", errors.New("boom"))

	stats := reporter.GetErrorStats()
	if stats["total"] != 3 || stats["category_worker"] != 2 || stats["severity_high"] != 1 {
		t.Errorf("Unexpected stats: %v", stats)
	}

	if got := reporter.GetErrorsByCategory(ErrorCategoryWorker, 1); len(got) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(got))
	}

	reporter.Clear()
	if len(reporter.GetRecentErrors(5)) != 0 {
		t.Error("Expected empty history after Clear")
	}
}
