package gui

import (
	"testing"
	"time"

	"jordanella.com/cursor-tracker/internal/events"
)

func TestFormatEvent(t *testing.T) {
	e := events.NewCursorMovedEvent("worker", 1, 2, 3, 4)
	e.Timestamp = time.Date(2024, 1, 1, 9, 30, 15, 0, time.UTC)

	got := formatEvent(e)
	want := "09:30:15  cursor.moved  from_x=1  from_y=2  to_x=3  to_y=4"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
