package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jordanella.com/cursor-tracker/internal/cv"
	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/logging"
	"jordanella.com/cursor-tracker/internal/monitor"
	"jordanella.com/cursor-tracker/internal/tracker"
)

// fakeController records calls and returns canned results
type fakeController struct {
	status   tracker.Status
	scanning bool
	settings tracker.Settings
	results  []tracker.Candidate
	moveErr  error
	moves    []cv.Point
}

func newFakeController() *fakeController {
	return &fakeController{
		status: tracker.Status{
			Position:     cv.Point{X: 960, Y: 540},
			ScreenWidth:  1920,
			ScreenHeight: 1080,
		},
		settings: tracker.DefaultSettings(),
	}
}

func (f *fakeController) Status() tracker.Status {
	st := f.status
	st.IsScanning = f.scanning
	return st
}

func (f *fakeController) StartScanning() bool {
	if f.scanning {
		return false
	}
	f.scanning = true
	return true
}

func (f *fakeController) StopScanning() bool {
	if !f.scanning {
		return false
	}
	f.scanning = false
	return true
}

func (f *fakeController) QuickScan(ctx context.Context) ([]tracker.Candidate, error) {
	return f.results, nil
}

func (f *fakeController) MoveTo(x, y int) (cv.Point, error) {
	if f.moveErr != nil {
		return f.status.Position, f.moveErr
	}
	p := cv.Point{X: x, Y: y}
	f.moves = append(f.moves, p)
	f.status.Position = p
	return p, nil
}

func (f *fakeController) CenterCursor() (cv.Point, error) {
	return f.MoveTo(f.status.ScreenWidth/2, f.status.ScreenHeight/2)
}

func (f *fakeController) Settings() tracker.Settings {
	return f.settings
}

func (f *fakeController) UpdateSettings(u tracker.SettingsUpdate) (tracker.Settings, error) {
	if err := u.Validate(); err != nil {
		return f.settings, err
	}
	next := f.settings.Apply(u)
	if err := next.ValidateFor(f.status.ScreenWidth, f.status.ScreenHeight); err != nil {
		return f.settings, err
	}
	f.settings = next
	return f.settings, nil
}

func (f *fakeController) LastResults() []tracker.Candidate {
	return []tracker.Candidate{}
}

func quietLogger() *logging.Logger {
	return logging.NewLogger("API").SetMinLevel(logging.LogLevelError)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHome(t *testing.T) {
	h := NewServer(newFakeController(), WithLogger(quietLogger())).Handler()

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "online" {
		t.Errorf("Unexpected home body: %v", body)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header, got %q", got)
	}
}

func TestStatus(t *testing.T) {
	h := NewServer(newFakeController(), WithLogger(quietLogger())).Handler()

	body := decode(t, do(t, h, http.MethodGet, "/status", ""))
	pos := body["position"].(map[string]interface{})
	if pos["x"] != 960.0 || pos["y"] != 540.0 {
		t.Errorf("Unexpected position %v", pos)
	}
	size := body["screen_size"].(map[string]interface{})
	if size["width"] != 1920.0 || size["height"] != 1080.0 {
		t.Errorf("Unexpected screen size %v", size)
	}
	if body["is_scanning"] != false || body["target_found"] != false {
		t.Errorf("Unexpected flags %v", body)
	}
}

func TestStartStopScan(t *testing.T) {
	h := NewServer(newFakeController(), WithLogger(quietLogger())).Handler()

	steps := []struct {
		path    string
		success bool
	}{
		{"/start-scan", true},
		{"/start-scan", false},
		{"/stop-scan", true},
		{"/stop-scan", false},
	}
	for _, step := range steps {
		rec := do(t, h, http.MethodPost, step.path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", step.path, rec.Code)
		}
		body := decode(t, rec)
		if body["success"] != step.success {
			t.Errorf("%s: expected success=%v, got %v", step.path, step.success, body)
		}
		if body["message"] == "" {
			t.Errorf("%s: expected a message", step.path)
		}
	}

	if rec := do(t, h, http.MethodGet, "/start-scan", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /start-scan, got %d", rec.Code)
	}
}

func TestQuickScan(t *testing.T) {
	ctrl := newFakeController()
	ctrl.results = []tracker.Candidate{{X: 1000, Y: 540, Ratio: 0.2, OffsetX: 3, OffsetY: -1}}
	h := NewServer(ctrl, WithLogger(quietLogger())).Handler()

	body := decode(t, do(t, h, http.MethodGet, "/quick-scan", ""))
	results := body["results"].([]interface{})
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	first := results[0].(map[string]interface{})
	for _, key := range []string{"x", "y", "ratio", "offset_x", "offset_y"} {
		if _, ok := first[key]; !ok {
			t.Errorf("Missing key %q in %v", key, first)
		}
	}
}

func TestMoveTo(t *testing.T) {
	ctrl := newFakeController()
	h := NewServer(ctrl, WithLogger(quietLogger())).Handler()

	rec := do(t, h, http.MethodPost, "/move-to/100/200", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(ctrl.moves) != 1 || ctrl.moves[0] != (cv.Point{X: 100, Y: 200}) {
		t.Errorf("Expected move to (100,200), got %v", ctrl.moves)
	}

	if rec := do(t, h, http.MethodPost, "/move-to/abc/200", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-integer path, got %d", rec.Code)
	}

	ctrl.moveErr = errors.New("primitive rejected coordinates")
	rec = do(t, h, http.MethodPost, "/move-to/5/5", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 on move failure, got %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] == nil {
		t.Errorf("Expected error body, got %v", body)
	}
}

func TestTestMove(t *testing.T) {
	ctrl := newFakeController()
	h := NewServer(ctrl, WithLogger(quietLogger())).Handler()

	if rec := do(t, h, http.MethodPost, "/test-move", ""); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ctrl.status.Position != (cv.Point{X: 960, Y: 540}) {
		t.Errorf("Expected center move, got %v", ctrl.status.Position)
	}
}

func TestSettings(t *testing.T) {
	ctrl := newFakeController()
	h := NewServer(ctrl, WithLogger(quietLogger())).Handler()

	body := decode(t, do(t, h, http.MethodGet, "/settings", ""))
	if body["scan_step"] != 20.0 || body["green_threshold"] != 0.15 || body["smooth_movement"] != true {
		t.Errorf("Unexpected settings %v", body)
	}

	rec := do(t, h, http.MethodPost, "/settings", `{"scan_step": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := tracker.DefaultSettings()
	want.ScanStep = 5
	if ctrl.settings != want {
		t.Errorf("Expected %+v, got %+v", want, ctrl.settings)
	}

	rejected := []string{
		`{"scan_step": 0}`,
		`{"scan_step": "5"}`,
		`{"green_threshold": 1.5}`,
		`{"scan_range": 200000, "scan_step": 1}`,
		`{"scan_range": 1000, "scan_step": 1}`,
		`{"unknown": true}`,
		`not json`,
	}
	for _, b := range rejected {
		if rec := do(t, h, http.MethodPost, "/settings", b); rec.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected 400, got %d", b, rec.Code)
		}
	}
	if ctrl.settings != want {
		t.Errorf("Rejected updates changed settings: %+v", ctrl.settings)
	}
}

func TestPreflight(t *testing.T) {
	h := NewServer(newFakeController(), WithLogger(quietLogger())).Handler()

	rec := do(t, h, http.MethodOptions, "/settings", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected allowed methods header")
	}
}

func TestHistory(t *testing.T) {
	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := db.RecordPass(database.ScanPass{RunID: "run", CenterX: i, BestRatio: 0.1}); err != nil {
			t.Fatalf("Failed to record pass: %v", err)
		}
	}

	h := NewServer(newFakeController(), WithHistory(db), WithLogger(quietLogger())).Handler()

	body := decode(t, do(t, h, http.MethodGet, "/history?limit=2", ""))
	if passes := body["passes"].([]interface{}); len(passes) != 2 {
		t.Errorf("Expected 2 passes, got %d", len(passes))
	}
	summary := body["summary"].(map[string]interface{})
	if summary["passes"] != 3.0 {
		t.Errorf("Expected 3 passes in summary, got %v", summary["passes"])
	}

	if rec := do(t, h, http.MethodGet, "/history?limit=-1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad limit, got %d", rec.Code)
	}

	noJournal := NewServer(newFakeController(), WithLogger(quietLogger())).Handler()
	if rec := do(t, noJournal, http.MethodGet, "/history", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without journal, got %d", rec.Code)
	}
}

func TestErrors(t *testing.T) {
	reporter := logging.NewErrorReporter(10)
	reporter.SetLogger(quietLogger())
	reporter.ReportError(logging.ErrorCategoryMove, logging.ErrorSeverityMedium, "Tracker", "move failed", errors.New("boom"))

	h := NewServer(newFakeController(), WithErrorReporter(reporter), WithLogger(quietLogger())).Handler()

	body := decode(t, do(t, h, http.MethodGet, "/errors", ""))
	entries := body["errors"].([]interface{})
	if len(entries) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(entries))
	}
	entry := entries[0].(map[string]interface{})
	if entry["category"] != "move" || entry["error"] != "boom" {
		t.Errorf("Unexpected error entry %v", entry)
	}
}

type fakeHealth struct {
	h monitor.Health
}

func (f fakeHealth) Health() monitor.Health { return f.h }

func TestHealth(t *testing.T) {
	healthy := NewServer(newFakeController(), WithHealth(fakeHealth{monitor.Health{Healthy: true}}), WithLogger(quietLogger())).Handler()
	if rec := do(t, healthy, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}

	failing := NewServer(newFakeController(), WithHealth(fakeHealth{monitor.Health{Reason: monitor.ReasonCaptureFailing}}), WithLogger(quietLogger())).Handler()
	rec := do(t, failing, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	if body := decode(t, rec); body["reason"] != monitor.ReasonCaptureFailing {
		t.Errorf("Unexpected health body %v", body)
	}
}
