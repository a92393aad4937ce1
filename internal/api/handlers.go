package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/tracker"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
	maxSettingsBody  = 4096
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type screenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type statusResponse struct {
	Position    point               `json:"position"`
	IsScanning  bool                `json:"is_scanning"`
	TargetFound bool                `json:"target_found"`
	ScreenSize  screenSize          `json:"screen_size"`
	RunID       string              `json:"run_id,omitempty"`
	Passes      int                 `json:"passes"`
	LastResults []tracker.Candidate `json:"last_results"`
}

type messageResponse struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type quickScanResponse struct {
	Message string              `json:"message"`
	Results []tracker.Candidate `json:"results"`
}

type settingsUpdatedResponse struct {
	Message  string           `json:"message"`
	Settings tracker.Settings `json:"settings"`
}

type historyResponse struct {
	Passes  []database.ScanPass `json:"passes"`
	Summary *database.Summary   `json:"summary"`
}

type errorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Severity  string    `json:"severity"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Color Bot Backend Running",
		"status":  "online",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.ctrl.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		Position:    point{X: st.Position.X, Y: st.Position.Y},
		IsScanning:  st.IsScanning,
		TargetFound: st.TargetFound,
		ScreenSize:  screenSize{Width: st.ScreenWidth, Height: st.ScreenHeight},
		RunID:       st.RunID,
		Passes:      st.Passes,
		LastResults: s.ctrl.LastResults(),
	})
}

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	if s.ctrl.StartScanning() {
		writeJSON(w, http.StatusOK, result("Scanning started", true))
		return
	}
	writeJSON(w, http.StatusOK, result("Already scanning", false))
}

func (s *Server) handleStopScan(w http.ResponseWriter, r *http.Request) {
	if s.ctrl.StopScanning() {
		writeJSON(w, http.StatusOK, result("Scanning stopped", true))
		return
	}
	writeJSON(w, http.StatusOK, result("Was not scanning", false))
}

func (s *Server) handleQuickScan(w http.ResponseWriter, r *http.Request) {
	results, err := s.ctrl.QuickScan(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("quick scan: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, quickScanResponse{
		Message: "Quick scan completed",
		Results: results,
	})
}

func (s *Server) handleMoveTo(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(r.PathValue("y"))
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, errors.New("x and y must be integers"))
		return
	}

	pos, err := s.ctrl.MoveTo(x, y)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Moved to (%d, %d)", pos.X, pos.Y)})
}

func (s *Server) handleTestMove(w http.ResponseWriter, r *http.Request) {
	pos, err := s.ctrl.CenterCursor()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Moved to center (%d, %d)", pos.X, pos.Y)})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Settings())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var u tracker.SettingsUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid settings body: %w", err))
		return
	}

	settings, err := s.ctrl.UpdateSettings(u)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tracker.ErrInvalidSettings) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsUpdatedResponse{
		Message:  "Settings updated",
		Settings: settings,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errors.New("scan journal disabled"))
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	passes, err := s.history.RecentPasses(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	summary, err := s.history.GetSummary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Passes: passes, Summary: summary})
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	if s.reporter == nil {
		writeError(w, http.StatusNotFound, errors.New("error reporting disabled"))
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reports := s.reporter.GetRecentErrors(limit)
	entries := make([]errorEntry, 0, len(reports))
	for _, rep := range reports {
		entries = append(entries, errorEntry{
			Timestamp: rep.Timestamp,
			Category:  string(rep.Category),
			Severity:  string(rep.Severity),
			Component: rep.Component,
			Message:   rep.Message,
			Error:     rep.ErrorText(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"errors": entries,
		"stats":  s.reporter.GetErrorStats(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeError(w, http.StatusNotFound, errors.New("health monitoring disabled"))
		return
	}
	h := s.health.Health()
	status := http.StatusOK
	if !h.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, h)
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

func result(message string, success bool) messageResponse {
	return messageResponse{Message: message, Success: &success}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
