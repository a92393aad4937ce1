// Package api exposes the tracker control surface over HTTP with JSON bodies.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jordanella.com/cursor-tracker/internal/cv"
	"jordanella.com/cursor-tracker/internal/database"
	"jordanella.com/cursor-tracker/internal/logging"
	"jordanella.com/cursor-tracker/internal/monitor"
	"jordanella.com/cursor-tracker/internal/tracker"
)

// Controller is the part of the tracker the HTTP layer drives
type Controller interface {
	Status() tracker.Status
	StartScanning() bool
	StopScanning() bool
	QuickScan(ctx context.Context) ([]tracker.Candidate, error)
	MoveTo(x, y int) (cv.Point, error)
	CenterCursor() (cv.Point, error)
	Settings() tracker.Settings
	UpdateSettings(u tracker.SettingsUpdate) (tracker.Settings, error)
	LastResults() []tracker.Candidate
}

// History serves the scan journal of the running process
type History interface {
	RecentPasses(limit int) ([]database.ScanPass, error)
	GetSummary() (*database.Summary, error)
}

// HealthSource reports the last health check
type HealthSource interface {
	Health() monitor.Health
}

// Server routes HTTP requests to a Controller
type Server struct {
	ctrl     Controller
	history  History
	health   HealthSource
	reporter *logging.ErrorReporter
	logger   *logging.Logger
	mux      *http.ServeMux
}

// Option configures a Server
type Option func(*Server)

// WithHistory enables GET /history
func WithHistory(h History) Option {
	return func(s *Server) { s.history = h }
}

// WithHealth enables GET /health
func WithHealth(h HealthSource) Option {
	return func(s *Server) { s.health = h }
}

// WithErrorReporter enables GET /errors
func WithErrorReporter(r *logging.ErrorReporter) Option {
	return func(s *Server) { s.reporter = r }
}

// WithLogger sets the request logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates the HTTP control surface for ctrl
func NewServer(ctrl Controller, opts ...Option) *Server {
	s := &Server{
		ctrl: ctrl,
		mux:  http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("API")
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("POST /start-scan", s.handleStartScan)
	s.mux.HandleFunc("POST /stop-scan", s.handleStopScan)
	s.mux.HandleFunc("GET /quick-scan", s.handleQuickScan)
	s.mux.HandleFunc("POST /move-to/{x}/{y}", s.handleMoveTo)
	s.mux.HandleFunc("POST /test-move", s.handleTestMove)
	s.mux.HandleFunc("GET /settings", s.handleGetSettings)
	s.mux.HandleFunc("POST /settings", s.handleUpdateSettings)
	s.mux.HandleFunc("GET /history", s.handleHistory)
	s.mux.HandleFunc("GET /errors", s.handleErrors)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the routed handler wrapped in CORS and request logging
func (s *Server) Handler() http.Handler {
	return withCORS(s.logRequests(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("listening on %s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.DebugWithContext("request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(started).String(),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withCORS allows any origin and answers preflight requests
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
