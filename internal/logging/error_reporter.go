package logging

import (
	"fmt"
	"sync"
	"time"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	ErrorCategoryCapture  ErrorCategory = "capture"
	ErrorCategoryMove     ErrorCategory = "move"
	ErrorCategorySettings ErrorCategory = "settings"
	ErrorCategoryWorker   ErrorCategory = "worker"
	ErrorCategorySystem   ErrorCategory = "system"
)

// ErrorSeverity represents the severity of an error
type ErrorSeverity string

const (
	ErrorSeverityLow      ErrorSeverity = "low"
	ErrorSeverityMedium   ErrorSeverity = "medium"
	ErrorSeverityHigh     ErrorSeverity = "high"
	ErrorSeverityCritical ErrorSeverity = "critical"
)

// ErrorReport represents a detailed error report
type ErrorReport struct {
	Timestamp   time.Time              `json:"timestamp"`
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Component   string                 `json:"component"`
	Message     string                 `json:"message"`
	Error       error                  `json:"-"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// ErrorText returns the report's error as a string, empty when unset
func (r *ErrorReport) ErrorText() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Error()
}

// ErrorReporter logs error reports and keeps the most recent ones in a
// fixed-size ring for the control surface.
type ErrorReporter struct {
	mu     sync.RWMutex
	logger *Logger
	ring   []*ErrorReport
	next   int
	count  int
}

// NewErrorReporter keeps at most maxHistory reports, 200 when maxHistory <= 0
func NewErrorReporter(maxHistory int) *ErrorReporter {
	if maxHistory <= 0 {
		maxHistory = 200
	}
	return &ErrorReporter{
		logger: NewLogger("ErrorReporter"),
		ring:   make([]*ErrorReport, maxHistory),
	}
}

// SetLogger replaces the logger reports are written to
func (er *ErrorReporter) SetLogger(logger *Logger) {
	er.mu.Lock()
	defer er.mu.Unlock()
	er.logger = logger
}

// Report stores and logs report
func (er *ErrorReporter) Report(report *ErrorReport) {
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now()
	}

	er.mu.Lock()
	er.ring[er.next] = report
	er.next = (er.next + 1) % len(er.ring)
	if er.count < len(er.ring) {
		er.count++
	}
	logger := er.logger
	er.mu.Unlock()

	logReport(logger, report)
}

// ReportError reports a recoverable error
func (er *ErrorReporter) ReportError(category ErrorCategory, severity ErrorSeverity, component, message string, err error) {
	er.ReportErrorWithContext(category, severity, component, message, err, nil)
}

// ReportErrorWithContext reports a recoverable error with extra fields
func (er *ErrorReporter) ReportErrorWithContext(category ErrorCategory, severity ErrorSeverity, component, message string, err error, context map[string]interface{}) {
	er.Report(&ErrorReport{
		Category:    category,
		Severity:    severity,
		Component:   component,
		Message:     message,
		Error:       err,
		Context:     context,
		Recoverable: true,
	})
}

var severityLevel = map[ErrorSeverity]LogLevel{
	ErrorSeverityCritical: LogLevelFatal,
	ErrorSeverityHigh:     LogLevelError,
	ErrorSeverityMedium:   LogLevelWarn,
	ErrorSeverityLow:      LogLevelDebug,
}

func logReport(logger *Logger, report *ErrorReport) {
	fields := map[string]interface{}{
		"category":  string(report.Category),
		"severity":  string(report.Severity),
		"component": report.Component,
	}
	for k, v := range report.Context {
		fields[k] = v
	}

	level, ok := severityLevel[report.Severity]
	if !ok {
		level = LogLevelDebug
	}
	logger.log(level, report.Message, report.Error, fields)
}

// each calls fn for stored reports from newest to oldest until fn returns false.
// Callers hold er.mu.
func (er *ErrorReporter) each(fn func(*ErrorReport) bool) {
	for i := 1; i <= er.count; i++ {
		idx := (er.next - i + len(er.ring)) % len(er.ring)
		if !fn(er.ring[idx]) {
			return
		}
	}
}

// GetRecentErrors returns the n most recent reports, oldest first.
// A negative n returns everything stored.
func (er *ErrorReporter) GetRecentErrors(n int) []*ErrorReport {
	er.mu.RLock()
	defer er.mu.RUnlock()

	if n < 0 || n > er.count {
		n = er.count
	}
	result := make([]*ErrorReport, n)
	i := n - 1
	er.each(func(r *ErrorReport) bool {
		if i < 0 {
			return false
		}
		result[i] = r
		i--
		return true
	})
	return result
}

// GetErrorsByCategory returns up to limit reports of category, newest first
func (er *ErrorReporter) GetErrorsByCategory(category ErrorCategory, limit int) []*ErrorReport {
	er.mu.RLock()
	defer er.mu.RUnlock()

	result := make([]*ErrorReport, 0)
	er.each(func(r *ErrorReport) bool {
		if len(result) >= limit {
			return false
		}
		if r.Category == category {
			result = append(result, r)
		}
		return true
	})
	return result
}

// GetErrorStats counts stored reports as total, severity_<s> and category_<c>
func (er *ErrorReporter) GetErrorStats() map[string]int {
	er.mu.RLock()
	defer er.mu.RUnlock()

	stats := map[string]int{"total": er.count}
	er.each(func(r *ErrorReport) bool {
		stats[fmt.Sprintf("severity_%s", r.Severity)]++
		stats[fmt.Sprintf("category_%s", r.Category)]++
		return true
	})
	return stats
}

// Clear drops every stored report
func (er *ErrorReporter) Clear() {
	er.mu.Lock()
	defer er.mu.Unlock()
	clear(er.ring)
	er.next, er.count = 0, 0
}
