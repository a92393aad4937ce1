package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

var levelOrder = []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal}

func (lv LogLevel) rank() int {
	for i, known := range levelOrder {
		if known == lv {
			return i
		}
	}
	return -1
}

// ParseLogLevel maps a config string to a level, case-insensitively
func ParseLogLevel(s string) (LogLevel, error) {
	lv := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if lv == "WARNING" {
		lv = LogLevelWarn
	}
	if lv.rank() < 0 {
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lv, nil
}

// LogEntry is one record handed to a formatter
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Component string
	Message   string
	Error     error
	Context   map[string]interface{}
}

// LogFormatter renders an entry, including the trailing newline
type LogFormatter func(entry *LogEntry) string

// FormatText renders
//
//	[2006-01-02 15:04:05.000] LEVEL [Component] message | error=... | k=v k=v
//
// with context keys sorted.
func FormatText(entry *LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] %s",
		entry.Timestamp.Format("2006-01-02 15:04:05.000"), entry.Level, entry.Component, entry.Message)

	if entry.Error != nil {
		fmt.Fprintf(&b, " | error=%v", entry.Error)
	}

	if len(entry.Context) > 0 {
		keys := make([]string, 0, len(entry.Context))
		for k := range entry.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" |")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Context[k])
		}
	}

	b.WriteByte('\n')
	return b.String()
}

// sink is the state every logger derived through Named shares
type sink struct {
	mu       sync.Mutex
	writers  []io.Writer
	minLevel LogLevel
	format   LogFormatter
}

func (s *sink) write(entry *LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Level.rank() < s.minLevel.rank() {
		return
	}
	line := []byte(s.format(entry))
	for _, w := range s.writers {
		_, _ = w.Write(line)
	}
}

// Logger writes leveled records tagged with a component name
type Logger struct {
	component string
	sink      *sink
}

// NewLogger creates a logger writing INFO and above to stdout
func NewLogger(component string) *Logger {
	return &Logger{
		component: component,
		sink: &sink{
			writers:  []io.Writer{os.Stdout},
			minLevel: LogLevelInfo,
			format:   FormatText,
		},
	}
}

// Named returns a logger for another component. Level and output changes
// made through either logger apply to both.
func (l *Logger) Named(component string) *Logger {
	return &Logger{component: component, sink: l.sink}
}

// Fork returns a logger for another component that starts with this
// logger's writers, level and format but keeps its own copy of them.
func (l *Logger) Fork(component string) *Logger {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	writers := make([]io.Writer, len(l.sink.writers))
	copy(writers, l.sink.writers)
	return &Logger{
		component: component,
		sink: &sink{
			writers:  writers,
			minLevel: l.sink.minLevel,
			format:   l.sink.format,
		},
	}
}

// SetMinLevel drops records below level
func (l *Logger) SetMinLevel(level LogLevel) *Logger {
	l.sink.mu.Lock()
	l.sink.minLevel = level
	l.sink.mu.Unlock()
	return l
}

// AddOutput adds a writer next to the existing ones
func (l *Logger) AddOutput(w io.Writer) *Logger {
	l.sink.mu.Lock()
	l.sink.writers = append(l.sink.writers, w)
	l.sink.mu.Unlock()
	return l
}

// SetOutput replaces all writers with w
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.sink.mu.Lock()
	l.sink.writers = []io.Writer{w}
	l.sink.mu.Unlock()
	return l
}

// SetFormatter replaces the record format
func (l *Logger) SetFormatter(f LogFormatter) *Logger {
	l.sink.mu.Lock()
	l.sink.format = f
	l.sink.mu.Unlock()
	return l
}

func (l *Logger) log(level LogLevel, message string, err error, context map[string]interface{}) {
	l.sink.write(&LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Component: l.component,
		Message:   message,
		Error:     err,
		Context:   context,
	})
}

func (l *Logger) Debug(message string) { l.log(LogLevelDebug, message, nil, nil) }
func (l *Logger) Info(message string)  { l.log(LogLevelInfo, message, nil, nil) }
func (l *Logger) Warn(message string)  { l.log(LogLevelWarn, message, nil, nil) }

func (l *Logger) DebugWithContext(message string, context map[string]interface{}) {
	l.log(LogLevelDebug, message, nil, context)
}

func (l *Logger) InfoWithContext(message string, context map[string]interface{}) {
	l.log(LogLevelInfo, message, nil, context)
}

func (l *Logger) WarnWithContext(message string, context map[string]interface{}) {
	l.log(LogLevelWarn, message, nil, context)
}

// Error logs message with err attached
func (l *Logger) Error(message string, err error) {
	l.log(LogLevelError, message, err, nil)
}

func (l *Logger) ErrorWithContext(message string, err error, context map[string]interface{}) {
	l.log(LogLevelError, message, err, context)
}

// Fatal logs at FATAL. The process keeps running; callers decide whether to exit.
func (l *Logger) Fatal(message string, err error) {
	l.log(LogLevelFatal, message, err, nil)
}

func (l *Logger) FatalWithContext(message string, err error, context map[string]interface{}) {
	l.log(LogLevelFatal, message, err, context)
}
