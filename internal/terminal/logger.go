package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Style represents a log message style.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

// Event is a structured log record buffered in JSON output mode.
type Event struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Logger provides styled logging to stderr. In JSON mode it buffers
// structured events instead of writing styled lines, so machine-readable
// output on stdout stays clean.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	isTTY   bool
	verbose bool
	quiet   bool
	json    bool
	events  []Event
}

// NewLogger creates a logger writing styled lines to stderr.
func NewLogger() *Logger {
	return &Logger{
		out:   os.Stderr,
		isTTY: IsStderrTTY(),
	}
}

// SetVerbose enables debug-level output.
func (l *Logger) SetVerbose(v bool) { l.verbose = v }

// SetQuiet suppresses everything below warning.
func (l *Logger) SetQuiet(q bool) { l.quiet = q }

// SetJSON switches the logger into buffered structured-event mode.
func (l *Logger) SetJSON(j bool) { l.json = j }

// SetOutput redirects styled output, primarily for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
	l.isTTY = false
}

// Log prints a styled log message, or buffers it in JSON mode.
func (l *Logger) Log(msg string, style Style) {
	if l.quiet && style != StyleWarning && style != StyleError {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.json {
		l.events = append(l.events, Event{
			Level:   string(style),
			Message: msg,
			Time:    time.Now().UTC(),
		})
		return
	}

	styleColor := Cyan
	switch style {
	case StyleInfo:
		styleColor = Cyan
	case StyleSuccess:
		styleColor = Green
	case StyleWarning:
		styleColor = Yellow
	case StyleError:
		styleColor = Red
	case StyleDim:
		styleColor = Dim
	case StylePhase:
		styleColor = Magenta + Bold
	}

	// Clear any in-progress status line first.
	if l.isTTY {
		fmt.Fprint(l.out, "\r"+strings.Repeat(" ", 100)+"\r")
	}

	tag := fmt.Sprintf("%s[%s%saifix%s%s]%s",
		Color(Dim), Color(Reset), Color(styleColor), Color(Reset), Color(Dim), Color(Reset))
	fmt.Fprintf(l.out, "%s %s\n", tag, msg)
}

// Logf prints a formatted styled log message.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) {
	l.Logf(StyleInfo, format, args...)
}

// Success logs at success level.
func (l *Logger) Success(format string, args ...any) {
	l.Logf(StyleSuccess, format, args...)
}

// Warning logs at warning level.
func (l *Logger) Warning(format string, args ...any) {
	l.Logf(StyleWarning, format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) {
	l.Logf(StyleError, format, args...)
}

// Phase logs a phase transition header.
func (l *Logger) Phase(format string, args ...any) {
	l.Logf(StylePhase, format, args...)
}

// Debug logs only when verbose is enabled.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.Logf(StyleDim, format, args...)
}

// Events returns the buffered structured events collected in JSON mode.
func (l *Logger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// FlushJSON writes the buffered events as a JSON array to w and clears
// the buffer. No-op outside JSON mode.
func (l *Logger) FlushJSON(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.json {
		return nil
	}
	events := l.events
	if events == nil {
		events = []Event{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("flushing log events: %w", err)
	}
	l.events = nil
	return nil
}
