package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// LevelFromFlags maps -v / -q counts onto a threshold. Verbose wins.
func LevelFromFlags(verbose bool, quiet int) Level {
	switch {
	case verbose:
		return LevelDebug
	case quiet == 1:
		return LevelWarning
	case quiet >= 2:
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger prints colored, leveled lines. Info lines carry no prefix; every
// other level is prefixed with "[LEVEL]: ".
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// NewLogger creates a logger writing to out at the info threshold
func NewLogger(out io.Writer) *Logger {
	return &Logger{out: out, level: LevelInfo}
}

// Log is the process-wide logger used by commands
var Log = NewLogger(os.Stderr)

// SetLevel changes the minimum level that is printed
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects the logger
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarning, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if level != LevelInfo {
		msg = "[" + level.String() + "]: " + msg
	}
	fmt.Fprintln(l.out, styleFor(level).Render(msg))
}

func styleFor(level Level) lipgloss.Style {
	switch level {
	case LevelDebug:
		return DebugStyle
	case LevelInfo:
		return InfoStyle
	case LevelWarning:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
