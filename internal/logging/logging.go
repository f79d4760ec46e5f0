// Package logging provides the leveled, colored logger used across yapenv.
//
// The level is taken from the LOG_LEVEL environment variable (DEBUG, INFO,
// WARN, ERROR; default INFO). Colors are disabled when NO_COLOR is set or
// when stderr is not a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Level is a log severity.
type Level int

// Log severities, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel reads a level name, defaulting to INFO.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR", "CRITICAL":
		return LevelError
	default:
		return LevelInfo
	}
}

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBD2E")),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")),
}

var prefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

// Logger writes timestamped, level-tagged lines.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	color bool
}

// New creates a logger writing to out.
func New(out io.Writer, level Level, color bool) *Logger {
	return &Logger{out: out, level: level, color: color}
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Default returns the process-wide logger, built once from the environment.
func Default() *Logger {
	defaultOnce.Do(func() {
		color := os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stderr.Fd()))
		defaultLogger = New(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")), color)
	})
	return defaultLogger
}

// SetLevel adjusts the minimum severity that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Debugf logs at DEBUG level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at INFO level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at WARNING level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at ERROR level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	prefix := fmt.Sprintf("[%s][yapenv]", time.Now().Format("15:04:05"))
	tag := fmt.Sprintf("[%8s]", level.String())
	if l.color {
		prefix = prefixStyle.Render(prefix)
		tag = levelStyles[level].Render(tag)
	}
	fmt.Fprintf(l.out, "%s%s %s\n", prefix, tag, fmt.Sprintf(format, args...))
}
