package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	commandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5A623"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

// Logger echoes commands to the console and appends timestamped lines to an
// optional log file so a run can be inspected after the terminal scrolls away.
type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	now     func() time.Time
}

// Option customizes a Logger.
type Option func(*Logger)

// WithConsole sets where commands and messages are echoed. A nil writer
// silences the console.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		l.console = w
	}
}

// WithClock overrides the timestamp source (tests).
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		if clock != nil {
			l.now = clock
		}
	}
}

// New creates a logger echoing to stdout. When path is non-empty the log file
// is created (or appended to).
func New(path string, opts ...Option) (*Logger, error) {
	l := &Logger{console: os.Stdout, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if strings.TrimSpace(path) == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	l.file = f
	return l, nil
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return &Logger{now: time.Now}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Command echoes the shell equivalent of an external invocation.
func (l *Logger) Command(dir string, argv []string) {
	if l == nil {
		return
	}
	line := strings.Join(argv, " ")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.console != nil {
		prefix := promptStyle.Render("$")
		if dir != "" {
			prefix = dirStyle.Render("("+dir+")") + " " + prefix
		}
		fmt.Fprintf(l.console, "%s %s\n", prefix, commandStyle.Render(line))
	}
	l.writeFile(LevelInfo, "exec ["+dir+"] "+line)
}

// Append writes a single entry at the given level.
func (l *Logger) Append(level Level, message string) {
	if l == nil {
		return
	}
	message = strings.TrimRight(message, "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.console != nil {
		switch level {
		case LevelWarn:
			fmt.Fprintln(l.console, warnStyle.Render("warning: "+message))
		case LevelError:
			fmt.Fprintln(l.console, errorStyle.Render("error: "+message))
		default:
			fmt.Fprintln(l.console, message)
		}
	}
	l.writeFile(level, message)
}

// Info appends an informational entry.
func (l *Logger) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logger) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logger) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Printf writes a single timestamped line to the log file only.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeFile(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) writeFile(level Level, message string) {
	if l.file == nil {
		return
	}
	timestamp := l.now().UTC().Format(time.RFC3339)
	fmt.Fprintf(l.file, "%s %-5s %s\n", timestamp, string(level), strings.TrimSpace(message))
}
