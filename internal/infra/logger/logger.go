package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

type sink struct {
	mu      sync.Mutex
	file    *log.Logger
	console io.Writer
}

type Logger struct {
	out       *sink
	level     Level
	component string
}

// New logs to filePath (skipped when empty) and, when includeStdout is set,
// echoes Info and above to stdout.
func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	s := &sink{}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		s.file = log.New(f, "", 0)
	}

	if includeStdout {
		s.console = os.Stdout
	}

	return &Logger{out: s, level: level}, nil
}

// NewWriter logs every line at or above level to w.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{out: &sink{file: log.New(w, "", 0)}, level: level}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{out: &sink{}, level: LevelFatal + 1}
}

// Named returns a logger sharing the same outputs that tags each line with component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{out: l.out, level: l.level, component: component}
}

// SetConsole redirects the stdout echo, e.g. to stderr while a progress display owns stdout.
func (l *Logger) SetConsole(w io.Writer) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.console = w
}

func (l *Logger) log(lvl Level, prefix string, format string, v ...interface{}) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	fullMsg := fmt.Sprintf("%s [%s] %s", timestamp, prefix, msg)
	if l.component != "" {
		fullMsg = fmt.Sprintf("%s [%s] [%s] %s", timestamp, prefix, l.component, msg)
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file != nil {
		l.out.file.Println(fullMsg)
	}

	// Debug stays out of the console so it cannot break progress rendering
	if l.out.console != nil && lvl >= LevelInfo {
		fmt.Fprintf(l.out.console, "%s\n", fullMsg)
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, "DEBUG", f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, "INFO", f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, "WARN", f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, "ERROR", f, v...) }
func (l *Logger) Fatal(f string, v ...any) { l.log(LevelFatal, "FATAL", f, v...); os.Exit(1) }

func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}
