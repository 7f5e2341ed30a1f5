// Package logging provides component loggers for the inventory tool, backed
// by charmbracelet/log and a size-rotated log file.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("walker").Info("walk started", "root", root)
//
// Before Init is called every logger discards its output.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level is a logging threshold.
type Level = log.Level

// Supported levels.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// ErrInvalidLevel is returned for an unrecognised level name.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel accepts debug, info, warn (or warning) and error, in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Config configures the logging system.
type Config struct {
	// Level is the default threshold for every component.
	Level string

	// Path is the log file. Empty uses DefaultLogPath().
	Path string

	Rotation RotationConfig

	// Components overrides Level per component name.
	Components map[string]string

	// ConsoleLevel mirrors records at or above this level to stderr.
	// Empty keeps the console quiet.
	ConsoleLevel string

	// NoFile skips the log file entirely; only the console sink, if any,
	// receives records. Nothing is created on disk.
	NoFile bool
}

// Logger is a component logger. Every record goes to the log file and, when
// console output is enabled, to stderr.
type Logger struct {
	component string
	sinks     []*log.Logger
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, kv ...any) { l.emit(LevelDebug, msg, kv) }

// Info logs at info level.
func (l *Logger) Info(msg string, kv ...any) { l.emit(LevelInfo, msg, kv) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, kv ...any) { l.emit(LevelWarn, msg, kv) }

// Error logs at error level.
func (l *Logger) Error(msg string, kv ...any) { l.emit(LevelError, msg, kv) }

func (l *Logger) emit(level Level, msg string, kv []any) {
	for _, s := range l.sinks {
		s.Log(level, msg, kv...)
	}
}

// With returns a child logger that adds kv to every record.
func (l *Logger) With(kv ...any) *Logger {
	child := &Logger{component: l.component, sinks: make([]*log.Logger, len(l.sinks))}
	for i, s := range l.sinks {
		child.sinks[i] = s.With(kv...)
	}
	return child
}

// settings is the parsed form of Config held while logging is active.
type settings struct {
	level      Level
	components map[string]Level
	console    *Level
	file       *RotatingWriter
}

func (s *settings) levelFor(component string) Level {
	if lvl, ok := s.components[component]; ok {
		return lvl
	}
	return s.level
}

var (
	mu      sync.RWMutex
	active  *settings
	loggers = map[string]*Logger{}

	// stderr is swapped by tests.
	stderr io.Writer = os.Stderr
)

func parse(cfg Config) (*settings, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	s := &settings{level: level, components: make(map[string]Level, len(cfg.Components))}
	for comp, name := range cfg.Components {
		lvl, err := ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		s.components[comp] = lvl
	}
	if cfg.ConsoleLevel != "" {
		lvl, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return nil, fmt.Errorf("parsing console level: %w", err)
		}
		s.console = &lvl
	}
	return s, nil
}

// Init opens the log file and points every logger at it. Calling Init again
// replaces the previous configuration.
func Init(cfg Config) error {
	s, err := parse(cfg)
	if err != nil {
		return err
	}

	if !cfg.NoFile {
		path := cfg.Path
		if path == "" {
			path = DefaultLogPath()
		}
		file, err := NewRotatingWriter(path, cfg.Rotation)
		if err != nil {
			return fmt.Errorf("creating log writer: %w", err)
		}
		s.file = file
	}

	mu.Lock()
	defer mu.Unlock()

	prev := active
	active = s
	rebuild()

	if prev != nil && prev.file != nil {
		if err := prev.file.Close(); err != nil {
			return fmt.Errorf("closing previous log file: %w", err)
		}
	}
	return nil
}

// Get returns the logger for component, creating it on first use. Loggers
// are updated in place by Init and Close, so package-level loggers obtained
// early start writing once Init runs.
func Get(component string) *Logger {
	mu.RLock()
	l, ok := loggers[component]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[component]; ok {
		return l
	}
	l = &Logger{component: component}
	configure(l)
	loggers[component] = l
	return l
}

// rebuild must be called with mu held.
func rebuild() {
	for _, l := range loggers {
		configure(l)
	}
}

// configure must be called with mu held.
func configure(l *Logger) {
	if active == nil {
		l.sinks = nil
		return
	}

	l.sinks = nil
	if active.file != nil {
		l.sinks = append(l.sinks, log.NewWithOptions(active.file, log.Options{
			Level:           active.levelFor(l.component),
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          l.component,
		}))
	}
	if active.console != nil {
		l.sinks = append(l.sinks, log.NewWithOptions(stderr, log.Options{
			Level:           *active.console,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          l.component,
		}))
	}
}

// Close closes the log file. Loggers discard their output afterwards.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if active == nil {
		return nil
	}
	file := active.file
	active = nil
	rebuild()

	if file == nil {
		return nil
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// DefaultLogPath returns $XDG_STATE_HOME/inventory/inventory.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "inventory", "inventory.log")
}

// DefaultConfig returns the logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}
