package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// MaxSize is the size in bytes at which the file is rotated.
	MaxSize int64

	// MaxBackups is how many rotated files (inventory.log.1 being the
	// newest) are kept.
	MaxBackups int
}

// DefaultRotationConfig returns 10 MiB files with five backups.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{MaxSize: 10 << 20, MaxBackups: 5}
}

func (c RotationConfig) withDefaults() RotationConfig {
	def := DefaultRotationConfig()
	if c.MaxSize <= 0 {
		c.MaxSize = def.MaxSize
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = def.MaxBackups
	}
	return c
}

// RotatingWriter appends to a log file and shifts it to numbered backups
// once it would grow past MaxSize.
type RotatingWriter struct {
	mu   sync.Mutex
	path string
	cfg  RotationConfig
	f    *os.File
	size int64
}

// NewRotatingWriter opens path for appending, creating parent directories.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	w := &RotatingWriter{path: path, cfg: cfg.withDefaults()}
	if err := w.reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends p. A record never straddles two files.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.shift(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the file. Further writes fail with os.ErrClosed.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotatingWriter) backup(n int) string {
	return w.path + "." + strconv.Itoa(n)
}

// shift renames log.N-1 to log.N down to log to log.1, dropping the oldest.
func (w *RotatingWriter) shift() error {
	if err := w.f.Close(); err != nil {
		return err
	}
	w.f = nil

	_ = os.Remove(w.backup(w.cfg.MaxBackups))
	for n := w.cfg.MaxBackups - 1; n >= 1; n-- {
		if err := os.Rename(w.backup(n), w.backup(n+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := os.Rename(w.path, w.backup(1)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return w.reopen()
}

func (w *RotatingWriter) reopen() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.f, w.size = f, info.Size()
	return nil
}
