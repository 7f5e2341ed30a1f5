package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("journal record not found")

// Journal stores run records as JSON files in a directory.
type Journal struct {
	dir string
	mu  sync.Mutex
}

// New returns a Journal rooted at dir.
// The directory is not created until EnsureDir is called.
func New(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("journal directory cannot be empty")
	}
	return &Journal{dir: dir}, nil
}

// Dir returns the journal directory.
func (j *Journal) Dir() string {
	return j.dir
}

// EnsureDir creates the journal directory if it does not exist.
func (j *Journal) EnsureDir() error {
	return os.MkdirAll(j.dir, 0o755)
}

// Record persists run and returns the stored record.
func (j *Journal) Record(run Run) (*Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec := &Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Operation: run.Operation,
		Source:    run.Source,
		Target:    run.Target,
		Algorithm: run.Algorithm,
		Excludes:  run.Excludes,
		Summary:   run.Summary,
		ElapsedMS: run.Elapsed.Milliseconds(),
	}

	if err := j.write(rec); err != nil {
		return nil, fmt.Errorf("failed to write journal record: %w", err)
	}
	return rec, nil
}

func (j *Journal) write(rec *Record) error {
	path := filepath.Join(j.dir, rec.ID+".json")

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// List returns records newest first. A non-positive limit returns all of
// them. A missing journal directory is an empty journal.
func (j *Journal) List(limit int) ([]Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.readAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(a, b int) bool {
		return records[a].Timestamp.After(records[b].Timestamp)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get returns the record with the given ID. A unique ID prefix also matches.
func (j *Journal) Get(id string) (*Record, error) {
	if id == "" {
		return nil, errors.New("record ID cannot be empty")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	records, err := j.readAll()
	if err != nil {
		return nil, err
	}

	var match *Record
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
		if strings.HasPrefix(records[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous record ID prefix %q", id)
			}
			match = &records[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Cleanup removes records older than retentionDays and returns how many were
// removed. A non-positive retention keeps everything.
func (j *Journal) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	files, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read journal directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		rec, err := j.readFile(f.Name())
		if err != nil {
			continue
		}
		if rec.Timestamp.Before(cutoff) {
			if err := os.Remove(filepath.Join(j.dir, f.Name())); err != nil {
				continue
			}
			removed++
		}
	}
	return removed, nil
}

// readAll parses every record in the directory, skipping unreadable files.
func (j *Journal) readAll() ([]Record, error) {
	files, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	records := make([]Record, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		rec, err := j.readFile(f.Name())
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (j *Journal) readFile(name string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(j.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}
