package cleanup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Tracker remembers partially written output files so they can be removed if
// the process is interrupted before they are committed.
type Tracker struct {
	files  map[string]struct{}
	mu     sync.Mutex
	logger *slog.Logger
}

// NewTracker creates a new cleanup tracker. A nil logger uses slog.Default().
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		files:  make(map[string]struct{}),
		logger: logger,
	}
}

// SetLogger replaces the tracker's logger once CLI logging is configured.
func (t *Tracker) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = l
}

// CreateTemp creates a temporary file next to final and registers it.
func (t *Tracker) CreateTemp(final string) (*os.File, error) {
	dir, base := filepath.Split(final)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %q: %w", final, err)
	}
	t.Register(f.Name())
	return f, nil
}

// Commit renames a registered temp file into place and stops tracking it.
func (t *Tracker) Commit(tmp, final string) error {
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("failed to move %q into place: %w", final, err)
	}
	t.Unregister(tmp)
	return nil
}

// Register adds a file path to the cleanup list
func (t *Tracker) Register(path string) {
	if path == "" || path == "-" {
		return // Don't track stdout or empty paths
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[path] = struct{}{}
}

// Unregister removes a file path from the cleanup list
func (t *Tracker) Unregister(path string) {
	if path == "" || path == "-" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, path)
}

// Pending returns a copy of all currently registered files.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	files := make([]string, 0, len(t.files))
	for path := range t.files {
		files = append(files, path)
	}
	return files
}

// Cleanup removes all registered files
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	files := make([]string, 0, len(t.files))
	for path := range t.files {
		files = append(files, path)
	}
	t.files = make(map[string]struct{})
	logger := t.logger
	t.mu.Unlock()

	for _, path := range files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			// Best effort cleanup - errors are non-critical
			logger.Warn("cleanup_failed", "file", path, "error", err)
		}
	}
}
