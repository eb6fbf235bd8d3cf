// Package directive reads and writes the operator control file that steers
// the monitoring loop between cycles.
package directive

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Directive is the operator-editable loop configuration.
type Directive struct {
	Location string `json:"location"`
}

// File is a JSON control file on disk. Reads tolerate a missing or corrupt
// file by falling back to the default directive; writes go through a temp
// file and rename so a concurrent reader never sees a partial document.
type File struct {
	mu       sync.Mutex
	path     string
	fallback Directive
	logger   *slog.Logger
}

func NewFile(path string, fallback Directive, logger *slog.Logger) *File {
	return &File{path: path, fallback: fallback, logger: logger}
}

// Read returns the current directive, or the fallback when the file is
// missing or unreadable. It never returns an error; a broken control file
// must not stop the loop.
func (f *File) Read() Directive {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("control file unreadable, using defaults", "path", f.path, "error", err)
		}
		return f.fallback
	}

	var d Directive
	if err := json.Unmarshal(data, &d); err != nil {
		f.logger.Warn("control file corrupt, using defaults", "path", f.path, "error", err)
		return f.fallback
	}
	if d.Location == "" {
		d.Location = f.fallback.Location
	}
	return d
}

// Write atomically replaces the control file.
func (f *File) Write(d Directive) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding control file: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp control file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp control file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp control file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing control file: %w", err)
	}
	return nil
}
