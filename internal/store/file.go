package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no records exist for a given city.
var ErrNotFound = errors.New("no records for city")

// FileStore is an append-only record log backed by a single JSON array file.
// The file is rewritten whole on every append, via a temporary file renamed
// into place, so an external reader never observes a partial write.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
}

// NewFileStore opens a store at path. The file does not need to exist yet.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// load reads the whole file. A missing, empty, or corrupt file is treated as
// an empty store rather than an error: the log starts fresh.
func (s *FileStore) load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("memory store unreadable, starting fresh", "path", s.path, "error", err)
		}
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("memory store corrupt, starting fresh", "path", s.path, "error", err)
		return nil
	}
	return records
}

// write persists the full record slice atomically: write to a temp file in
// the same directory, then rename over the store path.
func (s *FileStore) write(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Append adds a completed record to the end of the log.
func (s *FileStore) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.load(), rec)
	return s.write(records)
}

// All returns every record in append order.
func (s *FileStore) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Len returns the number of records currently in the store.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.load())
}

// ByCity returns all records whose city matches, case-insensitively, in
// append order.
func (s *FileStore) ByCity(city string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.load() {
		if strings.EqualFold(rec.City, city) {
			out = append(out, rec)
		}
	}
	return out
}

// RecentByCity returns up to n most recent records for a city, oldest first.
func (s *FileStore) RecentByCity(city string, n int) []Record {
	matched := s.ByCity(city)
	if len(matched) > n {
		matched = matched[len(matched)-n:]
	}
	return matched
}

// LatestByCity returns the most recent record for a city.
func (s *FileStore) LatestByCity(city string) (Record, error) {
	matched := s.ByCity(city)
	if len(matched) == 0 {
		return Record{}, ErrNotFound
	}
	return matched[len(matched)-1], nil
}

// Prune drops records beyond the retention limits. maxCount keeps at most
// that many newest records (0 = unlimited); maxAge drops records older than
// the cutoff (0 = unlimited). Returns the number of records removed.
func (s *FileStore) Prune(maxCount int, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records

	if maxAge > 0 {
		cutoff := time.Now().Add(-maxAge)
		i := 0
		for ; i < len(kept); i++ {
			if !kept[i].Timestamp.Before(cutoff) {
				break
			}
		}
		kept = kept[i:]
	}

	if maxCount > 0 && len(kept) > maxCount {
		kept = kept[len(kept)-maxCount:]
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.write(kept); err != nil {
		return 0, err
	}
	return removed, nil
}
