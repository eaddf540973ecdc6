// Package cache persists fix suggestions keyed by error signature so
// repeated runs skip provider calls for errors already solved.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/richhaase/aifix/internal/domain"
)

// DefaultPath is the cache file location relative to the project root.
const DefaultPath = ".aifix/cache.json"

// DefaultTTL is how long a cached suggestion stays valid.
const DefaultTTL = 168 * time.Hour

// Entry is one cached suggestion with its creation time.
type Entry struct {
	Suggestion domain.FixSuggestion `json:"suggestion"`
	CreatedAt  time.Time            `json:"created_at"`
}

type fileFormat struct {
	Entries map[string]Entry `json:"entries"`
}

// Store is a single-file suggestion cache. One writer per run; the
// last write wins. A corrupt or unreadable file is treated as empty
// and reported through Corrupt, never as a fatal error.
type Store struct {
	path    string
	ttl     time.Duration
	enabled bool
	entries map[string]Entry
	corrupt bool
	now     func() time.Time
}

// Open loads the cache at path. Missing files yield an empty cache;
// corrupt files yield an empty cache with Corrupt set. Expired entries
// are dropped on load.
func Open(path string, ttl time.Duration, enabled bool) *Store {
	if path == "" {
		path = DefaultPath
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		path:    path,
		ttl:     ttl,
		enabled: enabled,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	if !enabled {
		return s
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.corrupt = true
		}
		return s
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		s.corrupt = true
		return s
	}

	cutoff := s.now().Add(-s.ttl)
	for sig, entry := range f.Entries {
		if entry.CreatedAt.After(cutoff) {
			s.entries[sig] = entry
		}
	}
	return s
}

// Corrupt reports whether the cache file existed but could not be
// read. Callers log a warning and proceed with an empty cache.
func (s *Store) Corrupt() bool { return s.corrupt }

// Len returns the number of live entries.
func (s *Store) Len() int { return len(s.entries) }

// Get returns the cached suggestion for a signature if present and
// within TTL.
func (s *Store) Get(signature string) (domain.FixSuggestion, bool) {
	if !s.enabled {
		return domain.FixSuggestion{}, false
	}
	entry, ok := s.entries[signature]
	if !ok {
		return domain.FixSuggestion{}, false
	}
	if s.now().Sub(entry.CreatedAt) > s.ttl {
		delete(s.entries, signature)
		return domain.FixSuggestion{}, false
	}
	return entry.Suggestion, true
}

// Put stores a suggestion under a signature. The change is held in
// memory until Flush.
func (s *Store) Put(signature string, suggestion domain.FixSuggestion) {
	if !s.enabled {
		return
	}
	s.entries[signature] = Entry{Suggestion: suggestion, CreatedAt: s.now()}
}

// Clear removes every entry, in memory and on disk.
func (s *Store) Clear() error {
	s.entries = make(map[string]Entry)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Flush writes the cache to disk, creating the directory if needed.
func (s *Store) Flush() error {
	if !s.enabled {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(fileFormat{Entries: s.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}
