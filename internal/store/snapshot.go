package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmcdole/shelf/internal/domain"
)

// snapshotVersion is the on-disk format version written by Save.
// Files without a version field are read as version 1.
const snapshotVersion = 1

// staleScrape marks entries whose localized data must be scraped again.
// It is older than any real scrape but distinct from 0 ("never scraped").
const staleScrape int64 = 1

// snapshot is the on-disk shape of the whole store
type snapshot struct {
	Version     int                   `json:"version"`
	Language    domain.Language       `json:"language"`
	LastUpdated int64                 `json:"lastUpdated"`
	Games       map[int]*domain.Entry `json:"games"`
}

// Load replaces the store contents with the snapshot file. A missing file
// leaves an empty store; an unreadable one returns ErrSnapshotCorrupt.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil // Memory-only mode
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("no catalog snapshot, starting empty", "path", s.path)
		s.games = make(map[int]*domain.Entry)
		s.lastUpdated = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("read catalog snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSnapshotCorrupt, s.path, err)
	}
	if snap.Version == 0 && snap.Games == nil {
		return fmt.Errorf("%w: %s: no games", domain.ErrSnapshotCorrupt, s.path)
	}
	if snap.Version > snapshotVersion {
		return fmt.Errorf("%w: %d", domain.ErrSnapshotVersion, snap.Version)
	}

	lang := s.language
	if snap.Language != "" {
		lang, err = domain.ParseLanguage(string(snap.Language))
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err)
		}
	}

	games := make(map[int]*domain.Entry, len(snap.Games))
	for id, e := range snap.Games {
		if id <= 0 || e == nil {
			s.logger.Warn("dropping invalid snapshot entry", "id", id)
			continue
		}
		if e.ID != id {
			s.logger.Warn("snapshot entry id mismatch, using key", "key", id, "id", e.ID)
			e.ID = id
		}
		games[id] = e
	}

	s.games = games
	s.language = lang
	s.lastUpdated = snap.LastUpdated
	s.logger.Info("loaded catalog snapshot", "path", s.path, "count", len(games), "language", lang)
	return nil
}

// Save writes the whole store to the snapshot file. The lock is held across
// the write so the file is a consistent view.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// ChangeLanguage switches the store language. When it differs from the
// current one, every entry loses its localized fields, is marked for a new
// store scrape and the store is saved. Identity fields are kept.
func (s *Store) ChangeLanguage(lang domain.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lang == s.language {
		return nil
	}

	s.language = lang
	for id, e := range s.games {
		if id <= 0 {
			continue
		}
		e.ClearLocalized()
		e.LastStoreScrape = staleScrape
	}
	s.logger.Info("changed store language", "language", lang, "count", len(s.games))

	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil // Memory-only mode
	}

	updated := s.now().Unix()
	snap := snapshot{
		Version:     snapshotVersion,
		Language:    s.language,
		LastUpdated: updated,
		Games:       s.games,
	}

	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = json.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write catalog snapshot: %w", err)
	}

	s.lastUpdated = updated
	s.logger.Debug("saved catalog snapshot", "path", s.path, "count", len(s.games), "bytes", len(data))
	return nil
}

// writeFileAtomic writes data to a temp file beside path and renames it over path
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
