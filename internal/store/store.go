// Package store holds the in-memory catalog metadata database.
//
// Every exported method takes the store mutex for its whole duration. The
// mutex is not reentrant: callers must never invoke Store methods from inside
// an Update callback, and resolver helpers only ever call the *Locked variants.
package store

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// DefaultDepth is the parent-chain hop budget used by the resolver
const DefaultDepth = 3

// Config controls persistence and resolution
type Config struct {
	Path   string // snapshot file; empty = memory-only
	Pretty bool   // indent the snapshot JSON
	Depth  int    // resolver hop budget; <= 0 uses DefaultDepth
}

// Store is the keyed catalog of entries guarded by a single mutex.
type Store struct {
	mu          sync.Mutex
	games       map[int]*domain.Entry
	language    domain.Language
	lastUpdated int64

	path   string
	pretty bool
	depth  int
	logger *slog.Logger
	now    func() time.Time
}

// New creates an empty store. Nothing is read from disk until Load.
func New(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	depth := cfg.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Store{
		games:    make(map[int]*domain.Entry),
		language: domain.DefaultLanguage,
		path:     cfg.Path,
		pretty:   cfg.Pretty,
		depth:    depth,
		logger:   logger,
		now:      time.Now,
	}
}

// Path returns the snapshot file path (empty in memory-only mode)
func (s *Store) Path() string {
	return s.path
}

// Language returns the active store language
func (s *Store) Language() domain.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// LastUpdated returns the Unix time of the last successful Save or Load
func (s *Store) LastUpdated() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// Reset replaces the whole catalog with an empty one in the given language
func (s *Store) Reset(lang domain.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = make(map[int]*domain.Entry)
	s.language = lang
	s.lastUpdated = 0
}

// === CRUD ===

// Add inserts a copy of entry. An entry with an existing id is merged into
// the stored one instead of replacing it.
func (s *Store) Add(entry *domain.Entry) error {
	if entry == nil || entry.ID <= 0 {
		return domain.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.games[entry.ID]; ok {
		existing.Merge(entry)
		return nil
	}
	s.games[entry.ID] = entry.Clone()
	return nil
}

// Update runs fn on the entry for id under the store lock, creating a bare
// entry first if needed. fn must not call back into the Store.
func (s *Store) Update(id int, fn func(e *domain.Entry)) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.getOrCreateLocked(id)
	fn(e)
	e.ID = id
	return nil
}

// Remove deletes id. References to it from other entries are left dangling.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return false
	}
	delete(s.games, id)
	return true
}

// Contains reports whether id is in the catalog
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.games[id]
	return ok
}

// Get returns a copy of the entry for id
func (s *Store) Get(id int) (*domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Count returns the number of entries
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// Values returns copies of all entries ordered by id.
// The result is safe to use while other goroutines mutate the store.
func (s *Store) Values() []*domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Entry, 0, len(s.games))
	for _, id := range s.sortedIDsLocked() {
		out = append(out, s.games[id].Clone())
	}
	return out
}

// IDs returns all ids in ascending order
func (s *Store) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedIDsLocked()
}

// === Identity lookups (no parent fallback) ===

func (s *Store) Name(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.games[id]; ok {
		return e.Name
	}
	return ""
}

func (s *Store) AppType(id int) domain.AppType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.games[id]; ok {
		return e.AppType
	}
	return domain.AppTypeUnknown
}

func (s *Store) Platforms(id int) domain.Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.games[id]; ok {
		return e.Platforms
	}
	return domain.PlatformNone
}

// === Freshness ===

// IsStale returns true if id exists and its store data was never scraped or
// is older than maxAge
func (s *Store) IsStale(id int, maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[id]
	if !ok {
		return false
	}
	return s.isStaleLocked(e, maxAge)
}

// StaleIDs lists entries in scope whose store data needs a refresh
func (s *Store) StaleIDs(maxAge time.Duration, subset *Subset) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int
	for _, e := range s.scopeLocked(subset) {
		if s.isStaleLocked(e, maxAge) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (s *Store) isStaleLocked(e *domain.Entry, maxAge time.Duration) bool {
	if e.LastStoreScrape <= 0 {
		return true
	}
	return s.now().Unix()-e.LastStoreScrape > int64(maxAge/time.Second)
}

// === Locked helpers ===

func (s *Store) getOrCreateLocked(id int) *domain.Entry {
	e, ok := s.games[id]
	if !ok {
		e = domain.NewEntry(id)
		s.games[id] = e
	}
	return e
}

func (s *Store) sortedIDsLocked() []int {
	ids := make([]int, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
