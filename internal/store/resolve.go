package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// Attribute selects a list field for parent-chain resolution
type Attribute int

const (
	AttrTags Attribute = iota
	AttrGenres
	AttrFlags
	AttrDevelopers
	AttrPublishers
)

func (a Attribute) pick(e *domain.Entry) []string {
	switch a {
	case AttrTags:
		return e.Tags
	case AttrGenres:
		return e.Genres
	case AttrFlags:
		return e.Flags
	case AttrDevelopers:
		return e.Developers
	case AttrPublishers:
		return e.Publishers
	default:
		return nil
	}
}

// Resolve returns attr for id, walking at most depth ParentID hops while the
// value is empty. The first non-empty list wins whole; lists are never
// combined across the chain. Unknown ids resolve to nil.
func (s *Store) Resolve(id int, attr Attribute, depth int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(s.resolveLocked(id, depth, attr.pick))
}

func (s *Store) Tags(id int) []string {
	return s.Resolve(id, AttrTags, s.depth)
}

func (s *Store) Flags(id int) []string {
	return s.Resolve(id, AttrFlags, s.depth)
}

func (s *Store) Developers(id int) []string {
	return s.Resolve(id, AttrDevelopers, s.depth)
}

func (s *Store) Publishers(id int) []string {
	return s.Resolve(id, AttrPublishers, s.depth)
}

// Genres resolves genres for id. With tagFallback, an item without genres
// anywhere on its chain uses its resolved tags that are also known genres.
func (s *Store) Genres(id int, tagFallback bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	genres := s.resolveLocked(id, s.depth, AttrGenres.pick)
	if len(genres) > 0 || !tagFallback {
		return cloneList(genres)
	}

	tags := s.resolveLocked(id, s.depth, AttrTags.pick)
	if len(tags) == 0 {
		return nil
	}

	known := s.genreVocabularyLocked()
	var out []string
	for _, tag := range tags {
		if known.has(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// SupportsVR reports whether id, or the nearest ancestor within the hop
// budget that has VR data, lists any headset, input or play area.
func (s *Store) SupportsVR(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.resolveEntryLocked(id, s.depth, func(e *domain.Entry) bool {
		return !e.VRSupport.IsEmpty()
	})
	return e != nil
}

// ReleaseYear parses the entry's own release date. No parent fallback;
// unknown ids and unparseable dates yield 0.
func (s *Store) ReleaseYear(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.games[id]
	if !ok {
		return 0
	}
	return ParseReleaseYear(e.SteamReleaseDate)
}

// resolveLocked is bounded by depth, so reference cycles terminate.
func (s *Store) resolveLocked(id, depth int, pick func(*domain.Entry) []string) []string {
	e := s.resolveEntryLocked(id, depth, func(e *domain.Entry) bool {
		return len(pick(e)) > 0
	})
	if e == nil {
		return nil
	}
	return pick(e)
}

func (s *Store) resolveEntryLocked(id, depth int, found func(*domain.Entry) bool) *domain.Entry {
	for {
		e, ok := s.games[id]
		if !ok {
			return nil
		}
		if found(e) {
			return e
		}
		if depth <= 0 || e.ParentID <= 0 {
			return nil
		}
		id = e.ParentID
		depth--
	}
}

// Steam renders release dates in many locale-dependent shapes
var releaseDateLayouts = []string{
	"2 Jan, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2 January, 2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2006/01/02",
	"2006年1月2日",
	"2006",
}

// ParseReleaseYear extracts the year from a store release date, or 0
func ParseReleaseYear(date string) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year()
		}
	}
	// "Q3 2019", "Spring 2020"
	fields := strings.Fields(date)
	if len(fields) == 2 {
		if year, err := strconv.Atoi(fields[1]); err == nil && year >= 1970 && year <= 9999 {
			return year
		}
	}
	return 0
}

func cloneList(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}
