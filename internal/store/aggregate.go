package store

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
)

// Subset restricts aggregate queries to caller-chosen ids. Hidden, when set,
// excludes ids the caller has hidden. A nil *Subset means the whole catalog.
type Subset struct {
	IDs    []int
	Hidden func(id int) bool
}

// Count is a name with its occurrence count
type Count struct {
	Name  string
	Count int
}

// TagScore is a tag with its accumulated weighted score
type TagScore struct {
	Tag   string
	Score float64
}

// TagScoreOptions controls weighted tag scoring
type TagScoreOptions struct {
	WeightFactor  float64 // score of the top-ranked tag; <= 1 scores every tag 1.0
	TagsPerGame   int     // tags taken per entry in rank order; 0 = all
	MinScore      float64 // totals below this are dropped
	ExcludeGenres bool    // drop tags that are also known genres
	SortByScore   bool    // descending score instead of alphabetical
}

// === Vocabularies ===

// AllFlags returns every distinct flag in scope, case-insensitively deduplicated and sorted
func (s *Store) AllFlags(subset *Subset) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := newFoldSet()
	for _, e := range s.scopeLocked(subset) {
		set.add(e.Flags...)
	}
	return set.sorted()
}

// AllGenres returns every distinct genre in scope
func (s *Store) AllGenres(subset *Subset) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := newFoldSet()
	for _, e := range s.scopeLocked(subset) {
		set.add(e.Genres...)
	}
	return set.sorted()
}

// AllLanguages returns the distinct languages of each support list in scope
func (s *Store) AllLanguages(subset *Subset) domain.LanguageSupport {
	s.mu.Lock()
	defer s.mu.Unlock()

	audio, iface, subs := newFoldSet(), newFoldSet(), newFoldSet()
	for _, e := range s.scopeLocked(subset) {
		audio.add(e.LanguageSupport.FullAudio...)
		iface.add(e.LanguageSupport.Interface...)
		subs.add(e.LanguageSupport.Subtitles...)
	}
	return domain.LanguageSupport{
		FullAudio: audio.sorted(),
		Interface: iface.sorted(),
		Subtitles: subs.sorted(),
	}
}

// AllVRSupport returns the distinct VR hardware of each list in scope
func (s *Store) AllVRSupport(subset *Subset) domain.VRSupport {
	s.mu.Lock()
	defer s.mu.Unlock()

	headsets, input, area := newFoldSet(), newFoldSet(), newFoldSet()
	for _, e := range s.scopeLocked(subset) {
		headsets.add(e.VRSupport.Headsets...)
		input.add(e.VRSupport.Input...)
		area.add(e.VRSupport.PlayArea...)
	}
	return domain.VRSupport{
		Headsets: headsets.sorted(),
		Input:    input.sorted(),
		PlayArea: area.sorted(),
	}
}

// === Frequencies ===

// DeveloperCounts counts, per developer, the entries in scope crediting it.
// Names counted fewer than minCount times are omitted.
func (s *Store) DeveloperCounts(subset *Subset, minCount int) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(subset, minCount, AttrDevelopers.pick)
}

// PublisherCounts is DeveloperCounts for publishers
func (s *Store) PublisherCounts(subset *Subset, minCount int) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(subset, minCount, AttrPublishers.pick)
}

// SortedDevelopers returns DeveloperCounts ordered by count, then name
func (s *Store) SortedDevelopers(subset *Subset, minCount int) []Count {
	return sortCounts(s.DeveloperCounts(subset, minCount))
}

// SortedPublishers returns PublisherCounts ordered by count, then name
func (s *Store) SortedPublishers(subset *Subset, minCount int) []Count {
	return sortCounts(s.PublisherCounts(subset, minCount))
}

func (s *Store) countLocked(subset *Subset, minCount int, pick func(*domain.Entry) []string) map[string]int {
	counts := make(map[string]int)
	for _, e := range s.scopeLocked(subset) {
		seen := make(map[string]bool)
		for _, name := range pick(e) {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			counts[name]++
		}
	}
	for name, n := range counts {
		if n < minCount {
			delete(counts, name)
		}
	}
	return counts
}

// TagScores accumulates rank-weighted tag scores over the entries in scope.
//
// For each entry the first k tags (k = min(TagsPerGame, len) or len) are
// scored by linear interpolation from WeightFactor at rank 0 down to 1.0 at
// rank k-1. A single selected tag scores WeightFactor.
func (s *Store) TagScores(subset *Subset, opts TagScoreOptions) []TagScore {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]float64)
	for _, e := range s.scopeLocked(subset) {
		k := len(e.Tags)
		if opts.TagsPerGame > 0 && opts.TagsPerGame < k {
			k = opts.TagsPerGame
		}
		for i := 0; i < k; i++ {
			totals[e.Tags[i]] += TagWeight(opts.WeightFactor, i, k)
		}
	}

	if opts.ExcludeGenres {
		genres := s.genreVocabularyLocked()
		for tag := range totals {
			if genres.has(tag) {
				delete(totals, tag)
			}
		}
	}

	scores := make([]TagScore, 0, len(totals))
	for tag, score := range totals {
		if score < opts.MinScore {
			continue
		}
		scores = append(scores, TagScore{Tag: tag, Score: score})
	}

	if opts.SortByScore {
		slices.SortFunc(scores, func(a, b TagScore) int {
			if c := cmp.Compare(b.Score, a.Score); c != 0 {
				return c
			}
			return strings.Compare(a.Tag, b.Tag)
		})
	} else {
		slices.SortFunc(scores, func(a, b TagScore) int {
			return strings.Compare(a.Tag, b.Tag)
		})
	}
	return scores
}

// TagWeight is the score of the tag at 0-based rank i out of k selected tags
func TagWeight(weightFactor float64, i, k int) float64 {
	if weightFactor <= 1 {
		return 1
	}
	if k <= 1 {
		return weightFactor
	}
	t := float64(i) / float64(k-1)
	return (1-t)*weightFactor + t
}

// === Scope ===

// scopeLocked returns the entries a query covers, ordered by id for the
// whole catalog or in subset order otherwise.
func (s *Store) scopeLocked(subset *Subset) []*domain.Entry {
	if subset == nil {
		out := make([]*domain.Entry, 0, len(s.games))
		for _, id := range s.sortedIDsLocked() {
			out = append(out, s.games[id])
		}
		return out
	}

	out := make([]*domain.Entry, 0, len(subset.IDs))
	seen := make(map[int]bool, len(subset.IDs))
	for _, id := range subset.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, ok := s.games[id]
		if !ok {
			continue
		}
		if subset.Hidden != nil && subset.Hidden(id) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *Store) genreVocabularyLocked() foldSet {
	set := newFoldSet()
	for _, e := range s.games {
		set.add(e.Genres...)
	}
	return set
}

// foldSet is a case-insensitive string set that keeps the first spelling seen
type foldSet struct {
	items map[string]string
}

func newFoldSet() foldSet {
	return foldSet{items: make(map[string]string)}
}

func (f foldSet) add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := f.items[key]; !ok {
			f.items[key] = v
		}
	}
}

func (f foldSet) has(v string) bool {
	_, ok := f.items[strings.ToLower(v)]
	return ok
}

func (f foldSet) sorted() []string {
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = f.items[k]
	}
	return out
}

func sortCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
