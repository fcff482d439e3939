// Package search provides fuzzy lookups over catalog names and vocabularies.
package search

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Catalog is the read side of the store the index is built from
type Catalog interface {
	IDs() []int
	Name(id int) string
}

// Result is a name match with highlight positions
type Result struct {
	Item
	MatchedIndexes []int // Rune positions in Name that matched
	Score          int   // Higher is better
}

// Service handles fuzzy search across the catalog
type Service struct {
	catalog Catalog
	logger  *slog.Logger

	mu    sync.RWMutex
	index *Index
}

// NewService creates a new search service. The index is empty until Rebuild.
func NewService(catalog Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: catalog,
		logger:  logger,
		index:   NewIndex(nil),
	}
}

// Rebuild re-reads every name from the catalog
func (s *Service) Rebuild() {
	ids := s.catalog.IDs()
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: id, Name: s.catalog.Name(id)})
	}
	idx := NewIndex(items)

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.logger.Debug("rebuilt search index", "count", idx.Len())
}

// Search ranks names against query as a subsequence match. Ties keep the
// shorter name first. limit <= 0 returns every match.
func (s *Service) Search(query string, limit int) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()

	matches := sfuzzy.FindFrom(strings.ToLower(query), idx)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return len(matches[i].Str) < len(matches[j].Str)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Item:           idx.Item(m.Index),
			MatchedIndexes: idx.runePositions(m.Index, m.MatchedIndexes),
			Score:          m.Score,
		}
	}
	return results
}

// Suggest returns names containing every character of query in order,
// closest (by edit distance) first. Used when Search ranks nothing useful.
func (s *Service) Suggest(query string, limit int) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()

	ranks := fuzzy.RankFindNormalizedFold(query, idx.lower)
	sort.Stable(ranks)

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	out := make([]Item, len(ranks))
	for i, r := range ranks {
		out[i] = idx.Item(r.OriginalIndex)
	}
	return out
}

// FilterVocabulary returns the vocabulary terms fuzzily matching query, in
// vocabulary order. An empty query returns the vocabulary unchanged.
func FilterVocabulary(query string, vocab []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return vocab
	}
	return fuzzy.FindNormalizedFold(query, vocab)
}

// ClosestTerm resolves a user-typed term against a vocabulary: an exact
// case-insensitive match wins, otherwise the nearest term within the typo
// allowance for the term length.
func ClosestTerm(term string, vocab []string) (string, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", false
	}
	for _, v := range vocab {
		if strings.EqualFold(v, term) {
			return v, true
		}
	}

	lower := strings.ToLower(term)
	best, bestDist := "", -1
	for _, v := range vocab {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(v))
		if bestDist < 0 || d < bestDist {
			best, bestDist = v, d
		}
	}
	if bestDist < 0 || bestDist > allowedTypos(len([]rune(term))) {
		return "", false
	}
	return best, true
}

// allowedTypos returns the number of typos allowed based on word length:
// 1-3 chars = 0, 4-6 chars = 1, 7+ chars = 2
func allowedTypos(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}
