package search

import (
	"strings"
	"unicode"
)

// Item is a searchable catalog name
type Item struct {
	ID   int
	Name string
}

// Index implements sahilm/fuzzy.Source over catalog names
type Index struct {
	items []Item
	lower []string // Pre-computed lowercase names, rune-aligned with Name
}

// NewIndex builds an index; items with blank names are left out
func NewIndex(items []Item) *Index {
	idx := &Index{
		items: make([]Item, 0, len(items)),
		lower: make([]string, 0, len(items)),
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		idx.items = append(idx.items, it)
		idx.lower = append(idx.lower, strings.Map(unicode.ToLower, it.Name))
	}
	return idx
}

// String returns the lowercase name at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lower[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Item returns the item at index i
func (idx *Index) Item(i int) Item { return idx.items[i] }

// runePositions converts byte offsets into the lowercase name at i to rune
// positions in the displayed name.
func (idx *Index) runePositions(i int, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	byRune := make(map[int]int, len(idx.lower[i]))
	n := 0
	for b := range idx.lower[i] {
		byRune[b] = n
		n++
	}
	out := make([]int, 0, len(offsets))
	for _, off := range offsets {
		if r, ok := byRune[off]; ok {
			out = append(out, r)
		}
	}
	return out
}
