package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

func newTestService(t *testing.T, names map[int]string) *Service {
	t.Helper()
	s := store.New(store.Config{}, adapter.NullLogger())
	for id, name := range names {
		require.NoError(t, s.Add(&domain.Entry{ID: id, Name: name}))
	}
	svc := NewService(s, adapter.NullLogger())
	svc.Rebuild()
	return svc
}

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, map[int]string{
		400: "Portal",
		620: "Portal 2",
		440: "Team Fortress 2",
		10:  "Counter-Strike",
		5:   "",
	})

	results := svc.Search("portal", 0)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"Portal", "Portal 2"}, names(results))
	assert.Equal(t, 400, results[0].ID)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, results[0].MatchedIndexes)

	assert.Len(t, svc.Search("PORTAL", 1), 1)
	assert.Empty(t, svc.Search("   ", 0))
	assert.Empty(t, svc.Search("zzz", 0))
}

func TestSearchNonASCIIPositions(t *testing.T) {
	svc := newTestService(t, map[int]string{
		587620: "Ōkami HD",
		1:      "Pokémon™ Édition",
	})

	results := svc.Search("hd", 0)
	require.Len(t, results, 1)
	assert.Equal(t, []int{6, 7}, results[0].MatchedIndexes)
	assert.Equal(t, "HD", string([]rune(results[0].Name)[6:8]))

	results = svc.Search("dition", 0)
	require.Len(t, results, 1)
	assert.Equal(t, []int{10, 11, 12, 13, 14, 15}, results[0].MatchedIndexes)
}

func TestSearchBeforeRebuild(t *testing.T) {
	s := store.New(store.Config{}, adapter.NullLogger())
	require.NoError(t, s.Add(&domain.Entry{ID: 1, Name: "Portal"}))

	svc := NewService(s, nil)
	assert.Empty(t, svc.Search("portal", 0))

	svc.Rebuild()
	assert.Len(t, svc.Search("portal", 0), 1)
}

func TestSuggest(t *testing.T) {
	svc := newTestService(t, map[int]string{
		400: "Portal",
		620: "Portal 2",
		10:  "Counter-Strike",
	})

	got := svc.Suggest("portl", 0)
	require.Len(t, got, 2)
	assert.Equal(t, Item{ID: 400, Name: "Portal"}, got[0])
	assert.Equal(t, Item{ID: 620, Name: "Portal 2"}, got[1])

	assert.Len(t, svc.Suggest("portl", 1), 1)
	assert.Nil(t, svc.Suggest("", 0))
}

func TestFilterVocabulary(t *testing.T) {
	vocab := []string{"Action RPG", "Puzzle", "RPG", "Rogue-lite"}

	assert.Equal(t, []string{"Action RPG", "RPG"}, FilterVocabulary("rpg", vocab))
	assert.Equal(t, vocab, FilterVocabulary("", vocab))
	assert.Empty(t, FilterVocabulary("xyz", vocab))
}

func TestClosestTerm(t *testing.T) {
	vocab := []string{"Strategy", "Simulation", "RPG"}

	term, ok := ClosestTerm("strategy", vocab)
	assert.True(t, ok)
	assert.Equal(t, "Strategy", term)

	term, ok = ClosestTerm("Stratgy", vocab)
	assert.True(t, ok)
	assert.Equal(t, "Strategy", term)

	_, ok = ClosestTerm("rpx", vocab)
	assert.False(t, ok)

	_, ok = ClosestTerm("", vocab)
	assert.False(t, ok)

	_, ok = ClosestTerm("anything", nil)
	assert.False(t, ok)
}
