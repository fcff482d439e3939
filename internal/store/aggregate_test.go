package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
)

func scoreMap(scores []TagScore) map[string]float64 {
	m := make(map[string]float64, len(scores))
	for _, s := range scores {
		m[s.Tag] = s.Score
	}
	return m
}

func TestVocabularyEmptyStore(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.AllFlags(nil))
	assert.Empty(t, s.AllGenres(nil))
	assert.True(t, s.AllLanguages(nil).IsEmpty())
	assert.True(t, s.AllVRSupport(nil).IsEmpty())
}

func TestVocabularyFoldsCase(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Flags: []string{"A", "b"}},
		&domain.Entry{ID: 2, Flags: []string{"B", "c"}},
	)

	assert.Equal(t, []string{"A", "b", "c"}, s.AllFlags(nil))
}

func TestVocabularyLanguagesAndVR(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{
			ID: 1,
			LanguageSupport: domain.LanguageSupport{
				FullAudio: []string{"English"},
				Interface: []string{"English", "German"},
				Subtitles: []string{"French"},
			},
			VRSupport: domain.VRSupport{Headsets: []string{"Valve Index"}, Input: []string{"Tracked Motion Controllers"}},
		},
		&domain.Entry{
			ID: 2,
			LanguageSupport: domain.LanguageSupport{
				Interface: []string{"german", "Japanese"},
			},
			VRSupport: domain.VRSupport{Headsets: []string{"HTC Vive", "valve index"}, PlayArea: []string{"Seated"}},
		},
	)

	langs := s.AllLanguages(nil)
	assert.Equal(t, []string{"English"}, langs.FullAudio)
	assert.Equal(t, []string{"English", "German", "Japanese"}, langs.Interface)
	assert.Equal(t, []string{"French"}, langs.Subtitles)

	vr := s.AllVRSupport(nil)
	assert.Equal(t, []string{"HTC Vive", "Valve Index"}, vr.Headsets)
	assert.Equal(t, []string{"Tracked Motion Controllers"}, vr.Input)
	assert.Equal(t, []string{"Seated"}, vr.PlayArea)

	onlySecond := s.AllVRSupport(&Subset{IDs: []int{2}})
	assert.Equal(t, []string{"HTC Vive", "valve index"}, onlySecond.Headsets)
}

func TestVocabularySubsetSkipsHiddenAndMissing(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Genres: []string{"Action"}},
		&domain.Entry{ID: 2, Genres: []string{"Puzzle"}},
		&domain.Entry{ID: 3, Genres: []string{"Racing"}},
	)

	subset := &Subset{
		IDs:    []int{1, 2, 404, 2},
		Hidden: func(id int) bool { return id == 2 },
	}
	assert.Equal(t, []string{"Action"}, s.AllGenres(subset))
	assert.Equal(t, []string{"Action", "Puzzle", "Racing"}, s.AllGenres(nil))
}

func TestDeveloperAndPublisherCounts(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Developers: []string{"Valve", "Valve"}, Publishers: []string{"Valve"}},
		&domain.Entry{ID: 2, Developers: []string{"Valve", "Hidden Path"}, Publishers: []string{"Valve"}},
		&domain.Entry{ID: 3, Developers: []string{"Arkane"}, Publishers: []string{"Bethesda"}},
	)

	assert.Equal(t, map[string]int{"Valve": 2, "Hidden Path": 1, "Arkane": 1}, s.DeveloperCounts(nil, 0))
	assert.Equal(t, map[string]int{"Valve": 2}, s.DeveloperCounts(nil, 2))
	assert.Equal(t, map[string]int{"Valve": 2, "Bethesda": 1}, s.PublisherCounts(nil, 1))
	assert.Equal(t, map[string]int{"Bethesda": 1}, s.PublisherCounts(&Subset{IDs: []int{3}}, 1))

	assert.Equal(t, []Count{
		{Name: "Valve", Count: 2},
		{Name: "Arkane", Count: 1},
		{Name: "Hidden Path", Count: 1},
	}, s.SortedDevelopers(nil, 1))
	assert.Equal(t, []Count{{Name: "Valve", Count: 2}}, s.SortedPublishers(nil, 2))
}

func TestTagScoresLinearInterpolation(t *testing.T) {
	s := newTestStore(t, &domain.Entry{ID: 1, Tags: []string{"t1", "t2", "t3"}})

	scores := scoreMap(s.TagScores(nil, TagScoreOptions{WeightFactor: 3, TagsPerGame: 3}))
	assert.Equal(t, map[string]float64{"t1": 3.0, "t2": 2.0, "t3": 1.0}, scores)
}

func TestTagScoresSingleTagScoresWeightFactor(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Tags: []string{"RPG", "Fantasy"}},
		&domain.Entry{ID: 2, Tags: []string{"Fantasy"}},
	)

	scores := scoreMap(s.TagScores(nil, TagScoreOptions{WeightFactor: 2.5, TagsPerGame: 1}))
	assert.Equal(t, map[string]float64{"RPG": 2.5, "Fantasy": 2.5}, scores)
}

func TestTagScoresFlatWeight(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Tags: []string{"RPG", "Fantasy", "Story Rich"}},
		&domain.Entry{ID: 2, Tags: []string{"Fantasy"}},
	)

	for _, wf := range []float64{1, 0.5, 0} {
		scores := scoreMap(s.TagScores(nil, TagScoreOptions{WeightFactor: wf}))
		assert.Equal(t, map[string]float64{"RPG": 1, "Fantasy": 2, "Story Rich": 1}, scores, "weight %v", wf)
	}
}

func TestTagScoresAccumulateAndFilter(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Tags: []string{"Action", "Indie", "Roguelike"}, Genres: []string{"Action"}},
		&domain.Entry{ID: 2, Tags: []string{"Indie", "Roguelike"}},
		&domain.Entry{ID: 3, Tags: []string{"Roguelike"}},
	)

	// Entry 1: Action 3, Indie 2, Roguelike 1; entry 2: Indie 3, Roguelike 1; entry 3: Roguelike 3
	all := s.TagScores(nil, TagScoreOptions{WeightFactor: 3, SortByScore: true})
	assert.Equal(t, []TagScore{
		{Tag: "Indie", Score: 5},
		{Tag: "Roguelike", Score: 5},
		{Tag: "Action", Score: 3},
	}, all)

	noGenres := s.TagScores(nil, TagScoreOptions{WeightFactor: 3, ExcludeGenres: true})
	assert.Equal(t, []TagScore{
		{Tag: "Indie", Score: 5},
		{Tag: "Roguelike", Score: 5},
	}, noGenres)

	filtered := s.TagScores(nil, TagScoreOptions{WeightFactor: 3, MinScore: 4})
	assert.Equal(t, []TagScore{
		{Tag: "Indie", Score: 5},
		{Tag: "Roguelike", Score: 5},
	}, filtered)

	subset := &Subset{IDs: []int{1, 3}, Hidden: func(id int) bool { return id == 3 }}
	assert.Equal(t, map[string]float64{"Action": 3, "Indie": 2, "Roguelike": 1},
		scoreMap(s.TagScores(subset, TagScoreOptions{WeightFactor: 3})))
}

func TestTagScoresAlphabetical(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Tags: []string{"Zombies", "Action"}},
		&domain.Entry{ID: 2, Tags: []string{"Zombies"}},
	)

	scores := s.TagScores(nil, TagScoreOptions{WeightFactor: 1})
	require.Len(t, scores, 2)
	assert.Equal(t, "Action", scores[0].Tag)
	assert.Equal(t, "Zombies", scores[1].Tag)
}

func TestTagWeight(t *testing.T) {
	assert.Equal(t, 4.0, TagWeight(4, 0, 4))
	assert.Equal(t, 3.0, TagWeight(4, 1, 4))
	assert.Equal(t, 2.0, TagWeight(4, 2, 4))
	assert.Equal(t, 1.0, TagWeight(4, 3, 4))
	assert.Equal(t, 4.0, TagWeight(4, 0, 1))
	assert.Equal(t, 1.0, TagWeight(1, 0, 1))
}
