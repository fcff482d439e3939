package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

func newQueryStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.Config{}, adapter.NullLogger())
	entries := []*domain.Entry{
		{
			ID:               546560,
			Name:             "Half-Life: Alyx",
			AppType:          domain.AppTypeGame,
			Platforms:        domain.PlatformWindows,
			Developers:       []string{"Valve"},
			Tags:             []string{"VR", "FPS", "Action"},
			Genres:           []string{"Action"},
			VRSupport:        domain.VRSupport{Headsets: []string{"Valve Index"}},
			SteamReleaseDate: "23 Mar, 2020",
			LastStoreScrape:  time.Now().Unix(),
		},
		{
			ID:        1000,
			ParentID:  546560,
			Name:      "Alyx Soundtrack",
			AppType:   domain.AppTypeMedia,
			Platforms: domain.PlatformWindows | domain.PlatformLinux,
		},
		{
			ID:         620,
			Name:       "Portal 2",
			AppType:    domain.AppTypeGame,
			Platforms:  domain.PlatformWindows | domain.PlatformLinux,
			Developers: []string{"Valve"},
			Tags:       []string{"Puzzle", "Co-op"},
		},
	}
	for _, e := range entries {
		require.NoError(t, s.Add(e))
	}
	return s
}

func TestQueriesDetail(t *testing.T) {
	q := NewQueries(newQueryStore(t), 24*time.Hour)

	d, ok := q.Detail(1000)
	require.True(t, ok)
	assert.Equal(t, "Alyx Soundtrack", d.Entry.Name)
	assert.Equal(t, "Half-Life: Alyx", d.ParentName)
	assert.Equal(t, []string{"VR", "FPS", "Action"}, d.Tags)
	assert.Equal(t, []string{"Action"}, d.Genres)
	assert.Equal(t, []string{"Valve"}, d.Developers)
	assert.True(t, d.SupportsVR)
	assert.Zero(t, d.ReleaseYear)
	assert.True(t, d.Stale)

	d, ok = q.Detail(546560)
	require.True(t, ok)
	assert.Equal(t, 2020, d.ReleaseYear)
	assert.False(t, d.Stale)
	assert.Empty(t, d.ParentName)

	_, ok = q.Detail(1)
	assert.False(t, ok)
}

func TestQueriesRows(t *testing.T) {
	q := NewQueries(newQueryStore(t), time.Hour)

	rows := q.Rows(nil)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{ID: 620, Name: "Portal 2", AppType: domain.AppTypeGame, Developer: "Valve"}, rows[0])
	assert.Equal(t, "Valve", rows[1].Developer, "inherited from parent")

	rows = q.Rows([]int{546560, 42})
	require.Len(t, rows, 1)
	assert.Equal(t, 2020, rows[0].ReleaseYear)
}

func TestQueriesFind(t *testing.T) {
	q := NewQueries(newQueryStore(t), time.Hour)

	assert.Equal(t, []int{620, 1000, 546560}, q.Find(Filter{}))
	assert.Equal(t, []int{620, 546560}, q.Find(Filter{Types: []domain.AppType{domain.AppTypeGame}}))
	assert.Equal(t, []int{620, 1000}, q.Find(Filter{Platform: domain.PlatformLinux}))
	assert.Equal(t, []int{1000, 546560}, q.Find(Filter{VROnly: true}))
	assert.Equal(t, []int{1000, 546560}, q.Find(Filter{Tag: "vr"}))
	assert.Empty(t, q.Find(Filter{Tag: "vr", Types: []domain.AppType{domain.AppTypeDLC}}))
}
