package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/shelf/internal/domain"
)

func TestLookupsOnUnknownIDAreEmpty(t *testing.T) {
	s := newTestStore(t, &domain.Entry{ID: 1, Tags: []string{"RPG"}, Genres: []string{"RPG"}})

	for _, id := range []int{0, -1, 2, 999} {
		assert.Empty(t, s.Tags(id))
		assert.Empty(t, s.Genres(id, false))
		assert.Empty(t, s.Genres(id, true))
		assert.Empty(t, s.Flags(id))
		assert.Empty(t, s.Developers(id))
		assert.Empty(t, s.Publishers(id))
		assert.False(t, s.SupportsVR(id))
		assert.Zero(t, s.ReleaseYear(id))
	}
}

func TestResolveFallsBackToParent(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Tags: []string{"RPG", "Open World"}, Developers: []string{"Bethesda"}},
		&domain.Entry{ID: 2, ParentID: 1},
		&domain.Entry{ID: 3, ParentID: 2},
	)

	assert.Equal(t, []string{"RPG", "Open World"}, s.Tags(2))
	assert.Equal(t, []string{"RPG", "Open World"}, s.Tags(3))
	assert.Equal(t, []string{"Bethesda"}, s.Developers(3))
	assert.Empty(t, s.Publishers(3))
}

func TestResolveOwnValueWinsWhole(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Tags: []string{"RPG", "Open World", "Fantasy"}},
		&domain.Entry{ID: 2, ParentID: 1, Tags: []string{"DLC Only"}},
	)

	assert.Equal(t, []string{"DLC Only"}, s.Tags(2))
}

func TestResolveDepthBound(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Flags: []string{"Single-player"}},
		&domain.Entry{ID: 2, ParentID: 1},
		&domain.Entry{ID: 3, ParentID: 2},
		&domain.Entry{ID: 4, ParentID: 3},
		&domain.Entry{ID: 5, ParentID: 4},
	)

	assert.Equal(t, []string{"Single-player"}, s.Flags(4), "three hops reach the root")
	assert.Empty(t, s.Flags(5), "four hops exceed the default budget")
	assert.Equal(t, []string{"Single-player"}, s.Resolve(5, AttrFlags, 4))
	assert.Empty(t, s.Resolve(2, AttrFlags, 0))
}

func TestResolveTerminatesOnCycle(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, ParentID: 2},
		&domain.Entry{ID: 2, ParentID: 1},
		&domain.Entry{ID: 3, ParentID: 3},
	)

	assert.Empty(t, s.Tags(1))
	assert.Empty(t, s.Genres(2, true))
	assert.Empty(t, s.Resolve(3, AttrTags, 1_000_000))
	assert.False(t, s.SupportsVR(1))
}

func TestResolveReturnsCopy(t *testing.T) {
	s := newTestStore(t, &domain.Entry{ID: 1, Tags: []string{"RPG"}})

	tags := s.Tags(1)
	tags[0] = "mutated"
	assert.Equal(t, []string{"RPG"}, s.Tags(1))
}

func TestGenresTagFallback(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, Genres: []string{"Action", "Strategy"}},
		&domain.Entry{ID: 2, Tags: []string{"action", "Pixel Graphics", "Strategy"}},
		&domain.Entry{ID: 3, ParentID: 2},
		&domain.Entry{ID: 4, Tags: []string{"Pixel Graphics"}},
	)

	assert.Empty(t, s.Genres(2, false))
	assert.Equal(t, []string{"action", "Strategy"}, s.Genres(2, true))
	assert.Equal(t, []string{"action", "Strategy"}, s.Genres(3, true), "fallback uses resolved tags")
	assert.Empty(t, s.Genres(4, true), "no tag is a known genre")
	assert.Equal(t, []string{"Action", "Strategy"}, s.Genres(1, true))
}

func TestSupportsVR(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, VRSupport: domain.VRSupport{Headsets: []string{"Valve Index"}}},
		&domain.Entry{ID: 2, VRSupport: domain.VRSupport{PlayArea: []string{"Room-Scale"}}},
		&domain.Entry{ID: 3, ParentID: 1},
		&domain.Entry{ID: 4},
		&domain.Entry{ID: 5, ParentID: 4},
	)

	assert.True(t, s.SupportsVR(1))
	assert.True(t, s.SupportsVR(2))
	assert.True(t, s.SupportsVR(3), "DLC inherits VR support from its base")
	assert.False(t, s.SupportsVR(4))
	assert.False(t, s.SupportsVR(5))
}

func TestReleaseYearNoFallback(t *testing.T) {
	s := newTestStore(t,
		&domain.Entry{ID: 1, SteamReleaseDate: "21 Aug, 2012"},
		&domain.Entry{ID: 2, ParentID: 1},
		&domain.Entry{ID: 3, SteamReleaseDate: "Coming soon"},
	)

	assert.Equal(t, 2012, s.ReleaseYear(1))
	assert.Zero(t, s.ReleaseYear(2))
	assert.Zero(t, s.ReleaseYear(3))
}

func TestParseReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"21 Aug, 2012", 2012},
		{"Aug 21, 2012", 2012},
		{"21 August 2012", 2012},
		{"August 2012", 2012},
		{"2012-08-21", 2012},
		{"21.08.2012", 2012},
		{"2012", 2012},
		{"Q3 2019", 2019},
		{"  Nov 9, 2004 ", 2004},
		{"", 0},
		{"Coming soon", 0},
		{"To be announced", 0},
		{"soon 12", 0},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReleaseYear(tt.date))
		})
	}
}
