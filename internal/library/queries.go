package library

import (
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

// Queries provides synchronous, catalog-only reads composed from the store's
// resolver lookups.
type Queries struct {
	store  *store.Store
	maxAge time.Duration
}

// NewQueries creates a new Queries instance. maxAge is the store-data age
// after which an entry is reported stale.
func NewQueries(s *store.Store, maxAge time.Duration) *Queries {
	return &Queries{store: s, maxAge: maxAge}
}

// Detail is an entry with its inherited attributes resolved
type Detail struct {
	Entry       *domain.Entry
	ParentName  string
	Tags        []string
	Genres      []string
	Flags       []string
	Developers  []string
	Publishers  []string
	SupportsVR  bool
	ReleaseYear int
	Stale       bool
}

// Row is the summary of an entry shown in lists
type Row struct {
	ID          int
	Name        string
	AppType     domain.AppType
	ReleaseYear int
	Developer   string
}

// Filter selects entries by resolved attributes. Zero fields match everything.
type Filter struct {
	Types    []domain.AppType
	Tag      string
	Platform domain.Platform
	VROnly   bool
}

func (q *Queries) Detail(id int) (Detail, bool) {
	e, ok := q.store.Get(id)
	if !ok {
		return Detail{}, false
	}

	d := Detail{
		Entry:       e,
		Tags:        q.store.Tags(id),
		Genres:      q.store.Genres(id, true),
		Flags:       q.store.Flags(id),
		Developers:  q.store.Developers(id),
		Publishers:  q.store.Publishers(id),
		SupportsVR:  q.store.SupportsVR(id),
		ReleaseYear: q.store.ReleaseYear(id),
		Stale:       q.store.IsStale(id, q.maxAge),
	}
	if e.ParentID > 0 {
		d.ParentName = q.store.Name(e.ParentID)
	}
	return d, true
}

// Rows returns list rows for ids, skipping ids no longer in the catalog.
// A nil ids slice lists the whole catalog.
func (q *Queries) Rows(ids []int) []Row {
	if ids == nil {
		ids = q.store.IDs()
	}

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		if !q.store.Contains(id) {
			continue
		}
		row := Row{
			ID:          id,
			Name:        q.store.Name(id),
			AppType:     q.store.AppType(id),
			ReleaseYear: q.store.ReleaseYear(id),
		}
		if devs := q.store.Developers(id); len(devs) > 0 {
			row.Developer = devs[0]
		}
		rows = append(rows, row)
	}
	return rows
}

// Find returns the ids matching f in ascending order
func (q *Queries) Find(f Filter) []int {
	var out []int
	for _, id := range q.store.IDs() {
		if len(f.Types) > 0 && !slices.Contains(f.Types, q.store.AppType(id)) {
			continue
		}
		if f.Platform != domain.PlatformNone && !q.store.Platforms(id).Has(f.Platform) {
			continue
		}
		if f.VROnly && !q.store.SupportsVR(id) {
			continue
		}
		if f.Tag != "" && !slices.ContainsFunc(q.store.Tags(id), func(t string) bool {
			return strings.EqualFold(t, f.Tag)
		}) {
			continue
		}
		out = append(out, id)
	}
	return out
}
