package store

import (
	"slices"

	"github.com/mmcdole/shelf/internal/domain"
)

// IntegrateListing upserts a bulk {id, name} feed.
//
// Unknown ids become new entries of unknown type. A known id is renamed, and
// its type reset to unknown, when its stored name is blank or differs. A blank
// feed name never replaces a stored one. Records with a non-positive id are
// skipped individually; the rest of the batch is still applied.
func (s *Store) IntegrateListing(records []domain.ListingRecord) domain.IntegrateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res domain.IntegrateResult
	for _, rec := range records {
		if rec.ID <= 0 {
			res.Skipped++
			s.logger.Warn("skipping listing record", "id", rec.ID, "name", rec.Name)
			continue
		}

		e, ok := s.games[rec.ID]
		if !ok {
			s.games[rec.ID] = &domain.Entry{ID: rec.ID, Name: rec.Name, AppType: domain.AppTypeUnknown}
			res.Created++
			continue
		}

		if rec.Name == "" && e.Name != "" {
			continue
		}
		if e.Name != rec.Name {
			e.Name = rec.Name
			e.AppType = domain.AppTypeUnknown
			res.Updated++
		}
	}

	s.logger.Info("integrated listing",
		"created", res.Created, "updated", res.Updated, "skipped", res.Skipped, "total", len(s.games))
	return res
}

// IntegrateAppInfo upserts records from the local app-info cache.
//
// Every integrated entry gets its LastAppInfoUpdate stamped; an existing
// entry counts as updated only when its type, name, platforms or parent
// changed. Type, name and
// parent are only taken when present in the record. Platforms are only taken
// when the entry has none, or when it was never store-scraped and the record
// carries some, so fresher scraped platform data is kept.
func (s *Store) IntegrateAppInfo(records map[int]domain.AppInfoRecord) domain.IntegrateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var res domain.IntegrateResult
	now := s.now().Unix()
	for _, key := range ids {
		rec := records[key]
		id := rec.ID
		if id == 0 {
			id = key
		}
		if id <= 0 || id != key {
			res.Skipped++
			s.logger.Warn("skipping app info record", "key", key, "id", rec.ID)
			continue
		}

		e, ok := s.games[id]
		if !ok {
			e = domain.NewEntry(id)
			s.games[id] = e
			res.Created++
		}
		before := *e

		e.LastAppInfoUpdate = rec.Updated
		if e.LastAppInfoUpdate <= 0 {
			e.LastAppInfoUpdate = now
		}
		if rec.AppType != domain.AppTypeUnknown {
			e.AppType = rec.AppType
		}
		if rec.Name != "" {
			e.Name = rec.Name
		}
		if e.Platforms == domain.PlatformNone || (e.LastStoreScrape == 0 && rec.Platforms != domain.PlatformNone) {
			e.Platforms = rec.Platforms
		}
		if rec.ParentID > 0 {
			e.ParentID = rec.ParentID
		}

		if ok && (e.AppType != before.AppType || e.Name != before.Name ||
			e.Platforms != before.Platforms || e.ParentID != before.ParentID) {
			res.Updated++
		}
	}

	s.logger.Info("integrated app info",
		"created", res.Created, "updated", res.Updated, "skipped", res.Skipped, "total", len(s.games))
	return res
}
