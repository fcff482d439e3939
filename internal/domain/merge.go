package domain

// Merge folds other into e, field by field. Store-scrape fields follow
// LastStoreScrape freshness, app-info fields follow LastAppInfoUpdate.
// An empty, zero or unknown value in other never erases a value in e.
func (e *Entry) Merge(other *Entry) {
	if other == nil {
		return
	}

	if other.AppType != AppTypeUnknown {
		e.AppType = other.AppType
	}

	if other.LastAppInfoUpdate >= e.LastAppInfoUpdate {
		if other.Name != "" {
			e.Name = other.Name
		}
		if other.ParentID > 0 {
			e.ParentID = other.ParentID
		}
		if other.Platforms != PlatformNone {
			e.Platforms = other.Platforms
		}
	} else {
		// Stale app info only fills gaps
		if e.Name == "" {
			e.Name = other.Name
		}
		if e.ParentID <= 0 && other.ParentID > 0 {
			e.ParentID = other.ParentID
		}
		if e.Platforms == PlatformNone {
			e.Platforms = other.Platforms
		}
	}

	if other.LastStoreScrape >= e.LastStoreScrape {
		e.Developers = preferStrings(other.Developers, e.Developers)
		e.Publishers = preferStrings(other.Publishers, e.Publishers)
		e.Genres = preferStrings(other.Genres, e.Genres)
		e.Tags = preferStrings(other.Tags, e.Tags)
		e.Flags = preferStrings(other.Flags, e.Flags)

		if !other.VRSupport.IsEmpty() {
			e.VRSupport = other.Clone().VRSupport
		}
		if !other.LanguageSupport.IsEmpty() {
			e.LanguageSupport = other.Clone().LanguageSupport
		}
		if other.SteamReleaseDate != "" {
			e.SteamReleaseDate = other.SteamReleaseDate
		}
		if other.MetacriticURL != "" {
			e.MetacriticURL = other.MetacriticURL
		}
		e.Achievements = preferInt(other.Achievements, e.Achievements)
		e.ReviewTotal = preferInt(other.ReviewTotal, e.ReviewTotal)
		e.ReviewPositivePercentage = preferInt(other.ReviewPositivePercentage, e.ReviewPositivePercentage)
		e.HltbMain = preferInt(other.HltbMain, e.HltbMain)
		e.HltbExtras = preferInt(other.HltbExtras, e.HltbExtras)
		e.HltbCompletionist = preferInt(other.HltbCompletionist, e.HltbCompletionist)
	}

	e.LastStoreScrape = max(e.LastStoreScrape, other.LastStoreScrape)
	e.LastAppInfoUpdate = max(e.LastAppInfoUpdate, other.LastAppInfoUpdate)
}

func preferStrings(incoming, current []string) []string {
	if len(incoming) == 0 {
		return current
	}
	return cloneStrings(incoming)
}

func preferInt(incoming, current int) int {
	if incoming > 0 {
		return incoming
	}
	return current
}
