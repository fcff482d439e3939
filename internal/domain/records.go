package domain

// ListingRecord is one item of the bulk app listing feed
type ListingRecord struct {
	ID   int    `json:"appid"`
	Name string `json:"name"`
}

// AppInfoRecord is one item read from the local app-info cache.
// Updated is the source's Unix timestamp for the record; 0 = unknown.
type AppInfoRecord struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	AppType   AppType  `json:"appType"`
	Platforms Platform `json:"platforms"`
	ParentID  int      `json:"parentId"`
	Updated   int64    `json:"updated"`
}

// IntegrateResult summarizes one merge batch
type IntegrateResult struct {
	Created int // entries that did not exist before
	Updated int // existing entries that changed
	Skipped int // malformed records
}

// RefreshResult summarizes a full refresh run
type RefreshResult struct {
	Listing   IntegrateResult
	AppInfo   IntegrateResult
	Total     int  // entries after the refresh
	Persisted bool // snapshot written
}
