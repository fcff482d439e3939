package domain

import "context"

// ListingSource fetches the bulk {id, name} feed (implemented by remote clients).
// Implementations perform network I/O and must not touch the catalog store.
type ListingSource interface {
	GetAppList(ctx context.Context, onProgress ProgressFunc) ([]ListingRecord, error)
}

// AppInfoReader reads the local app-info cache
type AppInfoReader interface {
	ReadAll(ctx context.Context) (map[int]AppInfoRecord, error)
}
