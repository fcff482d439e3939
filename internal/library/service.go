package library

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/shelf/internal/domain"
)

// Catalog is the part of the store the refresh pipeline writes to
type Catalog interface {
	IntegrateListing(records []domain.ListingRecord) domain.IntegrateResult
	IntegrateAppInfo(records map[int]domain.AppInfoRecord) domain.IntegrateResult
	Save() error
	Count() int
}

// Service orchestrates listing source + app-info cache + catalog operations.
// Network and disk reads happen outside the catalog lock; only the merge
// step runs under it.
type Service struct {
	source  domain.ListingSource
	cache   domain.AppInfoReader
	catalog Catalog
	logger  *slog.Logger
}

// NewService creates a new library service. source or cache may be nil to
// skip that producer.
func NewService(source domain.ListingSource, cache domain.AppInfoReader, catalog Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: cache, catalog: catalog, logger: logger}
}

// RefreshListing fetches the bulk listing and integrates it
func (s *Service) RefreshListing(ctx context.Context, onProgress domain.ProgressFunc) (domain.IntegrateResult, error) {
	records, err := s.fetchListing(ctx, onProgress)
	if err != nil {
		return domain.IntegrateResult{}, err
	}
	return s.catalog.IntegrateListing(records), nil
}

// IntegrateLocalCache reads the whole app-info cache and integrates it
func (s *Service) IntegrateLocalCache(ctx context.Context) (domain.IntegrateResult, error) {
	records, err := s.readCache(ctx)
	if err != nil {
		return domain.IntegrateResult{}, err
	}
	return s.catalog.IntegrateAppInfo(records), nil
}

// Refresh fetches the listing and reads the app-info cache concurrently,
// integrates both (listing first, so cached types win over listing resets)
// and saves the catalog.
func (s *Service) Refresh(ctx context.Context, onProgress domain.ProgressFunc) (domain.RefreshResult, error) {
	var (
		listing []domain.ListingRecord
		appInfo map[int]domain.AppInfoRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listing, err = s.fetchListing(gctx, onProgress)
		return err
	})
	g.Go(func() error {
		var err error
		appInfo, err = s.readCache(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RefreshResult{}, err
	}

	var res domain.RefreshResult
	res.Listing = s.catalog.IntegrateListing(listing)
	res.AppInfo = s.catalog.IntegrateAppInfo(appInfo)
	res.Total = s.catalog.Count()

	if err := s.catalog.Save(); err != nil {
		s.logger.Error("failed to save catalog", "error", err)
		return res, fmt.Errorf("save catalog: %w", err)
	}
	res.Persisted = true

	s.logger.Info("refreshed catalog",
		"listingCreated", res.Listing.Created, "listingUpdated", res.Listing.Updated,
		"appInfoCreated", res.AppInfo.Created, "appInfoUpdated", res.AppInfo.Updated,
		"total", res.Total)
	return res, nil
}

func (s *Service) fetchListing(ctx context.Context, onProgress domain.ProgressFunc) ([]domain.ListingRecord, error) {
	if s.source == nil {
		return nil, nil
	}
	records, err := s.source.GetAppList(ctx, onProgress)
	if err != nil {
		s.logger.Error("failed to fetch app listing", "error", err)
		return nil, fmt.Errorf("fetch app listing: %w", err)
	}
	s.logger.Debug("fetched app listing", "count", len(records))
	return records, nil
}

func (s *Service) readCache(ctx context.Context) (map[int]domain.AppInfoRecord, error) {
	if s.cache == nil {
		return nil, nil
	}
	records, err := s.cache.ReadAll(ctx)
	if err != nil {
		s.logger.Error("failed to read app info cache", "error", err)
		return nil, fmt.Errorf("read app info cache: %w", err)
	}
	s.logger.Debug("read app info cache", "count", len(records))
	return records, nil
}
