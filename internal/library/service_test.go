package library

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
)

type fakeSource struct {
	records []domain.ListingRecord
	err     error
	calls   atomic.Int32
}

func (f *fakeSource) GetAppList(ctx context.Context, onProgress domain.ProgressFunc) ([]domain.ListingRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if onProgress != nil {
		onProgress(len(f.records), len(f.records))
	}
	return f.records, nil
}

type fakeCache struct {
	records map[int]domain.AppInfoRecord
	err     error
}

func (f *fakeCache) ReadAll(ctx context.Context) (map[int]domain.AppInfoRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newFileStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.Config{Path: filepath.Join(t.TempDir(), "games.json")}, adapter.NullLogger())
}

func TestRefresh(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{records: []domain.ListingRecord{
		{ID: 620, Name: "Portal 2"},
		{ID: 323180, Name: "Portal 2 DLC"},
	}}
	cache := &fakeCache{records: map[int]domain.AppInfoRecord{
		620:    {ID: 620, Name: "Portal 2", AppType: domain.AppTypeGame, Platforms: domain.PlatformWindows},
		323180: {ID: 323180, AppType: domain.AppTypeDLC, ParentID: 620},
		400:    {ID: 400, Name: "Portal", AppType: domain.AppTypeGame},
	}}
	s := newFileStore(t)
	svc := NewService(src, cache, s, adapter.NullLogger())

	var progress int
	res, err := svc.Refresh(context.Background(), func(loaded, _ int) { progress = loaded })
	require.NoError(t, err)

	assert.Equal(t, domain.IntegrateResult{Created: 2}, res.Listing)
	assert.Equal(t, domain.IntegrateResult{Created: 1, Updated: 2}, res.AppInfo)
	assert.Equal(t, 3, res.Total)
	assert.True(t, res.Persisted)
	assert.Equal(t, 2, progress)

	// App info is applied after the listing, so types survive
	assert.Equal(t, domain.AppTypeGame, s.AppType(620))
	assert.Equal(t, domain.AppTypeDLC, s.AppType(323180))
	assert.Equal(t, 620, mustGet(t, s, 323180).ParentID)

	reloaded := store.New(store.Config{Path: s.Path()}, adapter.NullLogger())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 3, reloaded.Count())
}

func TestRefreshSourceError(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{err: domain.ErrRateLimited}
	s := newFileStore(t)
	svc := NewService(src, &fakeCache{records: map[int]domain.AppInfoRecord{1: {ID: 1}}}, s, adapter.NullLogger())

	res, err := svc.Refresh(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, res.Persisted)
	assert.Zero(t, s.Count())
}

func TestRefreshCacheError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := newFileStore(t)
	svc := NewService(&fakeSource{}, &fakeCache{err: boom}, s, adapter.NullLogger())

	_, err := svc.Refresh(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestRefreshWithoutProducers(t *testing.T) {
	s := store.New(store.Config{}, adapter.NullLogger())
	svc := NewService(nil, nil, s, nil)

	res, err := svc.Refresh(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RefreshResult{Persisted: true}, res)
}

func TestRefreshListingAndLocalCache(t *testing.T) {
	s := store.New(store.Config{}, adapter.NullLogger())
	src := &fakeSource{records: []domain.ListingRecord{{ID: 10, Name: "Counter-Strike"}, {ID: 0, Name: "bad"}}}
	cache := &fakeCache{records: map[int]domain.AppInfoRecord{10: {ID: 10, AppType: domain.AppTypeGame}}}
	svc := NewService(src, cache, s, adapter.NullLogger())

	res, err := svc.RefreshListing(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.IntegrateResult{Created: 1, Skipped: 1}, res)
	assert.EqualValues(t, 1, src.calls.Load())

	res, err = svc.IntegrateLocalCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.IntegrateResult{Updated: 1}, res)
	assert.Equal(t, domain.AppTypeGame, s.AppType(10))
}

func mustGet(t *testing.T, s *store.Store, id int) *domain.Entry {
	t.Helper()
	e, ok := s.Get(id)
	require.True(t, ok)
	return e
}
