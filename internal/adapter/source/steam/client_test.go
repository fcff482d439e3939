package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", APIKey: apiKey, PageSize: 2}, adapter.NullLogger())
}

func TestGetAppListPaginates(t *testing.T) {
	pages := map[string]string{
		"":   `{"response":{"apps":[{"appid":10,"name":"Counter-Strike"},{"appid":20,"name":"Team Fortress Classic"}],"have_more_results":true,"last_appid":20}}`,
		"20": `{"response":{"apps":[{"appid":30,"name":"Day of Defeat"},{"appid":40,"name":""}],"have_more_results":true,"last_appid":40}}`,
		"40": `{"response":{"apps":[{"appid":50,"name":"Opposing Force"}]}}`,
	}

	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/IStoreService/GetAppList/v1/", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "2", r.URL.Query().Get("max_results"))
		body, ok := pages[r.URL.Query().Get("last_appid")]
		if !assert.True(t, ok, "unexpected cursor %q", r.URL.Query().Get("last_appid")) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, body)
	}, "secret")

	var progress []int
	records, err := client.GetAppList(context.Background(), func(loaded, total int) {
		progress = append(progress, loaded)
		assert.Zero(t, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{2, 4, 5}, progress)
	assert.Equal(t, []domain.ListingRecord{
		{ID: 10, Name: "Counter-Strike"},
		{ID: 20, Name: "Team Fortress Classic"},
		{ID: 30, Name: "Day of Defeat"},
		{ID: 40, Name: ""},
		{ID: 50, Name: "Opposing Force"},
	}, records)
}

func TestGetAppListStopsOnStuckCursor(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"response":{"apps":[{"appid":1,"name":"a"}],"have_more_results":true,"last_appid":1}}`)
	}, "secret")

	records, err := client.GetAppList(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, records, 2)
}

func TestGetAppListLegacy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamApps/GetAppList/v2/", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"applist":{"apps":[{"appid":570,"name":"Dota 2"},{"appid":0,"name":"bad"}]}}`)
	}, "")

	var loaded, total int
	records, err := client.GetAppList(context.Background(), func(l, t int) { loaded, total = l, t })
	require.NoError(t, err)

	assert.Equal(t, []domain.ListingRecord{{ID: 570, Name: "Dota 2"}, {ID: 0, Name: "bad"}}, records)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 2, total)
}

func TestGetAppListErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, target: domain.ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, target: domain.ErrSourceOffline},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "not found", status: http.StatusNotFound},
		{name: "bad json", status: http.StatusOK, body: `{"response":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", strconv.Itoa(60))
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, "secret")

			records, err := client.GetAppList(context.Background(), nil)
			require.Error(t, err)
			assert.Nil(t, records)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestGetAppListOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, adapter.NullLogger())
	_, err := client.GetAppList(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrSourceOffline)
}

func TestGetAppListCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"applist":{"apps":[]}}`)
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetAppList(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
