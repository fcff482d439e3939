// Package steam fetches the bulk app listing from the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

const (
	defaultBaseURL  = "https://api.steampowered.com"
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 50000
	userAgent       = "Shelf/1.0"
)

// Config configures a Client. Zero values use the defaults.
type Config struct {
	BaseURL  string
	APIKey   string // empty uses the keyless listing endpoint
	PageSize int
	Timeout  time.Duration
}

// Client implements domain.ListingSource for the Steam Web API
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ domain.ListingSource = (*Client)(nil)

// NewClient creates a new Steam listing client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GetAppList returns the full {id, name} listing. With an API key the store
// listing is paged through; without one the legacy single-response listing
// is used. Progress totals are 0 because neither endpoint announces them.
func (c *Client) GetAppList(ctx context.Context, onProgress domain.ProgressFunc) ([]domain.ListingRecord, error) {
	if c.apiKey == "" {
		return c.getLegacyAppList(ctx, onProgress)
	}
	return c.getStoreAppList(ctx, onProgress)
}

func (c *Client) getStoreAppList(ctx context.Context, onProgress domain.ProgressFunc) ([]domain.ListingRecord, error) {
	var records []domain.ListingRecord
	lastAppID := 0

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("key", c.apiKey)
		query.Set("max_results", strconv.Itoa(c.pageSize))
		query.Set("include_games", "true")
		query.Set("include_dlc", "true")
		query.Set("include_software", "true")
		query.Set("include_videos", "true")
		query.Set("include_hardware", "true")
		if lastAppID > 0 {
			query.Set("last_appid", strconv.Itoa(lastAppID))
		}

		var resp storeAppListResponse
		if err := c.getJSON(ctx, "/IStoreService/GetAppList/v1/", query, &resp); err != nil {
			return nil, err
		}

		for _, app := range resp.Response.Apps {
			records = append(records, domain.ListingRecord{ID: app.AppID, Name: app.Name})
		}
		if onProgress != nil {
			onProgress(len(records), 0)
		}
		c.logger.Debug("fetched app list page", "page", page, "apps", len(resp.Response.Apps), "lastAppID", resp.Response.LastAppID)

		if !resp.Response.HaveMoreResults {
			break
		}
		if resp.Response.LastAppID <= lastAppID {
			c.logger.Warn("app list cursor did not advance, stopping", "lastAppID", resp.Response.LastAppID)
			break
		}
		lastAppID = resp.Response.LastAppID
	}

	c.logger.Info("fetched app list", "count", len(records))
	return records, nil
}

func (c *Client) getLegacyAppList(ctx context.Context, onProgress domain.ProgressFunc) ([]domain.ListingRecord, error) {
	var resp appListResponse
	if err := c.getJSON(ctx, "/ISteamApps/GetAppList/v2/", nil, &resp); err != nil {
		return nil, err
	}

	records := make([]domain.ListingRecord, 0, len(resp.AppList.Apps))
	for _, app := range resp.AppList.Apps {
		records = append(records, domain.ListingRecord{ID: app.AppID, Name: app.Name})
	}
	if onProgress != nil {
		onProgress(len(records), len(records))
	}

	c.logger.Info("fetched legacy app list", "count", len(records))
	return records, nil
}

// getJSON performs a GET request and decodes the JSON body into dest
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("steam request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("steam request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrSourceOffline, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry after %q", domain.ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("steam rejected the api key: status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", domain.ErrSourceOffline, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("steam request error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			c.logger.Error("JSON parse error", "path", path, "offset", syntaxErr.Offset)
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
