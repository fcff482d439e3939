package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/adapter/source/steam"
	"github.com/mmcdole/shelf/internal/domain"
)

// NewListingSource creates the listing source selected by the config:
// a local listing file when steam.listing_file is set, the Steam Web API otherwise.
func NewListingSource(cfg *adapter.Config, logger *slog.Logger) (domain.ListingSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Steam.ListingFile != "" {
		return &FileSource{Path: cfg.Steam.ListingFile}, nil
	}

	if cfg.Steam.BaseURL == "" {
		return nil, fmt.Errorf("steam base URL is required")
	}
	return steam.NewClient(steam.Config{
		BaseURL:  cfg.Steam.BaseURL,
		APIKey:   cfg.Steam.APIKey,
		PageSize: cfg.Steam.PageSize,
		Timeout:  cfg.Steam.Timeout,
	}, logger), nil
}

// FileSource reads the listing from a JSON file holding either a bare array
// of {"appid", "name"} objects or a saved ISteamApps/GetAppList response.
type FileSource struct {
	Path string
}

func (f *FileSource) GetAppList(ctx context.Context, onProgress domain.ProgressFunc) ([]domain.ListingRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read listing file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []domain.ListingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapped struct {
			AppList struct {
				Apps []domain.ListingRecord `json:"apps"`
			} `json:"applist"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parse listing file %s: %w", f.Path, err)
		}
		records = wrapped.AppList.Apps
	}

	if onProgress != nil {
		onProgress(len(records), len(records))
	}
	return records, nil
}
