package appinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
)

// importBatch is the number of records written per transaction
const importBatch = 1000

// dumpRecord is one app of a JSON appinfo dump, as produced by tools that
// decode the Steam client's appinfo.vdf.
type dumpRecord struct {
	AppID       flexInt    `json:"appid"`
	LastUpdated flexInt    `json:"last_updated"`
	Common      dumpCommon `json:"common"`
}

type dumpCommon struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	OSList string  `json:"oslist"`
	Parent flexInt `json:"parent"`
}

// flexInt accepts both JSON numbers and numeric strings
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*f = flexInt(n)
	return nil
}

// ImportResult summarizes an ImportJSON run
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportJSON reads a JSON array of dump records from r and stores them.
// Records that do not decode or lack a positive app id are skipped; a
// syntax error in the dump aborts the import.
func (c *Cache) ImportJSON(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult

	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return res, fmt.Errorf("read appinfo dump: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return res, fmt.Errorf("read appinfo dump: expected array, got %v", tok)
	}

	batch := make([]domain.AppInfoRecord, 0, importBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.Put(batch...); err != nil {
			return err
		}
		res.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for dec.More() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		pos := res.Imported + res.Skipped + len(batch)
		var data json.RawMessage
		if err := dec.Decode(&data); err != nil {
			return res, fmt.Errorf("decode appinfo record %d: %w", pos, err)
		}

		var raw dumpRecord
		if err := json.Unmarshal(data, &raw); err != nil {
			res.Skipped++
			c.logger.Warn("skipping appinfo record", "index", pos, "error", err)
			continue
		}
		if raw.AppID <= 0 {
			res.Skipped++
			continue
		}

		batch = append(batch, raw.toRecord())
		if len(batch) == importBatch {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return res, fmt.Errorf("read appinfo dump: %w", err)
	}
	if err := flush(); err != nil {
		return res, err
	}

	if err := c.setLastImport(time.Now()); err != nil {
		return res, err
	}
	c.logger.Info("imported app info dump", "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

func (d dumpRecord) toRecord() domain.AppInfoRecord {
	return domain.AppInfoRecord{
		ID:        int(d.AppID),
		Name:      strings.TrimSpace(d.Common.Name),
		AppType:   domain.ParseAppType(d.Common.Type),
		Platforms: ParseOSList(d.Common.OSList),
		ParentID:  int(d.Common.Parent),
		Updated:   int64(d.LastUpdated),
	}
}

// ParseOSList converts an appinfo "oslist" value ("windows,macos,linux")
func ParseOSList(s string) domain.Platform {
	var p domain.Platform
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "windows":
			p |= domain.PlatformWindows
		case "macos", "mac", "osx":
			p |= domain.PlatformMac
		case "linux":
			p |= domain.PlatformLinux
		}
	}
	return p
}
