// Package appinfo is the local app-info cache: per-app identity records
// (type, platforms, parent, name) persisted in BoltDB.
package appinfo

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/shelf/internal/domain"
)

// Bucket names
var (
	bucketApps = []byte("apps")
	bucketMeta = []byte("meta")
)

var keyLastImport = []byte("last_import")

// Cache implements domain.AppInfoReader using BoltDB.
type Cache struct {
	db     *bolt.DB
	logger *slog.Logger

	// Memory-only mode (no persistence)
	mu  sync.RWMutex
	mem map[int]domain.AppInfoRecord
}

var _ domain.AppInfoReader = (*Cache)(nil)

// Open opens or creates the cache database at path. An empty path keeps
// everything in memory.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return &Cache{logger: logger, mem: make(map[int]domain.AppInfoRecord)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketApps, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, logger: logger}, nil
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Put stores records in a single transaction, replacing existing ones.
// Records with a non-positive id are rejected before anything is written.
func (c *Cache) Put(records ...domain.AppInfoRecord) error {
	for _, rec := range records {
		if rec.ID <= 0 {
			return fmt.Errorf("%w: %d", domain.ErrInvalidID, rec.ID)
		}
	}

	if c.db == nil {
		c.mu.Lock()
		for _, rec := range records {
			c.mem[rec.ID] = rec
		}
		c.mu.Unlock()
		return nil
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketApps)
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put(itob(rec.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the record for id
func (c *Cache) Get(id int) (domain.AppInfoRecord, bool) {
	if c.db == nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		rec, ok := c.mem[id]
		return rec, ok
	}

	var (
		rec   domain.AppInfoRecord
		found bool
	)
	c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketApps).Get(itob(id)); v != nil {
			found = json.Unmarshal(v, &rec) == nil
		}
		return nil
	})
	return rec, found
}

// ReadAll returns every cached record keyed by id. Undecodable records are
// logged and skipped.
func (c *Cache) ReadAll(ctx context.Context) (map[int]domain.AppInfoRecord, error) {
	if c.db == nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		out := make(map[int]domain.AppInfoRecord, len(c.mem))
		for id, rec := range c.mem {
			out[id] = rec
		}
		return out, nil
	}

	var out map[int]domain.AppInfoRecord
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketApps)
		out = make(map[int]domain.AppInfoRecord, b.Stats().KeyN)
		n := 0
		return b.ForEach(func(k, v []byte) error {
			n++
			if n%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			id := btoi(k)
			var rec domain.AppInfoRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				c.logger.Warn("skipping undecodable app info record", "id", id, "error", err)
				return nil
			}
			out[id] = rec
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Debug("read app info cache", "count", len(out))
	return out, nil
}

// Count returns the number of cached records
func (c *Cache) Count() int {
	if c.db == nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return len(c.mem)
	}

	var n int
	c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketApps).Stats().KeyN
		return nil
	})
	return n
}

// LastImport returns the time of the last successful ImportJSON, or zero
func (c *Cache) LastImport() time.Time {
	if c.db == nil {
		return time.Time{}
	}

	var ts int64
	c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMeta).Get(keyLastImport); v != nil {
			ts, _ = strconv.ParseInt(string(v), 10, 64)
		}
		return nil
	})
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

func (c *Cache) setLastImport(t time.Time) error {
	if c.db == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyLastImport, []byte(strconv.FormatInt(t.Unix(), 10)))
	})
}

// itob encodes id as a big-endian key so bucket iteration is in id order
func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int {
	return int(binary.BigEndian.Uint64(b))
}
