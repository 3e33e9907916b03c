package datasource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newsbriefhq/newsbrief/pkg/models"
	"github.com/newsbriefhq/newsbrief/pkg/utils"
)

// DiskCache persists fetched article lists as JSON files so results
// survive process restarts. Each entry carries its write timestamp and
// expires after the configured TTL.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// diskEntry is the on-disk JSON shape.
type diskEntry struct {
	Timestamp time.Time           `json:"timestamp"`
	Articles  []models.RawArticle `json:"articles"`
}

// NewDiskCache creates a disk cache rooted at dir, creating it if
// needed.
func NewDiskCache(dir string, ttl time.Duration) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir, ttl: ttl}, nil
}

// Get returns the cached article list for key, or false when the entry
// is missing, unreadable, or expired. Unreadable and expired entries
// are removed so the cache directory does not grow unbounded.
func (d *DiskCache) Get(key string) ([]models.RawArticle, bool) {
	path := d.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(path)
		return nil, false
	}
	if time.Since(entry.Timestamp) > d.ttl {
		os.Remove(path)
		return nil, false
	}
	return entry.Articles, true
}

// Set writes the article list for key, overwriting any previous entry.
func (d *DiskCache) Set(key string, articles []models.RawArticle) error {
	entry := diskEntry{
		Timestamp: time.Now(),
		Articles:  articles,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(d.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the entry for key if present.
func (d *DiskCache) Invalidate(key string) {
	os.Remove(d.path(key))
}

func (d *DiskCache) path(key string) string {
	return filepath.Join(d.dir, utils.SafeFileKey(key)+".json")
}
