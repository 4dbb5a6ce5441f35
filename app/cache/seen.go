package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultRetention is how long seen entries are kept before being purged.
const DefaultRetention = 30 * 24 * time.Hour

type Entry struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
	CachedAt    int64  `json:"cached_at"`
}

// SeenCache is the dedup gate: a map from item key to entry, read fully at
// startup and written fully back on Save. It is the only mechanism that
// prevents duplicate publishes across runs, so it must be consulted before
// any network fetch.
type SeenCache struct {
	path      string
	retention time.Duration
	entries   map[string]Entry
	now       func() time.Time
}

// Key computes the stable identity hash of an item. The link wins whenever
// present; the GUID and finally title+published are last resorts. Superficial
// whitespace differences in metadata must not change the key.
func Key(link, guid, title, published string) string {
	id := strings.TrimSpace(link)
	if id == "" {
		id = strings.TrimSpace(guid)
	}
	if id == "" {
		id = strings.TrimSpace(title) + "|" + strings.TrimSpace(published)
	}

	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:])
}

// Load reads the cache file. A missing or unreadable file yields an empty
// cache rather than an error: losing the cache means re-publishing, not
// crashing.
func Load(path string) *SeenCache {
	c := &SeenCache{
		path:      path,
		retention: DefaultRetention,
		entries:   make(map[string]Entry),
		now:       time.Now,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("Cache file not found, starting empty", "path", path)
		return c
	}
	if err != nil {
		slog.Warn("Failed to read cache file, starting empty", "path", path, "error", err)
		return c
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		slog.Warn("Failed to parse cache file, starting empty", "path", path, "error", err)
		c.entries = make(map[string]Entry)
		return c
	}

	slog.Debug("Cache loaded", "path", path, "entries", len(c.entries))
	return c
}

func (c *SeenCache) IsSeen(key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *SeenCache) MarkSeen(key string, e Entry) {
	if e.CachedAt == 0 {
		e.CachedAt = c.now().Unix()
	}
	c.entries[key] = e
}

func (c *SeenCache) Len() int {
	return len(c.entries)
}

// Save purges entries older than the retention window and writes the whole
// map back to disk. It returns the number of purged entries.
func (c *SeenCache) Save() (int, error) {
	purged := c.purge()

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return purged, fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return purged, fmt.Errorf("failed to write cache file: %w", err)
	}

	if purged > 0 {
		slog.Info("Purged expired cache entries", "purged", purged, "remaining", len(c.entries))
	}

	return purged, nil
}

func (c *SeenCache) purge() int {
	cutoff := c.now().Add(-c.retention).Unix()
	purged := 0
	for key, e := range c.entries {
		if e.CachedAt < cutoff {
			delete(c.entries, key)
			purged++
		}
	}
	return purged
}
