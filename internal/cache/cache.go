// Package cache implements the crawl's incremental cache: a URL->entry
// manifest plus a fetched/failed state file, both persisted under a cache
// directory and flushed atomically (write-temp-then-rename). It is the
// cross-run counterpart to internal/dedup's in-memory, single-run content
// deduplicator.
package cache

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	manifestFilename = "manifest.json"
	stateFilename     = "state.json"
)

// Cache holds the manifest and state in memory; all mutating operations
// batch into these maps and only hit disk on Flush.
type Cache struct {
	mu  sync.Mutex
	dir string

	manifest map[string]ManifestEntry
	fetched  map[string]struct{}
	failed   map[string]struct{}
	pending  map[string][]string
	lastRun  time.Time
}

// New returns a Cache rooted at dir. Load must be called to populate it
// from any manifest/state already on disk; a freshly-constructed Cache
// with no Load call behaves as an empty one.
func New(dir string) *Cache {
	return &Cache{
		dir:      dir,
		manifest: make(map[string]ManifestEntry),
		fetched:  make(map[string]struct{}),
		failed:   make(map[string]struct{}),
		pending:  make(map[string][]string),
	}
}

// Load reads manifest.json/state.json from dir, if present. A missing
// file is not an error — the cache simply starts empty.
func (c *Cache) Load() *CacheError {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mf, err := readJSON[manifestFile](filepath.Join(c.dir, manifestFilename)); err != nil {
		return err
	} else if mf != nil && mf.Entries != nil {
		c.manifest = mf.Entries
	}

	sf, err := readJSON[stateFile](filepath.Join(c.dir, stateFilename))
	if err != nil {
		return err
	}
	if sf != nil {
		if sf.Fetched != nil {
			c.fetched = sf.Fetched
		}
		if sf.Failed != nil {
			c.failed = sf.Failed
		}
		if sf.PendingDiscovered != nil {
			c.pending = sf.PendingDiscovered
		}
		c.lastRun = sf.LastRun
	}
	return nil
}

func readJSON[T any](path string) (*T, *CacheError) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseReadFailure}
	}

	var decoded T
	if err := jsonAPI.Unmarshal(data, &decoded); err != nil {
		return nil, &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseSerializeFailed}
	}
	return &decoded, nil
}

// HasChanged reports whether url should be treated as changed. An unknown
// URL is always "changed". Otherwise entries are compared in priority
// order: ETag, then Last-Modified, then content checksum; absent all
// three signals, the URL is conservatively treated as changed.
func (c *Cache) HasChanged(url string, content []byte, etag, lastModified string) bool {
	c.mu.Lock()
	entry, known := c.manifest[url]
	c.mu.Unlock()

	if !known {
		return true
	}

	if etag != "" && entry.ETag != "" {
		return etag != entry.ETag
	}
	if lastModified != "" && entry.LastModified != "" {
		return lastModified != entry.LastModified
	}
	if content != nil && entry.Checksum != "" {
		sum, err := hashutil.HashBytes(content, hashutil.HashAlgoSHA256)
		if err != nil {
			return true
		}
		return sum != entry.Checksum
	}
	return true
}

// UpdateCache writes a new manifest entry for url.
func (c *Cache) UpdateCache(url string, content []byte, filePath, etag, lastModified string) *CacheError {
	var checksum string
	if content != nil {
		sum, err := hashutil.HashBytes(content, hashutil.HashAlgoSHA256)
		if err != nil {
			return &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseSerializeFailed}
		}
		checksum = sum
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifest[url] = ManifestEntry{
		URL:          url,
		ETag:         etag,
		LastModified: lastModified,
		Checksum:     checksum,
		FilePath:     filePath,
		FetchedAt:    time.Now(),
	}
	return nil
}

// MarkFetched set-unions url into the fetched set.
func (c *Cache) MarkFetched(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetched[url] = struct{}{}
}

// MarkFailed set-unions url into the failed set.
func (c *Cache) MarkFailed(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[url] = struct{}{}
}

// IsFetched is an O(1) probe against the fetched set.
func (c *Cache) IsFetched(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.fetched[url]
	return ok
}

// IsFailed is an O(1) probe against the failed set.
func (c *Cache) IsFailed(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.failed[url]
	return ok
}

// SaveDiscoveredURLs persists the discovery result for seed so a later
// run can resume without re-discovering.
func (c *Cache) SaveDiscoveredURLs(seed string, urls []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[seed] = append([]string(nil), urls...)
}

// GetPendingURLs returns the discovered-but-not-yet-processed URL list for
// seed, or nil if none is recorded.
func (c *Cache) GetPendingURLs(seed string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[seed]
}

// ClearDiscoveredURLs removes seed's pending URL list, marking its
// discovery/resume cycle complete.
func (c *Cache) ClearDiscoveredURLs(seed string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, seed)
}

// EvictExpired removes manifest entries whose FetchedAt is older than
// ttlDays. Entries with a zero FetchedAt (malformed/missing timestamp)
// are kept rather than evicted.
func (c *Cache) EvictExpired(ttlDays int) {
	if ttlDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -ttlDays)

	c.mu.Lock()
	defer c.mu.Unlock()
	for url, entry := range c.manifest {
		if entry.FetchedAt.IsZero() {
			continue
		}
		if entry.FetchedAt.Before(cutoff) {
			delete(c.manifest, url)
		}
	}
}

// Flush atomically persists the manifest and state to disk via
// write-temp-then-rename.
func (c *Cache) Flush() *CacheError {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastRun = time.Now()

	if err := writeJSONAtomic(filepath.Join(c.dir, manifestFilename), manifestFile{Entries: c.manifest}); err != nil {
		return err
	}
	return writeJSONAtomic(filepath.Join(c.dir, stateFilename), stateFile{
		Fetched:           c.fetched,
		Failed:            c.failed,
		LastRun:           c.lastRun,
		PendingDiscovered: c.pending,
	})
}

func writeJSONAtomic(path string, value any) *CacheError {
	body, err := jsonAPI.MarshalIndent(value, "", "  ")
	if err != nil {
		return &CacheError{Message: err.Error(), Retryable: false, Cause: ErrCauseSerializeFailed}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, body, 0644); err != nil {
		return &CacheError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteFailure}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &CacheError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteFailure}
	}
	return nil
}
