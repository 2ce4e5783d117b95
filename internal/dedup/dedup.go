// Package dedup implements the crawl's streaming content deduplicator:
// content-hash-keyed, in-memory, cleared at the start of every run. It
// never touches disk — the cache package (internal/cache) is the
// persistent, cross-run dedup mechanism via ETag/Last-Modified/checksum
// comparison.
package dedup

import (
	"sync"

	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

// Stats mirrors the spec's {unique_pages, total_checked, duplicates_found,
// dedup_rate} statistics record.
type Stats struct {
	UniquePages     int
	TotalChecked    int
	DuplicatesFound int
	DedupRate       float64
}

// Deduplicator checks content against previously-seen hashes under a
// single lock, so check_and_register is atomic: concurrent callers racing
// on identical content never both win registration.
type Deduplicator struct {
	mu       sync.Mutex
	algo     hashutil.HashAlgo
	firstURL map[string]string // content hash -> URL first registered with it
	checked  int
	dupes    int
}

// New returns a Deduplicator keyed by algo (sha256 or blake3).
func New(algo hashutil.HashAlgo) *Deduplicator {
	return &Deduplicator{
		algo:     algo,
		firstURL: make(map[string]string),
	}
}

// CheckAndRegister hashes content, and if a URL is already registered
// under that hash, reports should_save=false with that URL. Otherwise it
// registers targetURL as the first owner of the hash and reports
// should_save=true.
func (d *Deduplicator) CheckAndRegister(targetURL string, content []byte) (shouldSave bool, duplicateOf string, err error) {
	hash, err := hashutil.HashBytes(content, d.algo)
	if err != nil {
		return false, "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.checked++
	if owner, exists := d.firstURL[hash]; exists {
		d.dupes++
		return false, owner, nil
	}

	d.firstURL[hash] = targetURL
	return true, "", nil
}

// IsDuplicate is a read-only probe: true if content's hash has already
// been registered by a prior CheckAndRegister call.
func (d *Deduplicator) IsDuplicate(content []byte) (bool, error) {
	hash, err := hashutil.HashBytes(content, d.algo)
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	_, exists := d.firstURL[hash]
	return exists, nil
}

// Stats returns a snapshot of the run's dedup statistics.
func (d *Deduplicator) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := Stats{
		UniquePages:     len(d.firstURL),
		TotalChecked:    d.checked,
		DuplicatesFound: d.dupes,
	}
	if d.checked > 0 {
		stats.DedupRate = float64(d.dupes) / float64(d.checked)
	}
	return stats
}

// Reset clears all registered hashes. A Deduplicator is cleared at the
// start of every crawl run; callers that reuse one across runs must call
// this explicitly.
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.firstURL = make(map[string]string)
	d.checked = 0
	d.dupes = 0
}
