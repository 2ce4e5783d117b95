package metadata

import (
	"sync"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/obslog"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// MetadataSink is the write side every pipeline package records through.
// It is intentionally narrow: callers report observations, never read them
// back to make decisions.
type MetadataSink interface {
	RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int)
	RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int)
	RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
	RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration)
}

// Recorder is the crawl's in-memory MetadataSink: it appends every
// observation to a run-scoped log and mirrors it to obslog for live
// auditability. It never feeds its accumulated history back into crawl
// control flow.
type Recorder struct {
	mu  sync.Mutex
	log *obslog.Logger

	fetches   []FetchEvent
	errors    []ErrorRecord
	artifacts []ArtifactRecord
	final     *crawlStats
}

// NewRecorder returns a Recorder logging through log. A nil log is valid
// and simply suppresses log output (Logger's methods are nil-safe).
func NewRecorder(log *obslog.Logger) *Recorder {
	return &Recorder{log: log}
}

func (r *Recorder) RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	event := FetchEvent{
		fetchUrl:    fetchURL,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		retryCount:  retryCount,
		crawlDepth:  crawlDepth,
	}
	r.mu.Lock()
	r.fetches = append(r.fetches, event)
	r.mu.Unlock()

	r.log.Infof("fetch url=%q status=%d depth=%d retries=%d duration=%s content_type=%q",
		fetchURL, httpStatus, crawlDepth, retryCount, duration, contentType)
}

func (r *Recorder) RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int) {
	event := FetchEvent{
		fetchUrl:   fetchURL,
		httpStatus: httpStatus,
		duration:   duration,
		retryCount: retryCount,
	}
	r.mu.Lock()
	r.fetches = append(r.fetches, event)
	r.mu.Unlock()

	r.log.Debugf("asset_fetch url=%q status=%d retries=%d duration=%s", fetchURL, httpStatus, retryCount, duration)
}

func (r *Recorder) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
	record := ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	}
	r.mu.Lock()
	r.errors = append(r.errors, record)
	r.mu.Unlock()

	r.log.Warnf("error package=%s action=%s cause=%d msg=%q", packageName, action, cause, errorString)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	record := ArtifactRecord{kind: kind, paths: path, attrs: attrs}
	r.mu.Lock()
	r.artifacts = append(r.artifacts, record)
	r.mu.Unlock()

	r.log.Debugf("artifact kind=%s path=%s", kind, path)
}

func (r *Recorder) RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration) {
	stats := crawlStats{
		totalPages:  totalPages,
		totalErrors: totalErrors,
		totalAssets: totalAssets,
		durationMs:  duration.Milliseconds(),
	}
	r.mu.Lock()
	r.final = &stats
	r.mu.Unlock()

	r.log.Infof("crawl complete pages=%d errors=%d assets=%d duration=%s", totalPages, totalErrors, totalAssets, duration)
}

// FetchEvents returns a defensive copy of every fetch/asset-fetch observed
// so far.
func (r *Recorder) FetchEvents() []FetchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FetchEvent, len(r.fetches))
	copy(out, r.fetches)
	return out
}

// ErrorRecords returns a defensive copy of every error observed so far.
func (r *Recorder) ErrorRecords() []ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorRecord, len(r.errors))
	copy(out, r.errors)
	return out
}

// Artifacts returns a defensive copy of every artifact recorded so far.
func (r *Recorder) Artifacts() []ArtifactRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ArtifactRecord, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// CrawlFinalizer is the narrow write surface the scheduler holds to emit
// the terminal crawl summary from its own single defer at the end of
// ExecuteCrawling. Any MetadataSink (in particular *Recorder) satisfies
// it; keeping it as its own interface, rather than requiring the full
// MetadataSink, stops the scheduler from reaching for the other
// observation methods once the crawl has ended.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration)
}
