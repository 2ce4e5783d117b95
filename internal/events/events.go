// Package events implements the crawl's streaming event API: a tagged sum
// type over the run lifecycle (started/discovery/fetch/save/completed/...)
// and a bounded-channel producer the orchestrator publishes to in temporal
// order. This is distinct from internal/metadata, which is an
// observational sink never consulted for control flow; events ARE the
// caller-facing contract external collaborators (CLI progress rendering,
// profile adapters) consume.
package events

import "time"

// Tag identifies the kind of event carried by an Event. Consumers switch
// on Tag and read only the fields that tag populates.
type Tag string

const (
	TagStarted            Tag = "started"
	TagDiscoveryStarted   Tag = "discovery_started"
	TagSitemapFound       Tag = "sitemap_found"
	TagURLDiscovered      Tag = "url_discovered"
	TagDiscoveryComplete  Tag = "discovery_complete"
	TagResumed            Tag = "resumed"
	TagFetchProgress      Tag = "fetch_progress"
	TagFetchStarted       Tag = "fetch_started"
	TagFetchCompleted     Tag = "fetch_completed"
	TagFetchFailed        Tag = "fetch_failed"
	TagFetchSkipped       Tag = "fetch_skipped"
	TagFetchRetrying      Tag = "fetch_retrying"
	TagPageConverted      Tag = "page_converted"
	TagMetadataExtracted  Tag = "metadata_extracted"
	TagPageSaved          Tag = "page_saved"
	TagPageDeduplicated   Tag = "page_deduplicated"
	TagPageFiltered       Tag = "page_filtered"
	TagProcessingStarted  Tag = "processing_started"
	TagProcessingComplete Tag = "processing_completed"
	TagCancelled          Tag = "cancelled"
	TagCompleted          Tag = "completed"
	TagFailed             Tag = "failed"
)

// SkipReason is the closed set of reasons a fetch_skipped/page_filtered
// event may carry.
type SkipReason string

const (
	SkipRobotsDisallowed   SkipReason = "robots_disallowed"
	SkipAlreadyFetched     SkipReason = "already_fetched"
	SkipCacheUnchanged     SkipReason = "cache_unchanged"
	SkipInvalidContentType SkipReason = "invalid_content_type"
	SkipDuplicateContent   SkipReason = "duplicate_content"
	SkipPatternExcluded    SkipReason = "pattern_excluded"
	SkipMaxDepthExceeded   SkipReason = "max_depth_exceeded"
	SkipHTTPError          SkipReason = "http_error"
	SkipFileExists         SkipReason = "file_exists"
	SkipDryRun             SkipReason = "dry_run"
)

// Event is the tagged sum type. Only the fields relevant to Tag are
// meaningful; the rest are zero-valued.
type Event struct {
	Tag       Tag
	Timestamp time.Time

	URL         string
	Index       int
	Total       int
	StatusCode  int
	Reason      SkipReason
	Message     string
	DuplicateOf string
	RetryCount  int

	PagesFetched int
	PagesSkipped int
	PagesFailed  int
}

func stamped(tag Tag) Event {
	return Event{Tag: tag, Timestamp: time.Now()}
}

// Started builds a started event.
func Started() Event { return stamped(TagStarted) }

// DiscoveryStarted builds a discovery_started event.
func DiscoveryStarted() Event { return stamped(TagDiscoveryStarted) }

// SitemapFound builds a sitemap_found event for the given sitemap URL.
func SitemapFound(sitemapURL string) Event {
	e := stamped(TagSitemapFound)
	e.URL = sitemapURL
	return e
}

// URLDiscovered builds a url_discovered event.
func URLDiscovered(discoveredURL string) Event {
	e := stamped(TagURLDiscovered)
	e.URL = discoveredURL
	return e
}

// DiscoveryComplete builds a discovery_complete event reporting how many
// URLs were discovered in total.
func DiscoveryComplete(total int) Event {
	e := stamped(TagDiscoveryComplete)
	e.Total = total
	return e
}

// Resumed builds a resumed event reporting the pending URL count loaded
// from the cache's discovered-URL list.
func Resumed(pending int) Event {
	e := stamped(TagResumed)
	e.Total = pending
	return e
}

// FetchProgress builds a fetch_progress event for URL at position index
// out of total.
func FetchProgress(fetchURL string, index, total int) Event {
	e := stamped(TagFetchProgress)
	e.URL = fetchURL
	e.Index = index
	e.Total = total
	return e
}

// FetchStarted builds a fetch_started event.
func FetchStarted(fetchURL string) Event {
	e := stamped(TagFetchStarted)
	e.URL = fetchURL
	return e
}

// FetchCompleted builds a fetch_completed event.
func FetchCompleted(fetchURL string, statusCode int) Event {
	e := stamped(TagFetchCompleted)
	e.URL = fetchURL
	e.StatusCode = statusCode
	return e
}

// FetchFailed builds a fetch_failed event.
func FetchFailed(fetchURL, message string) Event {
	e := stamped(TagFetchFailed)
	e.URL = fetchURL
	e.Message = message
	return e
}

// FetchSkipped builds a fetch_skipped event carrying the gate reason.
func FetchSkipped(fetchURL string, reason SkipReason) Event {
	e := stamped(TagFetchSkipped)
	e.URL = fetchURL
	e.Reason = reason
	return e
}

// FetchRetrying builds a fetch_retrying event.
func FetchRetrying(fetchURL string, retryCount int) Event {
	e := stamped(TagFetchRetrying)
	e.URL = fetchURL
	e.RetryCount = retryCount
	return e
}

// PageConverted builds a page_converted event.
func PageConverted(pageURL string) Event {
	e := stamped(TagPageConverted)
	e.URL = pageURL
	return e
}

// MetadataExtracted builds a metadata_extracted event.
func MetadataExtracted(pageURL string) Event {
	e := stamped(TagMetadataExtracted)
	e.URL = pageURL
	return e
}

// PageSaved builds a page_saved event.
func PageSaved(pageURL string) Event {
	e := stamped(TagPageSaved)
	e.URL = pageURL
	return e
}

// PageDeduplicated builds a page_deduplicated event naming the URL the
// duplicate content was first registered under.
func PageDeduplicated(pageURL, duplicateOf string) Event {
	e := stamped(TagPageDeduplicated)
	e.URL = pageURL
	e.DuplicateOf = duplicateOf
	return e
}

// PageFiltered builds a page_filtered event.
func PageFiltered(pageURL string, reason SkipReason) Event {
	e := stamped(TagPageFiltered)
	e.URL = pageURL
	e.Reason = reason
	return e
}

// ProcessingStarted builds a processing_started event.
func ProcessingStarted(pageURL string) Event {
	e := stamped(TagProcessingStarted)
	e.URL = pageURL
	return e
}

// ProcessingCompleted builds a processing_completed event.
func ProcessingCompleted(pageURL string) Event {
	e := stamped(TagProcessingComplete)
	e.URL = pageURL
	return e
}

// Cancelled builds a cancelled event.
func Cancelled() Event { return stamped(TagCancelled) }

// Completed builds a completed event reporting final run totals.
func Completed(fetched, skipped, failed int) Event {
	e := stamped(TagCompleted)
	e.PagesFetched = fetched
	e.PagesSkipped = skipped
	e.PagesFailed = failed
	return e
}

// Failed builds a failed event for a catastrophic, non-recoverable error.
func Failed(message string) Event {
	e := stamped(TagFailed)
	e.Message = message
	return e
}
