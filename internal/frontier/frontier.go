package frontier

import (
	"sync"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain BFS ordering
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage

It is a data structure + policy module, not a pipeline executor.
*/

// Frontier is a thread-safe BFS admission queue: one FIFOQueue[CrawlToken]
// per depth level, plus a canonical-URL-string Set for dedup. It enforces
// maxDepth/maxPages at Submit time; Dequeue walks depth levels in
// ascending order, skipping nil/empty ones, and never panics on a depth
// that was never initialized.
type Frontier struct {
	mu sync.Mutex

	maxDepth int
	maxPages int

	visited       Set[string]
	queuesByDepth map[int]*FIFOQueue[CrawlToken]
	admitted      int
}

func NewCrawlFrontier() *Frontier {
	return &Frontier{
		visited:       NewSet[string](),
		queuesByDepth: make(map[int]*FIFOQueue[CrawlToken]),
	}
}

// Init applies the crawl scope limits from cfg. A zero-value Config means
// no depth/page limits (maxDepth and maxPages both 0, interpreted as
// unlimited).
func (f *Frontier) Init(cfg config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxDepth = cfg.MaxDepth()
	f.maxPages = cfg.MaxPages()
}

// Submit admits a candidate into the frontier if it passes depth and page
// limits and has not already been seen. The candidate is assumed to have
// already cleared robots/scope admission upstream — Submit only applies
// frontier-local policy: BFS ordering, depth/page budget, dedup.
func (f *Frontier) Submit(candidate CrawlAdmissionCandidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := candidate.DiscoveryMetadata().Depth()
	if f.maxDepth > 0 && depth > f.maxDepth {
		return
	}
	if f.maxPages > 0 && f.admitted >= f.maxPages {
		return
	}

	key := urlutil.Canonicalize(candidate.TargetURL()).String()
	if f.visited.Contains(key) {
		return
	}
	f.visited.Add(key)
	f.admitted++

	queue, exists := f.queuesByDepth[depth]
	if !exists {
		queue = NewFIFOQueue[CrawlToken]()
		f.queuesByDepth[depth] = queue
	}
	queue.Enqueue(NewCrawlToken(candidate.TargetURL(), depth))
}

// Dequeue returns the next token in BFS order: the lowest depth with a
// pending entry. It is nil-safe against depth levels that were never
// initialized or have since drained.
func (f *Frontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := f.minPendingDepthLocked()
	if depth == -1 {
		return CrawlToken{}, false
	}
	return f.queuesByDepth[depth].Dequeue()
}

// minPendingDepthLocked returns the smallest depth key with a non-empty
// queue, or -1 if none. Caller must hold f.mu.
func (f *Frontier) minPendingDepthLocked() int {
	min := -1
	for depth, queue := range f.queuesByDepth {
		if queue == nil || queue.Size() == 0 {
			continue
		}
		if min == -1 || depth < min {
			min = depth
		}
	}
	return min
}

// IsDepthExhausted reports whether depth has no pending entries. Negative
// depths are always exhausted.
func (f *Frontier) IsDepthExhausted(depth int) bool {
	if depth < 0 {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	queue, exists := f.queuesByDepth[depth]
	return !exists || queue.Size() == 0
}

// CurrentMinDepth returns the smallest depth with a pending entry, or -1
// if the frontier is empty.
func (f *Frontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.minPendingDepthLocked()
}

// VisitedCount returns the number of unique URLs ever admitted to the
// frontier (including ones already dequeued).
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Size()
}
