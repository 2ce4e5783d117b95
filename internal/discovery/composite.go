package discovery

import (
	"context"
	"net/url"

	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

// CompositeDiscoverer implements spec §4.6: drain the sitemap discoverer
// first, and fall back to the link crawler only if the sitemap yield
// falls short of FallbackThreshold. Results are emitted in
// first-discovered order, deduplicated against one run-wide seen-set —
// never sorted.
type CompositeDiscoverer struct {
	sitemap *SitemapDiscoverer
	crawler *LinkCrawler
	param   Param
}

func NewCompositeDiscoverer(sitemap *SitemapDiscoverer, crawler *LinkCrawler, param Param) *CompositeDiscoverer {
	return &CompositeDiscoverer{sitemap: sitemap, crawler: crawler, param: param}
}

// Discover runs the sitemap-first, crawler-fallback strategy against
// seed and returns the combined, deduplicated, order-preserving result.
func (c *CompositeDiscoverer) Discover(ctx context.Context, seed url.URL) []url.URL {
	seen := make(map[string]struct{})
	var results []url.URL

	admit := func(candidate url.URL) {
		if c.param.MaxURLs > 0 && len(results) >= c.param.MaxURLs {
			return
		}
		key := urlutil.Canonicalize(candidate).String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		results = append(results, candidate)
	}

	var sitemapYield int
	if c.sitemap != nil {
		for _, candidate := range c.sitemap.Discover(seed) {
			before := len(results)
			admit(candidate)
			if len(results) > before {
				sitemapYield++
			}
		}
	}

	threshold := c.param.FallbackThreshold
	if threshold <= 0 {
		threshold = 5
	}

	if sitemapYield < threshold && c.crawler != nil {
		if c.param.MaxURLs <= 0 || len(results) < c.param.MaxURLs {
			for _, candidate := range c.crawler.Crawl(ctx, seed) {
				admit(candidate)
			}
		}
	}

	return results
}
