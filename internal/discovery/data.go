package discovery

// Param bounds one discovery run: seed-independent limits shared by the
// sitemap discoverer, link crawler, and composite discoverer.
type Param struct {
	MaxURLs          int
	MaxDepth         int
	MaxSitemapDepth  int
	MaxSitemapBytes  int64
	IncludePatterns  []string
	ExcludePatterns  []string
	AllowSubdomains  bool
	FallbackThreshold int
}

// DefaultParam returns the spec's documented defaults: max sitemap
// recursion depth 5, 50 MiB sitemap size cap, fallback threshold 5.
func DefaultParam() Param {
	return Param{
		MaxSitemapDepth:   5,
		MaxSitemapBytes:   50 * 1024 * 1024,
		FallbackThreshold: 5,
	}
}
