package discovery

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/urlvalidator"
)

// sitemapProbePaths are tried in order when the seed itself isn't a
// sitemap URL.
var sitemapProbePaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap/sitemap.xml",
	"/sitemaps/sitemap.xml",
}

// xmlURLSet/xmlSitemapIndex model the two sitemap XML shapes spec §4.4
// requires support for, with or without the standard namespace prefix.
// encoding/xml never resolves external entities, so no XXE hardening is
// needed beyond using it instead of a DTD-aware parser.
type xmlURLSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []xmlURLEntry `xml:"url"`
}

type xmlURLEntry struct {
	Loc string `xml:"loc"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name        `xml:"sitemapindex"`
	Sitemaps []xmlSitemapRef `xml:"sitemap"`
}

type xmlSitemapRef struct {
	Loc string `xml:"loc"`
}

// SitemapDiscoverer implements spec §4.4: probe well-known sitemap paths,
// recursively drain <urlset>/<sitemapindex> documents (and RSS/Atom feed
// sitemaps via gofeed), filtering and deduplicating yielded URLs.
type SitemapDiscoverer struct {
	httpClient   *http.Client
	validator    *urlvalidator.Validator
	robot        robots.Robot
	metadataSink metadata.MetadataSink
	param        Param
}

func NewSitemapDiscoverer(httpClient *http.Client, validator *urlvalidator.Validator, robot robots.Robot, metadataSink metadata.MetadataSink, param Param) *SitemapDiscoverer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SitemapDiscoverer{
		httpClient:   httpClient,
		validator:    validator,
		robot:        robot,
		metadataSink: metadataSink,
		param:        param,
	}
}

// Discover drains every sitemap reachable from seed into a flat,
// deduplicated, filtered URL list, honoring param.MaxURLs.
func (d *SitemapDiscoverer) Discover(seed url.URL) []url.URL {
	chain := newFilterChain(seed.Hostname(), d.param, d.validator, d.robot, "")

	candidates := d.candidateSitemaps(seed)
	var results []url.URL
	for _, sitemapURL := range candidates {
		if d.param.MaxURLs > 0 && len(results) >= d.param.MaxURLs {
			break
		}
		d.drain(sitemapURL, 0, chain, &results)
	}
	return results
}

func (d *SitemapDiscoverer) candidateSitemaps(seed url.URL) []string {
	if strings.HasSuffix(seed.Path, ".xml") {
		return []string{seed.String()}
	}

	base := fmt.Sprintf("%s://%s", seed.Scheme, seed.Host)
	candidates := make([]string, 0, len(sitemapProbePaths))
	for _, path := range sitemapProbePaths {
		candidates = append(candidates, base+path)
	}
	return candidates
}

// drain fetches and parses one sitemap URL, recursing into nested
// sitemaps up to MaxSitemapDepth. A failed sub-fetch or parse is logged
// and skipped rather than aborting the whole discovery run.
func (d *SitemapDiscoverer) drain(sitemapURL string, depth int, chain *filterChain, results *[]url.URL) {
	if depth > d.param.MaxSitemapDepth {
		return
	}
	if d.param.MaxURLs > 0 && len(*results) >= d.param.MaxURLs {
		return
	}

	body, err := d.fetchBounded(sitemapURL)
	if err != nil {
		d.recordSkip(sitemapURL, ErrCauseFetchFailed, err)
		return
	}

	if urlSet, ok := parseURLSet(body); ok {
		for _, entry := range urlSet.URLs {
			if d.param.MaxURLs > 0 && len(*results) >= d.param.MaxURLs {
				return
			}
			d.admitLoc(entry.Loc, chain, results)
		}
		return
	}

	if index, ok := parseSitemapIndex(body); ok {
		for _, ref := range index.Sitemaps {
			d.drain(ref.Loc, depth+1, chain, results)
		}
		return
	}

	if urls, ok := parseFeedSitemap(body); ok {
		for _, loc := range urls {
			d.admitLoc(loc, chain, results)
		}
		return
	}

	d.recordSkip(sitemapURL, ErrCauseParseFailed, fmt.Errorf("unrecognized sitemap format"))
}

func (d *SitemapDiscoverer) admitLoc(loc string, chain *filterChain, results *[]url.URL) {
	parsed, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return
	}
	if admitted, ok := chain.admit(*parsed); ok {
		*results = append(*results, admitted)
	}
}

func (d *SitemapDiscoverer) fetchBounded(target string) ([]byte, error) {
	resp, err := d.httpClient.Get(target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, target)
	}

	limit := d.param.MaxSitemapBytes
	if limit <= 0 {
		limit = 50 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("sitemap %s exceeds %d byte limit", target, limit)
	}
	return body, nil
}

func parseURLSet(body []byte) (xmlURLSet, bool) {
	var urlSet xmlURLSet
	if err := xml.Unmarshal(body, &urlSet); err != nil || len(urlSet.URLs) == 0 {
		return xmlURLSet{}, false
	}
	return urlSet, true
}

func parseSitemapIndex(body []byte) (xmlSitemapIndex, bool) {
	var index xmlSitemapIndex
	if err := xml.Unmarshal(body, &index); err != nil || len(index.Sitemaps) == 0 {
		return xmlSitemapIndex{}, false
	}
	return index, true
}

// parseFeedSitemap handles the RSS/Atom feed-shaped sitemaps some
// documentation sites publish alongside urlset/sitemapindex XML.
func parseFeedSitemap(body []byte) ([]string, bool) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil || feed == nil || len(feed.Items) == 0 {
		return nil, false
	}

	urls := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, len(urls) > 0
}

func (d *SitemapDiscoverer) recordSkip(sitemapURL string, cause DiscoveryErrorCause, err error) {
	if d.metadataSink == nil {
		return
	}
	discoveryErr := &DiscoveryError{Message: err.Error(), Retryable: false, Cause: cause, URL: sitemapURL}
	d.metadataSink.RecordError(
		time.Now(),
		"discovery",
		"SitemapDiscoverer.drain",
		mapDiscoveryErrorToMetadataCause(discoveryErr),
		discoveryErr.Error(),
		[]metadata.Attribute{{Key: metadata.AttrURL, Value: sitemapURL}},
	)
}
