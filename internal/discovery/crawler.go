package discovery

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rohmanhakim/docs-crawler/internal/frontier"
	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/urlvalidator"
)

// LinkCrawler implements spec §4.5: a breadth-first traversal starting
// from a seed URL, fetching each admitted page's HTML and extracting
// further candidate links from it, bounded by MaxDepth and MaxURLs.
type LinkCrawler struct {
	httpClient *http.Client
	extractor  LinkExtractor
	validator  *urlvalidator.Validator
	robot      robots.Robot
	param      Param
}

func NewLinkCrawler(httpClient *http.Client, extractor LinkExtractor, validator *urlvalidator.Validator, robot robots.Robot, param Param) *LinkCrawler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if extractor == nil {
		extractor = StaticExtractor{}
	}
	return &LinkCrawler{
		httpClient: httpClient,
		extractor:  extractor,
		validator:  validator,
		robot:      robot,
		param:      param,
	}
}

// Crawl performs the BFS traversal and returns every admitted URL in
// first-discovered order, seed first.
func (c *LinkCrawler) Crawl(ctx context.Context, seed url.URL) []url.URL {
	chain := newFilterChain(seed.Hostname(), c.param, c.validator, c.robot, "")

	queue := frontier.NewFIFOQueue[frontier.CrawlToken]()
	var results []url.URL

	if admitted, ok := chain.admit(seed); ok {
		queue.Enqueue(frontier.NewCrawlToken(admitted, 0))
	}

	maxDepth := c.param.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}

	for {
		if ctx.Err() != nil {
			break
		}
		if c.param.MaxURLs > 0 && len(results) >= c.param.MaxURLs {
			break
		}

		token, ok := queue.Dequeue()
		if !ok {
			break
		}

		target := token.URL()
		results = append(results, target)

		if token.Depth() >= maxDepth {
			continue
		}
		if !c.isHTMLLike(target) {
			continue
		}

		body, err := c.fetch(ctx, target)
		if err != nil {
			continue
		}

		links, err := c.extractor.ExtractLinks(body)
		if err != nil {
			continue
		}

		for _, href := range links {
			if c.param.MaxURLs > 0 && len(results)+queue.Size() >= c.param.MaxURLs {
				break
			}
			resolved, ok := resolveAndStripFragment(target, href)
			if !ok {
				continue
			}
			if admitted, ok := chain.admit(resolved); ok {
				queue.Enqueue(frontier.NewCrawlToken(admitted, token.Depth()+1))
			}
		}
	}

	return results
}

// isHTMLLike skips obviously non-HTML paths (assets) from being fetched
// for link extraction; the fetcher/pipeline handles content-type
// negotiation for the final crawl, this is only a BFS traversal cue.
func (c *LinkCrawler) isHTMLLike(target url.URL) bool {
	lower := strings.ToLower(target.Path)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".css", ".js", ".pdf", ".zip", ".woff", ".woff2"} {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}

func (c *LinkCrawler) fetch(ctx context.Context, target url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DiscoveryError{Message: "non-200 response", Cause: ErrCauseFetchFailed, URL: target.String()}
	}

	return io.ReadAll(resp.Body)
}
