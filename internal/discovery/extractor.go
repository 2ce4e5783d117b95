package discovery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkExtractor pulls candidate link URLs (still relative, unfiltered) out
// of an HTML page body. The link crawler resolves, filters, and enqueues
// whatever comes back.
type LinkExtractor interface {
	ExtractLinks(body []byte) ([]string, error)
}

// StaticExtractor is the default extractor: plain anchor hrefs via
// goquery, the same DOM library internal/extractor and internal/mdconvert
// already depend on for CSS-selector queries.
type StaticExtractor struct{}

func (StaticExtractor) ExtractLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links, nil
}

// dropNavigationScheme reports whether href uses a scheme the spec
// explicitly excludes from link candidates (javascript/mailto/tel/data),
// or is a pure fragment link.
func dropNavigationScheme(href string) bool {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// resolveAndStripFragment resolves href against base and strips any
// fragment, retaining the query string per spec §4.5.
func resolveAndStripFragment(base url.URL, href string) (url.URL, bool) {
	if dropNavigationScheme(href) {
		return url.URL{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return url.URL{}, false
	}

	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return *resolved, true
}
