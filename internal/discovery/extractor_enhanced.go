package discovery

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// enhancedAttributeQueries are xpath expressions pulling the non-anchor
// navigation hints goquery's CSS selectors don't cover well: data-href/
// data-url/data-link attributes. htmlquery.Find compiles and evaluates
// each expression against the parsed DOM via antchfx/xpath internally.
var enhancedAttributeQueries = []string{
	"//*/@data-href",
	"//*/@data-url",
	"//*/@data-link",
}

const jsonLDQuery = `//script[@type="application/ld+json"]`

// EnhancedExtractor layers xpath-driven attribute extraction on top of
// StaticExtractor's anchor hrefs, per spec §4.5's "enhanced extractors"
// (data-href/data-url/data-link, JSON-LD URL fields).
type EnhancedExtractor struct {
	static StaticExtractor
}

func NewEnhancedExtractor() *EnhancedExtractor {
	return &EnhancedExtractor{}
}

func (e *EnhancedExtractor) ExtractLinks(body []byte) ([]string, error) {
	links, err := e.static.ExtractLinks(body)
	if err != nil {
		return nil, err
	}

	doc, parseErr := htmlquery.Parse(strings.NewReader(string(body)))
	if parseErr != nil {
		return links, nil // non-fatal: fall back to anchors only
	}

	for _, query := range enhancedAttributeQueries {
		for _, n := range htmlquery.Find(doc, query) {
			if value := strings.TrimSpace(htmlquery.InnerText(n)); value != "" {
				links = append(links, value)
			}
		}
	}

	links = append(links, extractJSONLDURLs(doc)...)
	return links, nil
}

// extractJSONLDURLs does a cheap substring scan of each <script
// type="application/ld+json"> block for a "url" field, rather than a full
// JSON-LD graph walk, since the spec only asks that JSON-LD URL fields be
// considered a candidate source, not that JSON-LD be modeled structurally.
func extractJSONLDURLs(doc *html.Node) []string {
	var urls []string
	for _, script := range htmlquery.Find(doc, jsonLDQuery) {
		text := htmlquery.InnerText(script)
		const marker = `"url"`
		idx := strings.Index(text, marker)
		if idx == -1 {
			continue
		}
		rest := text[idx+len(marker):]
		start := strings.Index(rest, `"`)
		if start == -1 {
			continue
		}
		rest = rest[start+1:]
		end := strings.Index(rest, `"`)
		if end == -1 {
			continue
		}
		urls = append(urls, rest[:end])
	}
	return urls
}
