package discovery

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserExtractor renders a page through a headless Chromium instance
// before extracting links, for documentation sites whose navigation is
// assembled client-side (spec §4.5's "browser-backed extractor can run
// JavaScript and intercept network requests"). Pages are drawn from a
// bounded pool so a crawl never opens more concurrent tabs than the pool
// size, and each page is reset to about:blank and returned to the pool
// between uses rather than torn down.
type BrowserExtractor struct {
	browser  *rod.Browser
	pagePool chan *rod.Page
	static   StaticExtractor
}

// NewBrowserExtractor launches a headless browser and prepares poolSize
// stealth-patched pages, to reduce bot-detection false positives on
// documentation sites that gate rendering behind a JS challenge.
func NewBrowserExtractor(poolSize int) (*BrowserExtractor, error) {
	if poolSize < 1 {
		poolSize = 1
	}

	browser := rod.New()
	if err := browser.Connect(); err != nil {
		return nil, err
	}

	pool := make(chan *rod.Page, poolSize)
	for i := 0; i < poolSize; i++ {
		page, err := stealth.Page(browser)
		if err != nil {
			return nil, err
		}
		pool <- page
	}

	return &BrowserExtractor{browser: browser, pagePool: pool}, nil
}

// ExtractLinks navigates pageURL in a pooled page, waits for it to settle,
// scrolls once to trigger lazy-loaded navigation, and extracts links from
// the rendered DOM the same way StaticExtractor does from fetched HTML.
func (b *BrowserExtractor) ExtractLinks(ctx context.Context, pageURL string) ([]string, error) {
	page := b.getPage()
	defer b.putPage(page)

	deadline, ok := ctx.Deadline()
	timeout := 30 * time.Second
	if ok {
		timeout = time.Until(deadline)
	}

	if err := page.Timeout(timeout).Navigate(pageURL); err != nil {
		return nil, err
	}
	if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
		return nil, err
	}
	if _, err := page.Eval(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	return b.static.ExtractLinks([]byte(html))
}

// getPage takes a page from the pool, or opens a fresh about:blank page
// if the pool is momentarily empty.
func (b *BrowserExtractor) getPage() *rod.Page {
	select {
	case page := <-b.pagePool:
		return page
	default:
		page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			return nil
		}
		return page
	}
}

func (b *BrowserExtractor) putPage(page *rod.Page) {
	if page == nil {
		return
	}
	_ = page.Navigate("about:blank")

	select {
	case b.pagePool <- page:
	default:
		_ = page.Close()
	}
}

// Close tears down every pooled page and the underlying browser process.
func (b *BrowserExtractor) Close() error {
	close(b.pagePool)
	var firstErr error
	for page := range b.pagePool {
		if err := page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := b.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
