package fetcher

import (
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/rehttp"
	"github.com/rohmanhakim/docs-crawler/internal/config"
)

// NewHTTPClient builds the *http.Client HtmlFetcher.Init wires in before a
// crawl starts: proxy and timeouts from cfg, request-level auth applied as
// a RoundTripper wrapper, and a rehttp retry transport underneath that
// retries transport-level failures (connection reset, timeout) the
// application-level pkg/retry loop never sees because they fail before
// performFetch gets a classifiable *FetchError.
func NewHTTPClient(cfg config.Config) (*http.Client, error) {
	base := &http.Transport{}

	if proxy := cfg.Proxy(); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(proxyURL)
	}

	retried := rehttp.NewTransport(
		base,
		rehttp.RetryAll(
			rehttp.RetryMaxRetries(2),
			rehttp.RetryTemporaryErr(),
		),
		rehttp.ExpJitterDelay(100*time.Millisecond, 2*time.Second),
	)

	var transport http.RoundTripper = retried
	if auth := cfg.Auth(); auth.Type != config.AuthTypeNone {
		transport = &authRoundTripper{base: transport, auth: auth}
	}

	timeout := cfg.ReadTimeout()
	if connectTimeout := cfg.ConnectTimeout(); connectTimeout > timeout {
		timeout = connectTimeout
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// authRoundTripper stamps the configured credential onto every outbound
// request before handing it to base. One Config.AuthConfig per crawl, so
// the shape is fixed for the client's lifetime.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (a *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	switch a.auth.Type {
	case config.AuthTypeBearer:
		clone.Header.Set("Authorization", "Bearer "+a.auth.Token)
	case config.AuthTypeBasic:
		clone.SetBasicAuth(a.auth.Username, a.auth.Password)
	case config.AuthTypeCookie:
		clone.Header.Set("Cookie", a.auth.Cookie)
	case config.AuthTypeHeader:
		clone.Header.Set(a.auth.HeaderName, a.auth.HeaderValue)
	}
	return a.base.RoundTrip(clone)
}
