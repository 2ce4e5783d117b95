package discovery

import (
	"net/url"
	"path"
	"strings"

	"github.com/rohmanhakim/docs-crawler/internal/robots"
	"github.com/rohmanhakim/docs-crawler/internal/urlvalidator"
	"github.com/rohmanhakim/docs-crawler/pkg/urlutil"
)

// filterChain applies the spec §4.5 gate order to a candidate URL: seen-set,
// domain filter, pattern filter, URL validator, robots gate. Only a URL
// that survives every gate is admitted.
type filterChain struct {
	seen           map[string]struct{}
	sameHost       string
	allowSubdomain bool
	includes       []string
	excludes       []string
	validator      *urlvalidator.Validator
	robot          robots.Robot
	userAgent      string
}

func newFilterChain(seedHost string, param Param, validator *urlvalidator.Validator, robot robots.Robot, userAgent string) *filterChain {
	return &filterChain{
		seen:           make(map[string]struct{}),
		sameHost:       strings.ToLower(seedHost),
		allowSubdomain: param.AllowSubdomains,
		includes:       param.IncludePatterns,
		excludes:       param.ExcludePatterns,
		validator:      validator,
		robot:          robot,
		userAgent:      userAgent,
	}
}

// admit returns the canonicalized URL and true if candidate survives
// every gate; otherwise false.
func (f *filterChain) admit(candidate url.URL) (url.URL, bool) {
	canonical := urlutil.Canonicalize(candidate)
	key := canonical.String()

	if _, dup := f.seen[key]; dup {
		return url.URL{}, false
	}

	if !f.isSameDomain(canonical) {
		return url.URL{}, false
	}

	if !f.matchesPatterns(canonical.Path) {
		return url.URL{}, false
	}

	if f.validator != nil {
		if result := f.validator.Validate(canonical); !result.IsValid {
			return url.URL{}, false
		}
	}

	if f.robot != nil {
		decision, err := f.robot.Decide(canonical)
		if err == nil && !decision.Allowed {
			return url.URL{}, false
		}
	}

	f.seen[key] = struct{}{}
	return canonical, true
}

func (f *filterChain) isSameDomain(candidate url.URL) bool {
	if f.sameHost == "" {
		return true
	}
	host := strings.ToLower(candidate.Hostname())
	if host == f.sameHost {
		return true
	}
	return f.allowSubdomain && strings.HasSuffix(host, "."+f.sameHost)
}

func (f *filterChain) matchesPatterns(urlPath string) bool {
	for _, pattern := range f.excludes {
		if matched, _ := path.Match(pattern, urlPath); matched {
			return false
		}
	}
	if len(f.includes) == 0 {
		return true
	}
	for _, pattern := range f.includes {
		if matched, _ := path.Match(pattern, urlPath); matched {
			return true
		}
	}
	return false
}
