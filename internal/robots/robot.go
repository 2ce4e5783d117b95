package robots

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rohmanhakim/docs-crawler/internal/metadata"
	"github.com/rohmanhakim/docs-crawler/internal/robots/cache"
)

/*
Responsibilities
- Fetch robots.txt per host
- Cache rules for crawl duration
- Enforce allow/disallow rules before enqueue
Robots checks occur before a URL enters the frontier.
*/

// Robot decides whether a URL may be crawled according to the host's
// robots.txt. Implementations are expected to cache fetched rules for the
// lifetime of a crawl.
type Robot interface {
	Decide(target url.URL) (Decision, *RobotsError)
}

// CachedRobot is a Robot backed by RobotsFetcher's own cache.Cache, so
// repeated Decide calls against the same host fetch robots.txt at most
// once for the lifetime of the underlying cache. It is a small value type
// deliberately kept comparable (==) so callers can hold it by value; the
// fetcher it wraps is a pointer, so copies of CachedRobot still share one
// cache.
type CachedRobot struct {
	metadataSink metadata.MetadataSink
	fetcher      *RobotsFetcher
	userAgent    string
}

// NewCachedRobot constructs a CachedRobot bound to sink. Init or
// InitWithCache must be called before Decide.
func NewCachedRobot(sink metadata.MetadataSink) CachedRobot {
	return CachedRobot{metadataSink: sink}
}

// Init prepares the robot with an in-memory cache private to this robot.
func (r *CachedRobot) Init(userAgent string) {
	r.InitWithCache(userAgent, cache.NewMemoryCache())
}

// InitWithCache prepares the robot with a caller-supplied cache, letting
// multiple robots or runs share fetched robots.txt results.
func (r *CachedRobot) InitWithCache(userAgent string, customCache cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.metadataSink, userAgent, customCache)
}

// Decide fetches (or reuses the cached) robots.txt for target's host and
// evaluates target's path against it.
func (r CachedRobot) Decide(target url.URL) (Decision, *RobotsError) {
	scheme := target.Scheme
	if scheme == "" {
		scheme = "https"
	}

	result, err := r.fetcher.Fetch(context.Background(), scheme, target.Host)
	if err != nil {
		r.recordError(target, err)
		return Decision{}, err
	}

	rs := MapResponseToRuleSet(result.Response, r.userAgent, result.FetchedAt)
	return decideFromRuleSet(rs, target), nil
}

func (r CachedRobot) recordError(target url.URL, err *RobotsError) {
	if r.metadataSink == nil {
		return
	}
	r.metadataSink.RecordError(
		time.Now(),
		"robots",
		"CachedRobot.Decide",
		mapRobotsErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, target.String())},
	)
}

// decideFromRuleSet evaluates target's path against rs using the standard
// robots.txt precedence: exact ($-anchored) match beats the longest
// matching prefix, which beats a shorter one; ties between an allow and a
// disallow rule of equal specificity favor the allow.
func decideFromRuleSet(rs ruleSet, target url.URL) Decision {
	decision := Decision{Url: target}

	if delay := rs.CrawlDelay(); delay != nil {
		decision.CrawlDelay = *delay
	}

	if !rs.hasGroups {
		decision.Allowed = true
		decision.Reason = EmptyRuleSet
		return decision
	}
	if !rs.matchedGroup {
		decision.Allowed = true
		decision.Reason = UserAgentNotMatched
		return decision
	}

	path := target.Path
	if path == "" {
		path = "/"
	}

	allowed, matched := evaluatePathRules(rs, path)
	if !matched {
		decision.Allowed = true
		decision.Reason = NoMatchingRules
		return decision
	}

	decision.Allowed = allowed
	if allowed {
		decision.Reason = AllowedByRobots
	} else {
		decision.Reason = DisallowedByRobots
	}
	return decision
}

type ruleMatch struct {
	specificity int
	allow       bool
}

// evaluatePathRules finds the most specific allow/disallow rule matching
// path. matched is false when no rule applies at all, in which case the
// path is implicitly allowed regardless of the returned allowed value.
func evaluatePathRules(rs ruleSet, path string) (allowed bool, matched bool) {
	var best *ruleMatch

	consider := func(pattern string, isAllow bool) {
		if !matchesRobotsPattern(pattern, path) {
			return
		}
		specificity := len(strings.TrimSuffix(pattern, "$"))
		if best == nil ||
			specificity > best.specificity ||
			(specificity == best.specificity && isAllow && !best.allow) {
			best = &ruleMatch{specificity: specificity, allow: isAllow}
		}
	}

	for _, rule := range rs.AllowRules() {
		consider(rule.Prefix(), true)
	}
	for _, rule := range rs.DisallowRules() {
		consider(rule.Prefix(), false)
	}

	if best == nil {
		return true, false
	}
	return best.allow, true
}

// matchesRobotsPattern reports whether path matches a robots.txt path
// pattern. A "*" in pattern matches any run of characters; a trailing "$"
// anchors the match to the end of path, otherwise pattern only needs to
// match a prefix of path.
func matchesRobotsPattern(pattern, path string) bool {
	anchored := strings.HasSuffix(pattern, "$")
	body := strings.TrimSuffix(pattern, "$")

	segments := strings.Split(body, "*")
	for i, segment := range segments {
		segments[i] = regexp.QuoteMeta(segment)
	}
	regexBody := strings.Join(segments, ".*")

	expr := "^" + regexBody
	if anchored {
		expr += "$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(path)
}
