// Package naming maps a crawled page's canonical URL to the relative file
// path storage writes it to. The mapping is pure and deterministic: the
// same (strategy, URL) pair always resolves to the same path, so reruns
// overwrite rather than duplicate.
package naming

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rohmanhakim/docs-crawler/internal/config"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

// invalidSegmentChars matches bytes that can't safely appear in a
// filesystem path segment across common OSes.
var invalidSegmentChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

const indexSegment = "index"

// Resolve maps canonicalURL to a slash-separated relative path (no
// outputDir prefix) ending in ext (e.g. ".md", ".json"), according to
// strategy. The caller is responsible for joining the result onto the
// configured output directory and creating parent directories.
func Resolve(strategy config.NamingStrategy, canonicalURL string, hashAlgo hashutil.HashAlgo, ext string) (string, error) {
	switch strategy {
	case config.NamingStrategyShort:
		return shortName(canonicalURL, hashAlgo, ext)
	case config.NamingStrategyFlat:
		return flatName(canonicalURL, hashAlgo, ext)
	case config.NamingStrategyHierarchical:
		return hierarchicalName(canonicalURL, ext)
	default:
		return fullName(canonicalURL, hashAlgo, ext)
	}
}

// shortName hashes the canonical URL and uses the first 12 hex characters
// as the filename. Collision-resistant, unreadable, stable across reruns.
func shortName(canonicalURL string, hashAlgo hashutil.HashAlgo, ext string) (string, error) {
	hash, err := hashutil.HashBytes([]byte(canonicalURL), hashAlgo)
	if err != nil {
		return "", err
	}
	return hash[:12] + ext, nil
}

// fullName mirrors host and path as nested directories, one segment per
// path component, so the output tree visually matches the site structure.
func fullName(canonicalURL string, hashAlgo hashutil.HashAlgo, ext string) (string, error) {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return "", err
	}
	dirs := append([]string{sanitizeSegment(u.Host)}, dirSegments(u.Path)...)
	return appendFilename(dirs, lastSegmentOrIndex(u.Path), canonicalURL, hashAlgo, ext)
}

// hierarchicalName is like fullName but anchored at the path, omitting the
// host directory — for crawls confined to a single site, this keeps the
// tree shallower without losing structure.
func hierarchicalName(canonicalURL string, ext string) (string, error) {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return "", err
	}
	segments := pathSegments(u.Path)
	if len(segments) == 0 {
		segments = []string{indexSegment}
	}
	last := len(segments) - 1
	segments[last] = segments[last] + ext
	return strings.Join(segments, "/"), nil
}

// flatName writes every document into a single directory, joining path
// segments with "_" and disambiguating with a short hash suffix so two
// pages whose paths collapse to the same joined name don't overwrite
// each other.
func flatName(canonicalURL string, hashAlgo hashutil.HashAlgo, ext string) (string, error) {
	u, err := url.Parse(canonicalURL)
	if err != nil {
		return "", err
	}
	segments := pathSegments(u.Path)
	base := indexSegment
	if len(segments) > 0 {
		base = strings.Join(segments, "_")
	}
	hash, err := hashutil.HashBytes([]byte(canonicalURL), hashAlgo)
	if err != nil {
		return "", err
	}
	return base + "-" + hash[:8] + ext, nil
}

// appendFilename joins dirs with a filename built from last, disambiguated
// with an 8-char hash suffix to guard against two distinct paths
// sanitizing to the same segment sequence.
func appendFilename(dirs []string, last string, canonicalURL string, hashAlgo hashutil.HashAlgo, ext string) (string, error) {
	hash, err := hashutil.HashBytes([]byte(canonicalURL), hashAlgo)
	if err != nil {
		return "", err
	}
	filename := last + "-" + hash[:8] + ext
	return strings.Join(append(dirs, filename), "/"), nil
}

// pathSegments splits a URL path into sanitized, non-empty segments.
func pathSegments(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		segments = append(segments, sanitizeSegment(s))
	}
	return segments
}

// dirSegments returns every sanitized path segment except the last, which
// becomes the filename instead of a directory.
func dirSegments(path string) []string {
	segments := pathSegments(path)
	if len(segments) == 0 {
		return nil
	}
	return segments[:len(segments)-1]
}

// lastSegmentOrIndex returns the final sanitized path segment, or "index"
// if the path is empty or root.
func lastSegmentOrIndex(path string) string {
	segments := pathSegments(path)
	if len(segments) == 0 {
		return indexSegment
	}
	return segments[len(segments)-1]
}

// sanitizeSegment replaces any character unsafe for a filesystem path
// component with "-".
func sanitizeSegment(s string) string {
	return invalidSegmentChars.ReplaceAllString(s, "-")
}
