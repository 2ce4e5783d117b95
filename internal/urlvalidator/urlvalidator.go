// Package urlvalidator gates candidate URLs before they reach the fetcher
// or the frontier: scheme allow-list, hostname deny-list, private/loopback
// IP rejection, and an optional explicit host allow-set.
package urlvalidator

import (
	"net"
	"net/url"
	"strings"
)

// deniedHostSuffixes are always rejected regardless of configuration.
var deniedHostSuffixes = []string{
	".internal",
	".local",
	".localhost",
	".localdomain",
}

var deniedHostExact = map[string]struct{}{
	"localhost":             {},
	"localhost.localdomain": {},
}

// Result is the two-field record the spec calls for: a boolean verdict plus
// a human-readable reason present iff the URL was rejected.
type Result struct {
	IsValid         bool
	RejectionReason string
}

func valid() Result {
	return Result{IsValid: true}
}

func rejected(reason string) Result {
	return Result{IsValid: false, RejectionReason: reason}
}

// Validator checks a candidate URL against a configured scheme allow-set
// and an optional hostname allow-set, in addition to the always-on
// private-network/localhost denylist.
type Validator struct {
	allowedSchemes map[string]struct{}
	allowedHosts   map[string]struct{}
}

// Param configures a Validator. A nil/empty AllowedSchemes defaults to
// {"https"}. A nil/empty AllowedHosts disables the explicit allow-set
// check (any host that clears the denylist passes).
type Param struct {
	AllowedSchemes map[string]struct{}
	AllowedHosts   map[string]struct{}
}

func New(param Param) *Validator {
	schemes := param.AllowedSchemes
	if len(schemes) == 0 {
		schemes = map[string]struct{}{"https": {}}
	}
	return &Validator{
		allowedSchemes: schemes,
		allowedHosts:   param.AllowedHosts,
	}
}

// Validate applies the full policy to target and reports the verdict.
func (v *Validator) Validate(target url.URL) Result {
	scheme := strings.ToLower(target.Scheme)
	if _, ok := v.allowedSchemes[scheme]; !ok {
		return rejected("scheme not allowed: " + target.Scheme)
	}

	host := target.Hostname()
	if host == "" {
		return rejected("missing host")
	}

	lowerHost := strings.ToLower(host)
	if _, ok := deniedHostExact[lowerHost]; ok {
		return rejected("denied hostname: " + host)
	}
	for _, suffix := range deniedHostSuffixes {
		if strings.HasSuffix(lowerHost, suffix) {
			return rejected("denied hostname suffix: " + host)
		}
	}

	if ip := net.ParseIP(host); ip != nil {
		if reason, denied := denyIP(ip); denied {
			return rejected(reason)
		}
	}

	if len(v.allowedHosts) > 0 {
		if _, ok := v.allowedHosts[lowerHost]; !ok {
			return rejected("host not in allow-set: " + host)
		}
	}

	return valid()
}

// denyIP rejects private, loopback, link-local, reserved, and IPv6
// site-local ranges.
func denyIP(ip net.IP) (string, bool) {
	switch {
	case ip.IsLoopback():
		return "loopback IP address", true
	case ip.IsPrivate():
		return "private IP address", true
	case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		return "link-local IP address", true
	case ip.IsUnspecified():
		return "unspecified IP address", true
	case isIPv6SiteLocal(ip):
		return "site-local IPv6 address", true
	}
	return "", false
}

// isIPv6SiteLocal reports whether ip falls in the deprecated fec0::/10
// site-local range. net.IP has no built-in helper for this block.
func isIPv6SiteLocal(ip net.IP) bool {
	ip16 := ip.To16()
	if ip16 == nil || ip.To4() != nil {
		return false
	}
	return ip16[0] == 0xfe && (ip16[1]&0xc0) == 0xc0
}
