package crawler

import (
	"net/url"
	"strings"
)

// Normalizer canonicalizes hrefs found in markup into absolute URLs on a
// single target host.
type Normalizer struct {
	// scheme is used when rewriting root-relative hrefs.
	scheme string

	// host is the target host, port included when the seed has one.
	host string
}

// NewNormalizer returns a Normalizer scoped to origin's scheme and host.
func NewNormalizer(origin *url.URL) *Normalizer {
	return &Normalizer{
		scheme: strings.ToLower(origin.Scheme),
		host:   origin.Host,
	}
}

// Host returns the target host.
func (n *Normalizer) Host() string {
	return n.host
}

// Origin returns scheme://host with no path.
func (n *Normalizer) Origin() string {
	return n.scheme + "://" + n.host
}

// Normalize returns the canonical form of raw and true, or "" and false when
// raw is out of scope.
//
// Absolute URLs are accepted unchanged when their host is the target host.
// Root-relative hrefs ("/about") are rewritten onto the origin. Everything
// else is rejected, including document-relative hrefs such as "about".
func (n *Normalizer) Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	if u.IsAbs() {
		if u.Host == "" || !strings.EqualFold(u.Host, n.host) {
			return "", false
		}
		return raw, true
	}

	// "//host/path" keeps the origin scheme and must still name our host.
	if strings.HasPrefix(raw, "//") {
		if u.Host == "" || !strings.EqualFold(u.Host, n.host) {
			return "", false
		}
		return n.scheme + ":" + raw, true
	}

	if strings.HasPrefix(raw, "/") {
		return n.Origin() + raw, true
	}

	return "", false
}
