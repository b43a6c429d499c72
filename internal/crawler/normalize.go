package crawler

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by Normalize for URLs that cannot serve as
// dedup keys: unparseable strings, relative references, or URLs without
// a host.
var ErrInvalidURL = errors.New("invalid URL")

// Normalize canonicalizes a raw URL string into the stable key used for
// deduplication and sitemap output. Two raw URLs that normalize
// identically are the same page.
//
// The canonical form is scheme://host/path?query with the fragment
// stripped and a single trailing slash removed.
//
// Normalization is intentionally shallow: the host is not lowercased,
// default ports are not stripped, and query parameters are not sorted.
// Two URLs differing only in query-parameter order therefore count as
// distinct pages. This is a documented limitation of the dedup key, not
// a bug to silently fix: deeper canonicalization would merge pages the
// server may actually distinguish.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}

	// Relative references and scheme-only strings have no host to scope
	// against, so they cannot be crawled.
	if !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidURL
	}

	// The fragment addresses a position inside the page, never a
	// different page.
	u.Fragment = ""
	u.RawFragment = ""

	// Remove exactly one trailing slash so "/a/" and "/a" collapse to
	// the same key, including the bare-host case "https://x.com/".
	return strings.TrimSuffix(u.String(), "/"), nil
}

// InScope reports whether candidate belongs to the same host as the
// crawl root. Hosts must match exactly, with no subdomain matching, but
// the scheme is ignored, so http and https pages of one host are both
// in scope. Invalid URLs are out of scope.
//
// Host comparison is case-insensitive because DNS names are; everything
// else about the host, including an explicit port, must match.
func InScope(candidate, root string) bool {
	cu, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	ru, err := url.Parse(root)
	if err != nil {
		return false
	}
	if cu.Host == "" || ru.Host == "" {
		return false
	}
	return strings.EqualFold(cu.Host, ru.Host)
}
