package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches absolute http(s) URL literals in arbitrary text.
// Permissive by design: trailing punctuation is trimmed afterwards and
// the crawl engine discards anything that fails normalization.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>` + "`" + `\\]+`)

// urlSet accumulates candidate URLs, resolved against a base, deduped,
// in discovery order.
type urlSet struct {
	base *url.URL
	seen map[string]bool
	out  []string
}

func newURLSet(base *url.URL) *urlSet {
	return &urlSet{
		base: base,
		seen: make(map[string]bool),
	}
}

// add resolves a reference against the base and records it if it is an
// http(s) URL not seen before. Pseudo-scheme references (javascript:,
// mailto:, tel:, data:) and bare fragments are dropped here because
// they never address pages.
func (s *urlSet) add(ref string) {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" {
		return
	}

	lower := strings.ToLower(ref)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return
		}
	}

	u, err := url.Parse(ref)
	if err != nil {
		return
	}

	resolved := s.base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return
	}

	abs := resolved.String()
	if s.seen[abs] {
		return
	}
	s.seen[abs] = true
	s.out = append(s.out, abs)
}

// urls returns the accumulated candidates in discovery order.
func (s *urlSet) urls() []string {
	return s.out
}

// scanText applies the URL literal pattern to a fragment of script or
// handler text (channel c). Matches from any host are added; the crawl
// engine's scope filter decides what survives.
func scanText(s *urlSet, text string) {
	for _, match := range urlPattern.FindAllString(text, -1) {
		s.add(trimURLPunct(match))
	}
}

// scanRaw applies the URL literal pattern to the raw page bytes
// (channel d), keeping only same-host matches. Restricting to the
// page's host keeps this deliberately noisy channel from flooding the
// queue with third-party URLs that scope filtering would drop anyway.
func scanRaw(s *urlSet, body []byte) {
	for _, match := range urlPattern.FindAll(body, -1) {
		candidate := trimURLPunct(string(match))
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		if !strings.EqualFold(u.Host, s.base.Host) {
			continue
		}
		s.add(candidate)
	}
}

// trimURLPunct strips punctuation that commonly trails a URL literal
// embedded in prose, JSON, or code.
func trimURLPunct(u string) string {
	return strings.TrimRight(u, `.,;:!?)]}'"`)
}
