package sitemap

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"
)

// Namespace is the standard sitemap protocol namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// rawLoc writes the location verbatim. The loc value is the normalized
// URL exactly as crawled, not entity-escaped, which a struct field
// marshalled the usual way could not produce.
type rawLoc struct {
	Value string `xml:",innerxml"`
}

// urlEntry is one url element of the document.
type urlEntry struct {
	XMLName xml.Name `xml:"url"`
	Loc     rawLoc   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

// urlset is the document root.
type urlset struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Render produces the sitemap document for the given URL set.
//
// Entries are sorted lexicographically by URL so output is
// deterministic, and every entry carries the same lastmod timestamp:
// the generation time of the crawl run, not a per-page modification
// time.
func Render(urls []string, now time.Time) ([]byte, error) {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)

	lastMod := now.UTC().Format(time.RFC3339)

	doc := urlset{
		Xmlns: Namespace,
		URLs:  make([]urlEntry, 0, len(sorted)),
	}
	for _, u := range sorted {
		doc.URLs = append(doc.URLs, urlEntry{
			Loc:     rawLoc{Value: u},
			LastMod: lastMod,
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
