package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Static extracts links by parsing the fetched HTML body. It executes
// no scripts, so links generated client-side are only found if they
// also appear as literals in the markup (channel d).
//
// Design decision: We use golang.org/x/net/html rather than regex for
// the structural channels because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
type Static struct{}

// NewStatic creates a static-markup extractor.
func NewStatic() *Static {
	return &Static{}
}

// Extract returns candidate absolute URLs found in the body. The page
// URL is the base for resolving relative references and the host
// reference for the raw-scan channel.
func (e *Static) Extract(_ context.Context, pageURL string, body []byte) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	set := newURLSet(base)

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		// x/net/html is error-tolerant; a hard failure means the
		// content is not markup at all. The raw channel still applies.
		scanRaw(set, body)
		return set.urls(), nil
	}

	walkDOM(doc, set)
	scanRaw(set, body)

	return set.urls(), nil
}

// walkDOM runs the structural channels (a), (b), and (c) over the tree.
func walkDOM(n *html.Node, set *urlSet) {
	if n.Type == html.ElementNode {
		processElement(n, set)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkDOM(c, set)
	}
}

// processElement handles one element node across all three structural
// channels.
func processElement(n *html.Node, set *urlSet) {
	switch n.Data {
	case "a", "area":
		if href := getAttr(n, "href"); href != "" {
			set.add(href)
		}

	case "frame", "iframe":
		if src := getAttr(n, "src"); src != "" {
			set.add(src)
		}

	case "script":
		// Inline scripts only; external script sources are assets, not
		// pages. URLs inside the script text are channel (c).
		if getAttr(n, "src") == "" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					scanText(set, c.Data)
				}
			}
		}
	}

	for _, attr := range n.Attr {
		switch {
		case strings.HasPrefix(attr.Key, "data-"):
			// Channel (b): secondary URL-bearing attributes such as
			// data-href or data-url. Only URL-shaped values qualify.
			if looksLikeURL(attr.Val) {
				set.add(attr.Val)
			}
		case strings.HasPrefix(attr.Key, "on"):
			// Channel (c): event handlers like onclick="location='/x'".
			scanText(set, attr.Val)
		}
	}
}

// looksLikeURL reports whether an attribute value plausibly addresses a
// page: an absolute http(s) URL or a root-relative path.
func looksLikeURL(v string) bool {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return true
	}
	// Root-relative, but not protocol-relative ("//host/...") which is
	// ambiguous in attribute soup.
	return strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
