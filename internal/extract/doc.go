// Package extract finds candidate page URLs in fetched content.
//
// Extraction runs four channels over a page, in decreasing order of
// trust:
//
//	(a) explicit hyperlink attributes (a/area href, frame/iframe src)
//	(b) data-* attributes carrying URL-shaped values
//	(c) URLs inside inline scripts and event-handler attributes
//	(d) a best-effort regex scan of the raw content for literal
//	    same-host URLs
//
// Channel (d) exists because single-page applications often embed URLs
// in JSON blobs that never appear in the DOM. It is deliberately noisy;
// the crawl engine's scope and visited filtering discards the false
// positives, so results from (d) must never be attributed the trust of
// a structurally extracted link.
//
// Two backends implement the crawler.Extractor contract:
//
//   - Static parses the HTTP response body with x/net/html. Cheap, no
//     script execution.
//   - Rendered loads the page in headless Chrome and extracts from the
//     rendered DOM, catching script-generated links. One browser
//     allocator is created per process and released on shutdown.
//
// The backends are interchangeable; selection is a configuration
// choice, not core logic.
package extract
