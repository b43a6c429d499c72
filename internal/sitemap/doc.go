// Package sitemap renders discovered URL sets as sitemap XML documents
// and persists them atomically.
//
// Rendering is a pure function: the same URL set and timestamp always
// produce byte-identical output. Persistence goes through a Store that
// writes to a temporary file and renames it into place, so readers of
// the sitemap path never observe a missing or truncated document even
// though the file is rewritten after every page visit during a crawl.
package sitemap
