// Package journal provides SQLite-backed history of crawl runs.
//
// The journal is observability, not crawl state: the engine never reads
// it, and a deleted journal changes nothing about what gets crawled.
// Each run is recorded once, after it finishes, together with the
// outcome of every page fetch it attempted. The status endpoint and
// historical reports read from here.
package journal
