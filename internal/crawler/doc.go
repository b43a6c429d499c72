// Package crawler implements the crawl engine: URL normalization and
// deduplication, same-host scoping, and the bounded recursive traversal
// that discovers every same-host page reachable from a set of seed URLs.
//
// # Architecture
//
// The engine is built around the Spider type. One Spider run owns a
// single visited/discovered set shared across all crawl roots; the set
// is cleared at the start of every run and nothing survives across runs.
//
// Traversal is expressed as crawl(url, root, depth):
//
//  1. Normalize the URL; drop it if invalid, already visited, out of
//     scope for the root, or beyond the depth limit.
//  2. Mark it visited and persist the discovered set BEFORE fetching,
//     so partial progress survives a crash mid-crawl.
//  3. Fetch with a bounded timeout. Fetch failures abort only this
//     branch; siblings and parents continue.
//  4. Extract candidate links, filter, and recurse at depth+1.
//
// # Concurrency
//
// By default one fetch is in flight at a time, matching the reference
// behavior. With a concurrency above one, branches run on an errgroup
// worker pool; the check-and-mark-visited step stays atomic behind one
// mutex, so each URL is dispatched at most once regardless of how many
// branches race for it. Incremental persistence is serialized
// separately so writers never interleave.
//
// # Safety nets
//
// The depth limit and the visited set are the only loop guards. There
// is no cycle detection beyond "already visited", and no retries: a
// failed page simply stays failed until the next scheduled run.
package crawler
