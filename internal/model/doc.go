// Package model defines the data structures shared across the crawl
// pipeline: pages fetched during a run, per-run summaries, and the
// state machine a run moves through.
//
// The package has no dependencies on other internal packages so that
// every layer (crawler, journal, report, server) can exchange values
// without import cycles.
package model
