// Package pipeline orchestrates the steps of one crawl run: traversal,
// final sitemap persistence, journal recording, and reporting.
//
// Each step implements the Step interface and receives the accumulating
// model.Run. The pipeline executes steps in order with continue-on-error
// semantics: a failed step marks the run failed, but later steps (such
// as recording the failed run in the journal) still execute. This keeps
// the error taxonomy intact: a persistence failure is fatal for the
// run's completion, never for the process or the next scheduled run.
package pipeline
