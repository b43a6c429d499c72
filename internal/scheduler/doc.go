// Package scheduler triggers crawl runs: one immediately at startup,
// then one per fixed interval, forever.
//
// The repeating trigger is independent of any single run's outcome. A
// failed run, even a panic escaping the engine, is logged and the next
// tick fires as scheduled. Every run starts from clear state; the
// scheduler passes nothing between runs except the clock.
package scheduler
