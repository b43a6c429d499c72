// Package server exposes the generated sitemap and run status over HTTP.
//
// Three routes are served: /sitemap.xml returns the most recently
// persisted sitemap file, /status reports the last and next scheduled
// run as JSON, and /healthz answers liveness probes.
package server
