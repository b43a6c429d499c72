// Package config holds the runtime configuration for the sitemap
// generator: crawl seeds, traversal limits, the extraction backend
// selection, scheduling, and output locations.
//
// Configuration is assembled in three layers, later layers overriding
// earlier ones:
//
//  1. Compiled-in defaults (NewConfig)
//  2. A YAML configuration file (LoadFile / FindConfigFile)
//  3. CLI flags (applied by the cmd package)
//
// The resulting Config is validated once with Validate before any crawl
// begins, and then passed through the application via dependency
// injection rather than global state.
package config
