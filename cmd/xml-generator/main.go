// Package main provides the entry point for the xml-generator CLI.
//
// xml-generator crawls a configured set of subdomains and emits a
// sitemap.xml of every same-host page it can reach, either once
// (generate) or on a repeating schedule with an HTTP serving boundary
// (serve).
//
// Usage:
//
//	xml-generator generate https://docs.example.com
//	xml-generator serve -c .xml-generator
//
// See --help for all available options.
package main

// main is the entry point for xml-generator.
func main() {
	Execute()
}
