// Package report renders crawl-run results for humans and tools.
//
// Three writers implement the same interface: a plain-text summary for
// the terminal, GitHub Flavored Markdown for documentation, and JSON
// for programmatic consumers. A MultiWriter fans one run out to several
// destinations, typically stdout plus a file.
package report
