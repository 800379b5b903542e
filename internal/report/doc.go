// Package report renders check results in multiple output formats.
//
// Three writers share one interface: SimpleWriter prints the terminal
// table, JSONWriter serializes the full report for pipelines, and
// MarkdownWriter produces a shareable document. MultiWriter fans a
// report out to several of them at once. All writers show only the
// masked form of the key.
package report
