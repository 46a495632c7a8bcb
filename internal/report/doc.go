// Package report renders comparison reports in multiple output formats.
//
// The plain-text writer produces the sectioned diagnostic layout meant
// for terminal reading: input identifiers, file counts, file-set diff,
// mimetype checks, package document comparison, content diff listing,
// markup findings, and a closing summary. The Markdown and JSON writers
// carry the same data for sharing and tool integration.
package report
