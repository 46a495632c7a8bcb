// Package pipeline orchestrates the comparison of an original and a
// translated EPUB archive as an ordered sequence of steps.
//
// Each step inspects one aspect of the archive pair (file sets, the
// mimetype bootstrap entry, the container descriptor, the package
// document, raw content, translated markup) and records what it finds
// in a shared ComparisonReport. Steps never abort the run: only failing
// to open an archive is fatal, everything after that is a finding.
package pipeline
