// Package model defines the core data structures used throughout epubdiff.
//
// This package contains the following main types:
//   - ComparisonReport: The result of comparing two EPUB archives
//   - Finding: A single divergence or invariant violation
//   - ChangeRecord: A byte-level content difference on a shared path
//   - Category: The finding taxonomy used for summary reporting
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (diff, markup, report, database) need these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
