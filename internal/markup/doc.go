// Package markup applies heuristic validation to changed markup documents.
//
// The checks are deliberately shallow: pattern scans over the document
// text rather than a parsed DOM. Translation tools tend to corrupt markup
// in textual ways (dropped slashes, raw ampersands, broken references)
// that survive or even cause parse failures, so scanning the raw text
// finds them where a DOM walk would give up. Full parsing is reserved for
// the single "is this well-formed at all" check.
//
// Design decision: Each heuristic is its own Check registered on a
// Validator rather than one long function because:
//  1. Checks toggle independently; one firing must not mask another
//  2. Each check is testable in isolation
//  3. New heuristics slot in without touching existing ones
package markup
