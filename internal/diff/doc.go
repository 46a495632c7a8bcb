// Package diff implements the structural and content comparison stages.
//
// The functions here are pure: they take file sets, manifests, and
// archives, and return typed results. Turning results into report
// findings is the pipeline's job, which keeps every differ trivially
// testable without a report in hand.
package diff
