// Package main provides the entry point for the epubdiff CLI.
//
// epubdiff compares an original EPUB archive against its translated
// counterpart and reports structural and content divergences that could
// explain rendering failures in e-book readers.
//
// Usage:
//
//	epubdiff diff <original.epub> <translated.epub>
//	epubdiff diff --config pairs.yaml
//
// See --help for all available options.
package main

// main is the entry point for epubdiff.
func main() {
	Execute()
}
