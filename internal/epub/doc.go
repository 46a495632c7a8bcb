// Package epub provides read-only access to EPUB container archives.
//
// This package contains the archive reader and the package-document
// plumbing the comparison pipeline is built on:
//   - Archive: a zip-backed reader with normalized file listings
//   - ResolveRootfile: locates the package document via META-INF/container.xml
//   - ParsePackage: extracts manifest and reading-order data from the OPF
//
// Design decision: Parsing is deliberately permissive. Real-world EPUBs
// omit namespaces, misspell attributes, and declare bogus encodings; a
// diagnostic tool must degrade to partial data instead of refusing the
// file. Only a completely unreadable archive is treated as fatal.
package epub
