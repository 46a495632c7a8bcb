// Package database provides SQLite-based storage for comparison run
// history. Persisting runs is optional; when enabled, each finished
// comparison is stored as JSON together with a per-category finding
// summary so past runs can be listed and re-read without re-comparing
// the archives.
package database
