package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The display caps mirror the report layout this tool grew out of: they
// are reading conveniences, not correctness rules, and can be overridden
// per run.
const (
	// DefaultMaxListEntries caps each truncatable path list in the report
	// (missing/extra files, manifest differences). Longer lists end with
	// an explicit truncation marker.
	DefaultMaxListEntries = 50

	// DefaultMaxContentChanges caps the content-diff listing.
	DefaultMaxContentChanges = 50

	// DefaultMaxMarkupDocuments caps how many changed markup documents
	// the validator inspects. Markup corruption introduced by a
	// translation tool is systematic, so a sample is as informative as
	// the full set and much cheaper to read.
	DefaultMaxMarkupDocuments = 20

	// DefaultMaxMarkupFindings caps validation findings across all
	// inspected documents.
	DefaultMaxMarkupFindings = 50

	// DefaultEncoding is the character encoding assumed for text entries
	// unless a caller overrides it. Decoding failures fall back to
	// permissive replacement-character decoding either way.
	DefaultEncoding = "utf-8"

	// DefaultConcurrency is the number of archive pairs compared at once
	// in batch mode. A single comparison is strictly sequential; the
	// limit only applies across pairs.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "epubdiff"
)

// Config holds all configuration options for epubdiff.
// It is populated from CLI flags and the optional configuration file and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// MaxListEntries caps each truncatable path list in the report.
	MaxListEntries int

	// MaxContentChanges caps the content-diff listing.
	MaxContentChanges int

	// MaxMarkupDocuments caps how many changed markup documents are
	// validated.
	MaxMarkupDocuments int

	// MaxMarkupFindings caps validation findings across all documents.
	MaxMarkupFindings int

	// Encoding is the character encoding assumed for text entries.
	Encoding string

	// Concurrency is the number of pairs compared at once in batch mode.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the plain-text
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// plain-text format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is also written to this file; directories are
	// created as needed and write failures are logged, not fatal.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .epubdiff in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// Pairs is the list of archive pairs to compare. Populated from
	// positional arguments or the configuration file.
	Pairs []Pair

	// DBDir is the directory path for the comparison-history SQLite
	// database. When empty, runs are not persisted.
	DBDir string

	// SaveToDB indicates whether to record this run in the history
	// database. Automatically true when DBDir is configured.
	SaveToDB bool
}

// Pair is one original/translated archive pair.
type Pair struct {
	// Original is the location of the original archive.
	Original string `yaml:"original"`

	// Translated is the location of the translated archive.
	Translated string `yaml:"translated"`
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because the caps and encoding defaults are non-zero. This
// also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxListEntries:     DefaultMaxListEntries,
		MaxContentChanges:  DefaultMaxContentChanges,
		MaxMarkupDocuments: DefaultMaxMarkupDocuments,
		MaxMarkupFindings:  DefaultMaxMarkupFindings,
		Encoding:           DefaultEncoding,
		Concurrency:        DefaultConcurrency,
	}
}

// Validate checks the configuration for inconsistencies.
// It returns a sentinel error describing the first problem found.
func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return ErrNoPairs
	}
	for _, p := range c.Pairs {
		if p.Original == "" || p.Translated == "" {
			return ErrIncompletePair
		}
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxListEntries <= 0 || c.MaxContentChanges <= 0 ||
		c.MaxMarkupDocuments <= 0 || c.MaxMarkupFindings <= 0 {
		return ErrInvalidDisplayCap
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// XDGDataDir returns the XDG data directory for epubdiff.
// On Linux: ~/.local/share/epubdiff
// On macOS: ~/Library/Application Support/epubdiff
// On Windows: %LOCALAPPDATA%\epubdiff
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
