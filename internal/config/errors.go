package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoPairs is returned when no archive pair is specified, either as
	// positional arguments or in the configuration file.
	ErrNoPairs = errors.New("no archives specified: provide an original and a translated archive")

	// ErrIncompletePair is returned when a pair is missing one side.
	ErrIncompletePair = errors.New("incomplete pair: both original and translated archives are required")

	// ErrInvalidConcurrency is returned when the batch concurrency is not
	// positive. Zero concurrency would mean no comparisons run at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDisplayCap is returned when a display limit is not
	// positive. A cap of zero would silently hide every finding.
	ErrInvalidDisplayCap = errors.New("invalid display limit: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
