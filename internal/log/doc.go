// Package log provides logging helpers built on top of the standard
// slog package.
//
// The TruncateHandler caps oversized string attribute values before they
// reach the underlying handler. Comparison runs routinely handle whole
// document texts and long path lists; logging such values verbatim makes
// debug output unreadable and can dwarf the report itself.
//
// # Usage
//
//	// Create a logger (verbose=true enables debug level)
//	logger := log.NewLogger(os.Stderr, true)
//
//	// Use as a standard slog.Logger
//	logger.Debug("document decoded",
//	    "path", "text/ch1.xhtml",
//	    "text", documentText, // truncated if oversized
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
