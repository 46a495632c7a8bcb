// Package config provides configuration structures and utilities for
// epubdiff. It defines the display limits of the comparison report, the
// text-decoding default, batch behavior, and output preferences.
package config
