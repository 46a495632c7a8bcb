// Package main provides the entry point for the epubdiff CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for epubdiff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epubdiff",
		Short: "Diagnostic comparison of original and translated EPUB archives",
		Long: `epubdiff compares an original EPUB archive against its translated
counterpart and reports structural and content divergences: file-set
differences, mimetype bootstrap violations, package document and
reading-order changes, byte-level content changes, and heuristic markup
problems in changed documents.

It is a read-only diagnostic tool; it never modifies the inputs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewDiffCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
