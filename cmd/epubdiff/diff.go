package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/database"
	"github.com/nao1215/epubdiff/internal/log"
	"github.com/nao1215/epubdiff/internal/model"
	"github.com/nao1215/epubdiff/internal/pipeline"
	"github.com/nao1215/epubdiff/internal/report"
	"github.com/spf13/cobra"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [original.epub] [translated.epub]",
		Short: "Compare an original EPUB against its translated counterpart",
		Long: `Diff compares two EPUB archives and prints a sectioned diagnostic
report: file-set differences, mimetype bootstrap checks, package
document and reading-order comparison, byte-level content changes, and
heuristic markup validation of changed documents.

Examples:
  # Compare a single pair
  epubdiff diff book.epub book_ua.epub

  # Compare several pairs from a configuration file
  epubdiff diff --config pairs.yaml

  # Output a Markdown report and also write it to a file
  epubdiff diff --markdown -o report.md book.epub book_ua.epub

Configuration file (.epubdiff) example:
  pairs:
    - original: book.epub
      translated: book_ua.epub
  display:
    contentChanges: 100
  encoding: utf-8`,
		Args: cobra.MaximumNArgs(2),
		RunE: runDiffCmd,
	}

	// Comparison behavior flags
	cmd.Flags().StringP("encoding", "e", config.DefaultEncoding,
		"Character encoding assumed for text entries")
	cmd.Flags().IntP("batch", "b", config.DefaultConcurrency,
		"Number of concurrent comparisons in batch mode")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .epubdiff in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Also write the report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	return cmd
}

// runDiffCmd executes the diff command.
func runDiffCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runDiff(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and positional
// arguments. Positional arguments name a single pair and win over pairs
// from the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Encoding, err = cmd.Flags().GetString("encoding")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if !noHistory {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	// A positional pair wins over configuration file pairs
	if len(args) == 2 {
		cfg.Pairs = []config.Pair{{Original: args[0], Translated: args[1]}}
	} else if len(args) == 1 {
		return nil, errors.New("diff needs both an original and a translated archive (or --config with pairs)")
	}

	// Load pairs and display overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue without a file.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// runDiff executes the comparison for every configured pair.
func runDiff(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting comparison",
		"pairs", len(cfg.Pairs),
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled.
	// History is best effort: a broken database disables it with a
	// warning instead of blocking the comparison.
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history database unavailable, runs will not be recorded",
				"dir", cfg.DBDir,
				"error", err,
			)
		} else {
			defer db.Close()
			logger.Info("history database opened", "dir", cfg.DBDir)
		}
	}

	if len(cfg.Pairs) > 1 && cfg.Concurrency > 1 {
		return runBatchDiff(ctx, cfg, db, logger)
	}

	return runSequentialDiff(ctx, cfg, db, logger)
}

// runSequentialDiff compares pairs one at a time.
func runSequentialDiff(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	for _, pair := range cfg.Pairs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		startTime := time.Now()

		comparisonReport, err := pipeline.Compare(ctx, pair.Original, pair.Translated, cfg,
			pipeline.WithLogger(logger))
		if err != nil {
			logger.Error("comparison failed",
				"original", pair.Original,
				"translated", pair.Translated,
				"error", err,
			)
			return err
		}

		logger.Debug("comparison finished",
			"original", pair.Original,
			"elapsed", time.Since(startTime).Round(time.Millisecond),
		)

		if err := outputReport(cfg, comparisonReport, logger); err != nil {
			return err
		}
		saveReport(ctx, db, comparisonReport, logger)
	}

	return nil
}

// runBatchDiff compares multiple pairs concurrently using BatchProcessor.
// Reports are printed in input order after all comparisons finish, so
// concurrent runs never interleave their output.
func runBatchDiff(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	bp := pipeline.NewBatchProcessor(cfg,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Pairs)
	if err != nil {
		return err
	}

	var failed int
	for _, comparisonReport := range reports {
		if comparisonReport == nil {
			continue
		}
		if outErr := outputReport(cfg, comparisonReport, logger); outErr != nil {
			return outErr
		}
		if comparisonReport.Error != nil {
			failed++
			continue
		}
		saveReport(ctx, db, comparisonReport, logger)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d comparison(s) failed", failed, len(reports))
	}
	return nil
}

// outputReport writes the report in the requested format to stdout, and
// additionally to the configured report file.
func outputReport(cfg *config.Config, comparisonReport *model.ComparisonReport, logger *slog.Logger) error {
	writers := []report.Writer{newFormatWriter(cfg, os.Stdout)}

	var file *os.File
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			// Best effort: the terminal report is the primary output.
			logger.Warn("cannot write report file",
				"path", cfg.ReportFile,
				"error", err,
			)
		} else {
			file = f
			writers = append(writers, newFormatWriter(cfg, f))
		}
	}
	if file != nil {
		defer file.Close()
	}

	_, err := report.NewMultiWriter(writers...).Write(comparisonReport)
	return err
}

// newFormatWriter creates the report writer for the configured format.
func newFormatWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output,
			report.WithMaxListEntries(cfg.MaxListEntries),
			report.WithMaxContentChanges(cfg.MaxContentChanges),
		)
	}
}

// createReportFile creates the report file, including any missing
// parent directories.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// saveReport records the run in the history database if enabled.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.HistoryDB, comparisonReport *model.ComparisonReport, logger *slog.Logger) {
	if db == nil {
		return
	}

	if err := db.SaveReport(ctx, comparisonReport); err != nil {
		logger.Error("failed to save comparison run",
			"original", comparisonReport.OriginalPath,
			"error", err,
		)
		return
	}

	logger.Info("comparison run saved to history", "original", comparisonReport.OriginalPath)
}
