package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/model"
)

// TextWriter outputs the human-readable sectioned text report.
// This is the primary format, designed for reading in a terminal next to
// a failing e-book reader.
//
// Design decision: We use plain text with ASCII section banners rather
// than ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. The report is usually attached to bug threads as-is
type TextWriter struct {
	baseWriter

	// maxListEntries caps each truncatable path list.
	maxListEntries int

	// maxContentChanges caps the content-diff listing.
	maxContentChanges int
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithMaxListEntries caps each truncatable path list in the output.
func WithMaxListEntries(n int) TextWriterOption {
	return func(w *TextWriter) {
		if n > 0 {
			w.maxListEntries = n
		}
	}
}

// WithMaxContentChanges caps the content-diff listing in the output.
func WithMaxContentChanges(n int) TextWriterOption {
	return func(w *TextWriter) {
		if n > 0 {
			w.maxContentChanges = n
		}
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter:        newBaseWriter(output),
		maxListEntries:    config.DefaultMaxListEntries,
		maxContentChanges: config.DefaultMaxContentChanges,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in sectioned text format.
// Sections appear in comparison order; sections with nothing to say are
// reduced to their informational lines or skipped entirely.
func (w *TextWriter) Write(report *model.ComparisonReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeFileCounts(&sb, report)
	w.writeFileSet(&sb, report)
	w.writeBootstrap(&sb, report)
	w.writeRootfile(&sb, report)
	w.writeManifest(&sb, report)
	w.writeContent(&sb, report)
	w.writeMarkup(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// banner writes a section banner like "== FILE COUNTS ==".
func banner(sb *strings.Builder, title string) {
	sb.WriteString("== " + title + " ==\n")
}

// pathList writes a comma-joined path list capped at max entries, with
// an explicit truncation marker when the list was cut.
func (w *TextWriter) pathList(sb *strings.Builder, paths []string, maxEntries int) {
	shown := paths
	truncated := ""
	if len(paths) > maxEntries {
		shown = paths[:maxEntries]
		truncated = " ..."
	}
	sb.WriteString(strings.Join(shown, ", ") + truncated + "\n")
}

// writeHeader writes the input identifiers and run status.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.ComparisonReport) {
	fmt.Fprintf(sb, "ORIG: %s\n", report.OriginalPath)
	fmt.Fprintf(sb, "TRAN: %s\n", report.TranslatedPath)
	fmt.Fprintf(sb, "DATE: %s\n", report.DateCompared.Format("2006-01-02 15:04:05 MST"))
	if report.ErrorMessage != "" {
		fmt.Fprintf(sb, "ERROR: %s\n", report.ErrorMessage)
	}
}

// writeFileCounts writes the file-count summary.
func (w *TextWriter) writeFileCounts(sb *strings.Builder, report *model.ComparisonReport) {
	banner(sb, "FILE COUNTS")
	fmt.Fprintf(sb, "orig files: %d\n", report.OriginalFileCount)
	fmt.Fprintf(sb, "tran files: %d\n", report.TranslatedFileCount)
}

// writeFileSet writes the file-set differences, if any.
func (w *TextWriter) writeFileSet(sb *strings.Builder, report *model.ComparisonReport) {
	if len(report.MissingInTranslated) > 0 {
		sb.WriteString("Missing in translated:\n")
		w.pathList(sb, report.MissingInTranslated, w.maxListEntries)
	}
	if len(report.ExtraInTranslated) > 0 {
		sb.WriteString("Extra in translated:\n")
		w.pathList(sb, report.ExtraInTranslated, w.maxListEntries)
	}
}

// writeBootstrap writes the mimetype invariant status per side.
func (w *TextWriter) writeBootstrap(sb *strings.Builder, report *model.ComparisonReport) {
	banner(sb, "MIMETYPE")
	w.writeBootstrapSide(sb, report, "orig", model.SideOriginal, report.OriginalBootstrap)
	w.writeBootstrapSide(sb, report, "tran", model.SideTranslated, report.TranslatedBootstrap)
}

// writeBootstrapSide writes one side's mimetype status and violations.
func (w *TextWriter) writeBootstrapSide(sb *strings.Builder, report *model.ComparisonReport, label, side string, status *model.BootstrapStatus) {
	if status == nil {
		return
	}
	if status.Present {
		fmt.Fprintf(sb, "[%s] mimetype content: %q, first=%t, stored=%t\n",
			label, status.Content, status.First, status.Stored)
	}
	for _, f := range report.FindingsByCategory(model.CategoryBootstrap) {
		if f.Side == side {
			fmt.Fprintf(sb, "[%s] ERROR: %s\n", label, f.Message)
		}
	}
}

// writeRootfile writes the resolved package document paths.
func (w *TextWriter) writeRootfile(sb *strings.Builder, report *model.ComparisonReport) {
	banner(sb, "OPF PATHS")
	fmt.Fprintf(sb, "orig OPF: %s\n", orNone(report.OriginalRootfile))
	fmt.Fprintf(sb, "tran OPF: %s\n", orNone(report.TranslatedRootfile))
	if report.RootfileMismatch() {
		sb.WriteString("ERROR: OPF path differs between original and translated\n")
	}
}

// orNone substitutes a placeholder for an empty path.
func orNone(p string) string {
	if p == "" {
		return "(none)"
	}
	return p
}

// writeManifest writes manifest, media-type, reading-order, and
// manifest-existence results. Nothing is written when the package
// documents were not compared.
func (w *TextWriter) writeManifest(sb *strings.Builder, report *model.ComparisonReport) {
	if !report.SpineCompared {
		return
	}

	if len(report.ManifestMissing) > 0 {
		sb.WriteString("Manifest missing in translated:\n")
		w.pathList(sb, report.ManifestMissing, w.maxListEntries)
	}
	if len(report.ManifestExtra) > 0 {
		sb.WriteString("Manifest extra in translated:\n")
		w.pathList(sb, report.ManifestExtra, w.maxListEntries)
	}
	for _, mt := range report.MediaTypeDiffs {
		fmt.Fprintf(sb, "MEDIA-TYPE DIFF: %s: %s vs %s\n", mt.Path, mt.Original, mt.Translated)
	}

	fmt.Fprintf(sb, "SPINE length: %d vs %d\n", report.OriginalSpineLen, report.TranslatedSpineLen)
	fmt.Fprintf(sb, "FIRST SPINE DIFF INDEX: %d\n", report.SpineDivergence)

	for _, f := range report.FindingsByCategory(model.CategoryReference) {
		label := "orig"
		if f.Side == model.SideTranslated {
			label = "tran"
		}
		fmt.Fprintf(sb, "[%s] manifest references missing file: %s\n", label, f.Path)
	}
}

// writeContent writes the content-diff listing.
func (w *TextWriter) writeContent(sb *strings.Builder, report *model.ComparisonReport) {
	banner(sb, fmt.Sprintf("COMMON FILE CONTENT DIFF (first %d)", w.maxContentChanges))
	if len(report.Changes) == 0 {
		sb.WriteString("no content diffs\n")
		return
	}
	shown := report.Changes
	truncated := false
	if len(shown) > w.maxContentChanges {
		shown = shown[:w.maxContentChanges]
		truncated = true
	}
	for _, change := range shown {
		sb.WriteString(change.String() + "\n")
	}
	if truncated {
		sb.WriteString(" ...\n")
	}
}

// writeMarkup writes the markup validation findings, if any.
func (w *TextWriter) writeMarkup(sb *strings.Builder, report *model.ComparisonReport) {
	findings := report.FindingsByCategory(model.CategoryMarkup)
	if len(findings) == 0 {
		return
	}
	banner(sb, "XHTML/HTML ISSUES (translated, sample)")
	for _, f := range findings {
		sb.WriteString(f.Message + "\n")
	}
}

// writeSummary writes the closing summary: one line per category with
// findings, and the markup-only hint when every structural and
// non-markup check came back clean.
func (w *TextWriter) writeSummary(sb *strings.Builder, report *model.ComparisonReport) {
	banner(sb, "SUMMARY")

	for _, c := range model.Categories() {
		if n := report.CountByCategory(c); n > 0 {
			fmt.Fprintf(sb, "%s: %d finding(s)\n", c.String(), n)
		}
	}
	if !report.HasFindings() {
		sb.WriteString("no findings\n")
	}
	if report.StructureClean() {
		sb.WriteString("Structure and non-markup content identical. " +
			"If a reader still fails, the cause is most likely malformed markup content.\n")
	}
}
