package report

import (
	"io"
	"strconv"

	"github.com/nao1215/epubdiff/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for pasting into issue trackers and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ComparisonReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeStructure(md, report)
	w.writeChanges(md, report)
	w.writeFindings(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with comparison information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ComparisonReport) {
	md.H1("EPUB Comparison Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Original", "`" + report.OriginalPath + "`"},
			{"Translated", "`" + report.TranslatedPath + "`"},
			{"Compared", report.DateCompared.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ComparisonReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the per-category finding counts.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ComparisonReport) {
	md.H2("Finding Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Categories())+1)
	for _, c := range model.Categories() {
		rows = append(rows, []string{c.String(), strconv.Itoa(report.CountByCategory(c))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Findings"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.HasFindings() {
		w.writePieChart(md, report)
	}
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for category distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ComparisonReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Category Distribution"),
		piechart.WithShowData(true),
	)

	for _, c := range model.Categories() {
		if n := report.CountByCategory(c); n > 0 {
			chart.LabelAndIntValue(c.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on what was found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ComparisonReport) {
	switch {
	case !report.HasFindings():
		md.Tip("The two archives are structurally identical.")
	case report.StructureClean():
		md.Note("Structure and non-markup content identical. " +
			"If a reader still fails, the cause is most likely malformed markup content.")
	default:
		md.Warningf(
			"%d structural or content divergence(s) detected between the archives.",
			report.TotalFindings(),
		)
	}
	md.PlainText("")
}

// writeStructure writes the package document comparison.
func (w *MarkdownWriter) writeStructure(md *markdown.Markdown, report *model.ComparisonReport) {
	md.H2("Structure")
	md.PlainText("")

	rows := [][]string{
		{"File count", strconv.Itoa(report.OriginalFileCount), strconv.Itoa(report.TranslatedFileCount)},
		{"Package document", orNone(report.OriginalRootfile), orNone(report.TranslatedRootfile)},
	}
	if report.SpineCompared {
		rows = append(rows, []string{
			"Reading order length",
			strconv.Itoa(report.OriginalSpineLen),
			strconv.Itoa(report.TranslatedSpineLen),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Original", "Translated"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.MissingInTranslated) > 0 {
		md.H3("Missing in translated")
		md.BulletList(report.MissingInTranslated...)
		md.PlainText("")
	}
	if len(report.ExtraInTranslated) > 0 {
		md.H3("Extra in translated")
		md.BulletList(report.ExtraInTranslated...)
		md.PlainText("")
	}
}

// writeChanges writes the content-diff listing as a table.
func (w *MarkdownWriter) writeChanges(md *markdown.Markdown, report *model.ComparisonReport) {
	md.H2("Changed Files")
	md.PlainText("")

	if len(report.Changes) == 0 {
		md.PlainText("No content differences on shared paths.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Changes))
	for i, c := range report.Changes {
		kind := "other"
		if c.Markup {
			kind = "markup"
		}
		rows[i] = []string{
			"`" + c.Path + "`",
			strconv.Itoa(c.OriginalSize),
			strconv.Itoa(c.TranslatedSize),
			c.OriginalDigest + " → " + c.TranslatedDigest,
			kind,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "Orig bytes", "Tran bytes", "Digest", "Kind"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFindings writes all findings grouped by category.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.ComparisonReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	for _, c := range model.Categories() {
		findings := report.FindingsByCategory(c)
		if len(findings) == 0 {
			continue
		}

		md.H3(c.String())
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		side := f.Side
		if side == "" {
			side = "-"
		}
		path := f.Path
		if path == "" {
			path = "-"
		}
		rows[i] = []string{
			truncateString(f.Message, 80),
			side,
			truncateString(path, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Message", "Side", "Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
