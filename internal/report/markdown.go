package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/menuscan/menuscan/internal/compare"
	"github.com/menuscan/menuscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
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

// WriteReport outputs the validation report in Markdown format.
func (w *MarkdownWriter) WriteReport(report *model.ValidationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeConstraintTable(md, report)
	w.writeViolationDetails(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with dataset information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ValidationReport) {
	md.H1("Data Integrity Report")
	md.PlainText("")

	rows := [][]string{
		{"Dataset", "`" + report.Dataset + "`"},
		{"Validated", report.DateValidated.Format("2006-01-02 15:04:05 MST")},
	}
	for _, name := range sortedTableNames(report.TableCounts) {
		rows = append(rows, []string{"Rows (" + name + ")", strconv.Itoa(report.TableCounts[name])})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// sortedTableNames returns the table-count keys in sorted order.
func sortedTableNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeSummary writes the status summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ValidationReport) {
	md.H2("Status Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Passed", strconv.Itoa(report.PassedCount())},
			{"❌ Failed", strconv.Itoa(report.FailedCount())},
			{"⚠️ Unavailable", strconv.Itoa(report.UnavailableCount())},
			{"**Total violations**", "**" + strconv.Itoa(report.TotalViolations) + "**"},
		},
	})
	md.PlainText("")

	if report.FailedCount() > 0 || report.UnavailableCount() > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for the status distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ValidationReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Constraint Status Distribution"),
		piechart.WithShowData(true),
	)

	if n := report.PassedCount(); n > 0 {
		chart.LabelAndIntValue("Passed", uint64(n))
	}
	if n := report.FailedCount(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}
	if n := report.UnavailableCount(); n > 0 {
		chart.LabelAndIntValue("Unavailable", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the report outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ValidationReport) {
	switch {
	case report.FailedCount() > 0:
		md.Warningf(
			"%d constraint(s) failed with %d total violation(s). The dataset needs cleaning.",
			report.FailedCount(), report.TotalViolations,
		)
	case report.UnavailableCount() > 0:
		md.Importantf(
			"%d constraint(s) could not run. Passing constraints cover only the available data.",
			report.UnavailableCount(),
		)
	default:
		md.Tip("All constraints passed. No integrity violations detected.")
	}
	md.PlainText("")
}

// writeConstraintTable writes one row per constraint with its outcome.
func (w *MarkdownWriter) writeConstraintTable(md *markdown.Markdown, report *model.ValidationReport) {
	md.H2("Constraints")
	md.PlainText("")

	rows := make([][]string, len(report.Constraints))
	for i, c := range report.Constraints {
		detail := "-"
		switch c.Status {
		case model.StatusFail:
			detail = strconv.Itoa(c.ViolationCount) + " violation(s)"
		case model.StatusUnavailable:
			detail = truncateString(c.Reason, 60)
		}
		rows[i] = []string{c.Name, w.getStatusText(c.Status), detail}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Constraint", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the decorated status text.
func (w *MarkdownWriter) getStatusText(status model.Status) string {
	switch status {
	case model.StatusPass:
		return "✅ PASS"
	case model.StatusFail:
		return "❌ FAIL"
	case model.StatusUnavailable:
		return "⚠️ UNAVAILABLE"
	default:
		return status.String()
	}
}

// writeViolationDetails writes sample rows for each failing constraint.
func (w *MarkdownWriter) writeViolationDetails(md *markdown.Markdown, report *model.ValidationReport) {
	failing := make([]model.ConstraintResult, 0, len(report.Constraints))
	for _, c := range report.Constraints {
		if c.Status == model.StatusFail && len(c.SampleViolations) > 0 {
			failing = append(failing, c)
		}
	}
	if len(failing) == 0 {
		return
	}

	md.H2("Sample Violations")
	md.PlainText("")

	for _, c := range failing {
		md.PlainText("### " + c.Name)
		md.PlainText("")
		w.writeSampleTable(md, c)
	}
}

// writeSampleTable writes the sample violations of one constraint as a
// table. Columns are the union of the sample keys in sorted order, so
// the table shape is deterministic.
func (w *MarkdownWriter) writeSampleTable(md *markdown.Markdown, c model.ConstraintResult) {
	keySet := make(map[string]bool)
	for _, v := range c.SampleViolations {
		for k := range v {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, len(c.SampleViolations))
	for i, v := range c.SampleViolations {
		row := make([]string, len(keys))
		for j, k := range keys {
			if val, ok := v[k]; ok {
				row[j] = truncateString(fmt.Sprintf("%v", val), 50)
			} else {
				row[j] = "-"
			}
		}
		rows[i] = row
	}

	md.Table(markdown.TableSet{
		Header: keys,
		Rows:   rows,
	})
	if c.ViolationCount > len(c.SampleViolations) {
		md.PlainTextf("*Showing %d of %d violations.*", len(c.SampleViolations), c.ViolationCount)
	}
	md.PlainText("")
}

// WriteComparison outputs the comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(comparison *compare.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Cleaning Effectiveness Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Original dataset", "`" + comparison.OriginalDataset + "`"},
			{"Cleaned dataset", "`" + comparison.CleanedDataset + "`"},
			{"Compared", comparison.DateCompared.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	md.H2("Per-Constraint Movement")
	md.PlainText("")

	rows := make([][]string, 0, len(comparison.Deltas)+1)
	for _, d := range comparison.Deltas {
		status := w.getDeltaStatusText(d)
		rows = append(rows, []string{
			d.Name,
			strconv.Itoa(d.OriginalCount),
			strconv.Itoa(d.CleanedCount),
			fmt.Sprintf("%+d", d.Improvement),
			status,
		})
	}
	rows = append(rows, []string{
		"**Total**",
		"**" + strconv.Itoa(comparison.TotalBefore) + "**",
		"**" + strconv.Itoa(comparison.TotalAfter) + "**",
		fmt.Sprintf("**%+d**", comparison.TotalBefore-comparison.TotalAfter),
		"",
	})

	md.Table(markdown.TableSet{
		Header: []string{"Constraint", "Original", "Cleaned", "Improvement", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	md.PlainTextf("**Improvement rate: %.1f%%**", comparison.ImprovementRate*100)
	md.PlainText("")

	w.writeComparisonAlert(md, comparison)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// getDeltaStatusText returns the decorated status for one delta row.
func (w *MarkdownWriter) getDeltaStatusText(d compare.ConstraintDelta) string {
	if d.MissingFrom != "" {
		return "⚠️ missing from " + d.MissingFrom
	}
	switch d.Status {
	case compare.StatusClean:
		return "✅ " + d.Status
	case compare.StatusFixed:
		return "✅ " + d.Status
	case compare.StatusPartial:
		return "🟡 " + d.Status
	case compare.StatusUnchanged:
		return "⚪ " + d.Status
	case compare.StatusRegressed:
		return "🔴 " + d.Status
	default:
		return d.Status
	}
}

// writeComparisonAlert writes an alert summarizing the comparison.
func (w *MarkdownWriter) writeComparisonAlert(md *markdown.Markdown, comparison *compare.Comparison) {
	regressed := 0
	for _, d := range comparison.Deltas {
		if d.Status == compare.StatusRegressed {
			regressed++
		}
	}

	switch {
	case regressed > 0:
		md.Cautionf(
			"Cleaning introduced violations: %d constraint(s) regressed. Review the cleaning pass before publishing.",
			regressed,
		)
	case comparison.TotalAfter == 0 && comparison.TotalBefore > 0:
		md.Tip(fmt.Sprintf("All %d original violation(s) were resolved by cleaning.", comparison.TotalBefore))
	case comparison.TotalAfter < comparison.TotalBefore:
		md.Note(fmt.Sprintf(
			"Cleaning removed %d of %d violation(s); %d remain.",
			comparison.TotalBefore-comparison.TotalAfter, comparison.TotalBefore, comparison.TotalAfter,
		))
	case comparison.TotalBefore == 0 && comparison.TotalAfter == 0:
		md.Tip("Both snapshots are clean.")
	default:
		md.Importantf("Cleaning did not reduce the total violation count (%d before, %d after).",
			comparison.TotalBefore, comparison.TotalAfter)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by menuscan*")
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
