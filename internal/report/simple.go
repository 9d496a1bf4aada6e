package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/menuscan/menuscan/internal/compare"
	"github.com/menuscan/menuscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and aligned constraint tables.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showPassing controls whether passing constraints are listed
	// individually rather than only counted in the summary.
	showPassing bool

	// verbose enables sample violation rows in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowPassing configures the writer to list passing constraints.
func WithShowPassing(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showPassing = show
	}
}

// WithVerbose enables verbose output with sample violation rows.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:  newBaseWriter(output),
		showPassing: true,
		verbose:     false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteReport outputs the validation report in human-readable format.
func (w *SimpleWriter) WriteReport(report *model.ValidationReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeTableCounts(&sb, report)
	w.writeConstraints(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with dataset information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ValidationReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    DATA INTEGRITY VALIDATION\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Dataset:        %s\n", report.Dataset))
	sb.WriteString(fmt.Sprintf("Validated:      %s\n", report.DateValidated.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeTableCounts writes the loaded row counts per table.
func (w *SimpleWriter) writeTableCounts(sb *strings.Builder, report *model.ValidationReport) {
	if len(report.TableCounts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TABLES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	names := make([]string, 0, len(report.TableCounts))
	for name := range report.TableCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  %-12s %d rows\n", name, report.TableCounts[name]))
	}
	sb.WriteString("\n")
}

// writeConstraints writes one line per constraint with its status and
// violation count, plus sample rows in verbose mode.
func (w *SimpleWriter) writeConstraints(sb *strings.Builder, report *model.ValidationReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CONSTRAINTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Constraints {
		if c.Status == model.StatusPass && !w.showPassing {
			continue
		}

		indicator := w.getStatusIndicator(c.Status)
		switch c.Status {
		case model.StatusUnavailable:
			sb.WriteString(fmt.Sprintf("  [%s] %-34s %s\n", indicator, c.Name, c.Status))
			if c.Reason != "" {
				sb.WriteString(fmt.Sprintf("      %s\n", c.Reason))
			}
		case model.StatusFail:
			sb.WriteString(fmt.Sprintf("  [%s] %-34s %s (%d violations)\n", indicator, c.Name, c.Status, c.ViolationCount))
			if w.verbose {
				w.writeSamples(sb, c.SampleViolations)
			}
		default:
			sb.WriteString(fmt.Sprintf("  [%s] %-34s %s\n", indicator, c.Name, c.Status))
		}
	}
	sb.WriteString("\n")
}

// writeSamples writes sample violation rows beneath a failing constraint.
func (w *SimpleWriter) writeSamples(sb *strings.Builder, samples []model.Violation) {
	for _, v := range samples {
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v[k]))
		}
		sb.WriteString(fmt.Sprintf("      - %s\n", strings.Join(parts, " ")))
	}
}

// writeSummary writes the status totals.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ValidationReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  PASSED:      %d\n", report.PassedCount()))
	sb.WriteString(fmt.Sprintf("  FAILED:      %d\n", report.FailedCount()))
	sb.WriteString(fmt.Sprintf("  UNAVAILABLE: %d\n", report.UnavailableCount()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:       %d violations\n", report.TotalViolations))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// getStatusIndicator returns a visual indicator for the constraint status.
func (w *SimpleWriter) getStatusIndicator(status model.Status) string {
	switch status {
	case model.StatusPass:
		return "+"
	case model.StatusFail:
		return "!"
	case model.StatusUnavailable:
		return "?"
	default:
		return " "
	}
}

// WriteComparison outputs the comparison in human-readable format.
func (w *SimpleWriter) WriteComparison(comparison *compare.Comparison) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 86))
	sb.WriteString("\n")
	sb.WriteString("                         CLEANING EFFECTIVENESS COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 86))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Original:       %s\n", comparison.OriginalDataset))
	sb.WriteString(fmt.Sprintf("Cleaned:        %s\n", comparison.CleanedDataset))
	sb.WriteString(fmt.Sprintf("Compared:       %s\n", comparison.DateCompared.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  %-34s %10s %10s %12s  %s\n", "CONSTRAINT", "ORIGINAL", "CLEANED", "IMPROVEMENT", "STATUS"))
	sb.WriteString("  " + strings.Repeat("-", 82) + "\n")

	for _, d := range comparison.Deltas {
		status := d.Status
		if d.MissingFrom != "" {
			status = "MISSING FROM " + strings.ToUpper(d.MissingFrom)
		}
		sb.WriteString(fmt.Sprintf("  %-34s %10d %10d %+12d  %s\n",
			d.Name, d.OriginalCount, d.CleanedCount, d.Improvement, status))
	}

	sb.WriteString("  " + strings.Repeat("-", 82) + "\n")
	sb.WriteString(fmt.Sprintf("  %-34s %10d %10d %+12d\n",
		"TOTAL", comparison.TotalBefore, comparison.TotalAfter,
		comparison.TotalBefore-comparison.TotalAfter))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Improvement rate: %.1f%%\n", comparison.ImprovementRate*100))
	sb.WriteString(strings.Repeat("=", 86))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}
