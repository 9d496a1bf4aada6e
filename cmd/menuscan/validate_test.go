package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/menuscan/menuscan/internal/config"
	"github.com/menuscan/menuscan/internal/model"
)

// writeDataset writes CSV fixture files into a temp dataset directory.
func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}
	return dir
}

// dirtyDataset returns fixtures with one orphaned dish reference. The
// item with the empty dish_id cell is noise the reference checks must
// ignore.
func dirtyDataset() map[string]string {
	return map[string]string{
		"Menu.csv": "id,name,date,location,page_count,dish_count\n" +
			"1,Dinner,1900-04-15,The Modern,1,2\n",
		"MenuPage.csv": "id,menu_id,page_number\n" +
			"10,1,1\n",
		"MenuItem.csv": "id,menu_page_id,dish_id,price\n" +
			"100,10,1000,0.40\n" +
			"101,10,9999,0.60\n" +
			"36,10,,0.50\n",
		"Dish.csv": "id,name,price_low,price_high,times_appeared\n" +
			"1000,Oysters Rockefeller,0.30,0.50,12\n",
	}
}

// cleanedDataset returns the dirty fixtures with the orphan removed.
func cleanedDataset() map[string]string {
	files := dirtyDataset()
	files["MenuItem.csv"] = "id,menu_page_id,dish_id,price\n" +
		"100,10,1000,0.40\n"
	files["Menu.csv"] = "id,name,date,location,page_count,dish_count\n" +
		"1,Dinner,1900-04-15,The Modern,1,1\n"
	return files
}

// TestValidateCmdFlags tests the validate command flag definitions.
func TestValidateCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewValidateCmd()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"sigma", "s"},
		{"samples", "n"},
		{"min-year", ""},
		{"max-year", ""},
		{"concurrency", "p"},
		{"config", "c"},
		{"json", "j"},
		{"markdown", "m"},
		{"output", "o"},
		{"no-save", ""},
	}

	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Errorf("expected --%s flag", tt.name)
			continue
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
		}
	}
}

// TestValidateCmdMissingDataset tests the no-dataset error path.
func TestValidateCmdMissingDataset(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"validate"})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrNoDataset) {
		t.Errorf("expected ErrNoDataset, got %v", err)
	}
}

// TestValidateCmdConflictingFormats tests the format exclusivity check.
func TestValidateCmdConflictingFormats(t *testing.T) {
	dir := writeDataset(t, dirtyDataset())

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"validate", "--json", "--markdown", dir})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrConflictingReportFormats) {
		t.Errorf("expected ErrConflictingReportFormats, got %v", err)
	}
}

// TestValidateCmdExplicitConfigMissing tests that a named config file
// must exist.
func TestValidateCmdExplicitConfigMissing(t *testing.T) {
	dir := writeDataset(t, dirtyDataset())

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"validate", "-c", filepath.Join(t.TempDir(), "missing"), dir})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

// TestValidateCmdWritesJSONReport runs a full validation against CSV
// fixtures and checks the JSON report file.
func TestValidateCmdWritesJSONReport(t *testing.T) {
	dir := writeDataset(t, dirtyDataset())
	out := filepath.Join(t.TempDir(), "reports", "report.json")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"validate", "--no-save", "-j", "-o", out, dir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected the report file to exist: %v", err)
	}

	var report model.ValidationReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if report.Dataset != filepath.Base(dir) {
		t.Errorf("dataset = %q, want %q", report.Dataset, filepath.Base(dir))
	}
	if len(report.Constraints) == 0 {
		t.Fatal("expected constraint results")
	}

	// The fixtures carry one orphaned dish reference.
	refs := report.Result("missing_dish_references")
	if refs == nil {
		t.Fatal("expected a missing_dish_references result")
	}
	if refs.Status != model.StatusFail || refs.ViolationCount != 1 {
		t.Errorf("unexpected result %+v", refs)
	}
	if len(refs.SampleViolations) != 1 {
		t.Fatalf("expected 1 sample violation, got %d", len(refs.SampleViolations))
	}
	if got := refs.SampleViolations[0]["dish_id"]; got != float64(9999) {
		t.Errorf("expected dish_id 9999 in sample, got %v", got)
	}
}

// TestValidateCmdMarkdownReport runs a validation with Markdown output.
func TestValidateCmdMarkdownReport(t *testing.T) {
	dir := writeDataset(t, cleanedDataset())
	out := filepath.Join(t.TempDir(), "report.md")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"validate", "--no-save", "-m", "-o", out, dir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected the report file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected a non-empty Markdown report")
	}
}
