package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menuscan/menuscan/internal/compare"
)

// TestCompareCmdFlags tests the compare command flag definitions.
func TestCompareCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	tests := []struct {
		name      string
		shorthand string
	}{
		{"list", "l"},
		{"dataset", "d"},
		{"sigma", "s"},
		{"samples", "n"},
		{"min-year", ""},
		{"max-year", ""},
		{"concurrency", "p"},
		{"config", "c"},
		{"json", "j"},
		{"markdown", "m"},
		{"output", "o"},
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

	// The compare command does not save runs, so it carries no
	// history-saving flag.
	if cmd.Flags().Lookup("no-save") != nil {
		t.Error("did not expect a --no-save flag on compare")
	}
}

// TestCompareCmdRequiresTwoDatasets tests the missing-cleaned error.
func TestCompareCmdRequiresTwoDatasets(t *testing.T) {
	dir := writeDataset(t, dirtyDataset())

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"compare", dir})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error with a single dataset")
	}
	if !strings.Contains(err.Error(), "two datasets") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestCompareCmdWritesJSONComparison runs a full comparison against
// CSV fixtures and checks the JSON output.
func TestCompareCmdWritesJSONComparison(t *testing.T) {
	original := writeDataset(t, dirtyDataset())
	cleaned := writeDataset(t, cleanedDataset())
	out := filepath.Join(t.TempDir(), "comparison.json")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"compare", "-j", "-o", out, original, cleaned})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected the comparison file to exist: %v", err)
	}

	var comparison compare.Comparison
	if err := json.Unmarshal(data, &comparison); err != nil {
		t.Fatalf("comparison is not valid JSON: %v", err)
	}

	if comparison.OriginalDataset != filepath.Base(original) {
		t.Errorf("original dataset = %q, want %q", comparison.OriginalDataset, filepath.Base(original))
	}
	if comparison.CleanedDataset != filepath.Base(cleaned) {
		t.Errorf("cleaned dataset = %q, want %q", comparison.CleanedDataset, filepath.Base(cleaned))
	}
	if len(comparison.Deltas) == 0 {
		t.Fatal("expected per-constraint deltas")
	}

	delta := comparison.Delta("missing_dish_references")
	if delta == nil {
		t.Fatal("expected a missing_dish_references delta")
	}
	if delta.OriginalCount != 1 || delta.CleanedCount != 0 {
		t.Errorf("unexpected delta %+v", delta)
	}
	if delta.Status != compare.StatusFixed {
		t.Errorf("delta status = %q, want %q", delta.Status, compare.StatusFixed)
	}

	if comparison.TotalBefore == 0 {
		t.Error("expected violations in the original snapshot")
	}
	if comparison.ImprovementRate <= 0 {
		t.Errorf("expected a positive improvement rate, got %v", comparison.ImprovementRate)
	}
}
