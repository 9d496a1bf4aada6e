package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/menuscan/menuscan/internal/model"
)

// ErrNotFound is returned when the dataset path does not exist at all.
// A missing individual table inside an existing dataset is not an
// error; the table is marked absent and dependent constraints report
// UNAVAILABLE.
var ErrNotFound = errors.New("dataset not found")

// Load reads a snapshot from path, choosing the loader by its form:
// a .db/.sqlite/.sqlite3 file loads via SQLite, a directory loads the
// four CSV files. label names the snapshot in reports; pass "" to use
// the path itself.
func Load(ctx context.Context, path, label string) (*model.Snapshot, error) {
	if label == "" {
		label = path
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat dataset path: %w", err)
	}

	if info.IsDir() {
		return LoadCSVDir(ctx, path, label)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path, label)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (expected a directory of CSV files or a SQLite database)", path)
	}
}

// dateLayouts are the forms menu dates appear in across exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseInt parses an integer field. Malformed or empty values come
// back as ok=false and are treated as absent, never as zero.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some exports write integral counts as "5.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return n, true
}

// parseFloat parses a real-valued field; malformed values are absent.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseDate parses a calendar date; malformed values are absent.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// floatPtr converts a parse result into the nullable representation.
func floatPtr(f float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &f
}

// intPtr converts a parse result into the nullable representation.
func intPtr(n int64, ok bool) *int64 {
	if !ok {
		return nil
	}
	return &n
}

// datePtr converts a parse result into the nullable representation.
func datePtr(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &t
}
