package validator

import (
	"math"
	"testing"

	"github.com/menuscan/menuscan/internal/model"
)

// priceSnapshot builds a snapshot whose menu items carry the given
// prices. A nil entry is a null price.
func priceSnapshot(prices ...*float64) *model.Snapshot {
	snap := model.NewSnapshot("stats-test")
	snap.MarkTable(model.TableMenuItem)
	for i, p := range prices {
		snap.MenuItems = append(snap.MenuItems, model.MenuItem{
			ID:         int64(i + 1),
			MenuPageID: int64Ptr(1),
			DishID:     int64Ptr(1),
			Price:      p,
		})
	}
	return snap
}

func price(v float64) *float64 { return &v }

// TestSnapshotPriceStats tests aggregate price statistics.
func TestSnapshotPriceStats(t *testing.T) {
	t.Parallel()

	t.Run("computes mean and population stddev", func(t *testing.T) {
		t.Parallel()

		snap := priceSnapshot(price(1), price(2), price(3))

		stats, ok := SnapshotPriceStats(snap)
		if !ok {
			t.Fatal("expected stats to be available")
		}
		if stats.Count != 3 {
			t.Errorf("expected count 3, got %d", stats.Count)
		}
		if stats.Mean != 2 {
			t.Errorf("expected mean 2, got %v", stats.Mean)
		}
		// Population stddev of {1,2,3} is sqrt(2/3).
		want := math.Sqrt(2.0 / 3.0)
		if math.Abs(stats.StdDev-want) > 1e-12 {
			t.Errorf("expected stddev %v, got %v", want, stats.StdDev)
		}
	})

	t.Run("skips null prices", func(t *testing.T) {
		t.Parallel()

		snap := priceSnapshot(price(10), nil, price(20), nil)

		stats, ok := SnapshotPriceStats(snap)
		if !ok {
			t.Fatal("expected stats to be available")
		}
		if stats.Count != 2 {
			t.Errorf("expected count 2, got %d", stats.Count)
		}
		if stats.Mean != 15 {
			t.Errorf("expected mean 15, got %v", stats.Mean)
		}
	})

	t.Run("unavailable with no non-null prices", func(t *testing.T) {
		t.Parallel()

		snap := priceSnapshot(nil, nil)

		if _, ok := SnapshotPriceStats(snap); ok {
			t.Error("expected ok=false with only null prices")
		}
	})

	t.Run("unavailable with zero rows", func(t *testing.T) {
		t.Parallel()

		snap := priceSnapshot()

		if _, ok := SnapshotPriceStats(snap); ok {
			t.Error("expected ok=false with zero rows")
		}
	})
}

// TestPriceStatsThreshold tests the outlier cut-off formula.
func TestPriceStatsThreshold(t *testing.T) {
	t.Parallel()

	stats := PriceStats{Count: 10, Mean: 2.5, StdDev: 0.5}

	if got := stats.Threshold(3); got != 4.0 {
		t.Errorf("expected threshold 4.0, got %v", got)
	}
	if got := stats.Threshold(0); got != 2.5 {
		t.Errorf("expected threshold equal to mean at sigma 0, got %v", got)
	}
}
