package validator

import (
	"math"

	"github.com/menuscan/menuscan/internal/model"
)

// PriceStats holds the aggregate price statistics of one snapshot.
//
// StdDev uses the population formula (divide by N, not N-1). The
// outlier threshold mirrors the upper bound the cleaning stage caps
// against, and at dataset scale the two formulas differ by less than
// float noise; population is used consistently everywhere.
type PriceStats struct {
	// Count is the number of non-null prices the statistics cover.
	Count int

	// Mean is the arithmetic mean of non-null prices.
	Mean float64

	// StdDev is the population standard deviation of non-null prices.
	StdDev float64
}

// Threshold returns the outlier cut-off mean + sigma*stddev.
func (ps PriceStats) Threshold(sigma float64) float64 {
	return ps.Mean + sigma*ps.StdDev
}

// SnapshotPriceStats computes price statistics over all non-null
// MenuItem prices in the snapshot. ok is false when the snapshot has no
// non-null prices, in which case aggregate-based constraints report
// UNAVAILABLE rather than dividing by zero.
func SnapshotPriceStats(snap *model.Snapshot) (stats PriceStats, ok bool) {
	var sum float64
	for _, it := range snap.MenuItems {
		if it.Price == nil {
			continue
		}
		sum += *it.Price
		stats.Count++
	}
	if stats.Count == 0 {
		return PriceStats{}, false
	}
	stats.Mean = sum / float64(stats.Count)

	var sq float64
	for _, it := range snap.MenuItems {
		if it.Price == nil {
			continue
		}
		d := *it.Price - stats.Mean
		sq += d * d
	}
	stats.StdDev = math.Sqrt(sq / float64(stats.Count))
	return stats, true
}
