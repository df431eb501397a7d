package selection

import (
	"math"
	"sort"

	"github.com/jineeshjohn/market-movers/internal/contracts"
)

// Selector extracts the ranking field from a result
type Selector[T any] func(T) float64

// Common selectors
var (
	ByDelta    Selector[contracts.MomentumResult] = func(r contracts.MomentumResult) float64 { return r.Delta }
	ByLastWeek Selector[contracts.WeeklyReturns]  = func(r contracts.WeeklyReturns) float64 { return r.LastWeek }
	ByPrevWeek Selector[contracts.WeeklyReturns]  = func(r contracts.WeeklyReturns) float64 { return r.PrevWeek }
	ByDiff     Selector[contracts.BarDiff]        = func(r contracts.BarDiff) float64 { return r.Diff }
)

// Rank drops results whose field is NaN or infinite, sorts the rest by the
// field descending (ties keep input order) and keeps the first topK.
// topK <= 0 keeps everything. The input slice is not modified.
// ⭐ SSOT: 랭킹 로직은 여기서만
func Rank[T any](results []T, field Selector[T], topK int) []T {
	ranked := make([]T, 0, len(results))
	for _, r := range results {
		v := field(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return field(ranked[i]) > field(ranked[j])
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return ranked
}
