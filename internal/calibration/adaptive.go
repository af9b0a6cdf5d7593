// This file generates the candidate budgets tried during calibration.

package calibration

import (
	"slices"

	"github.com/agbru/fibtree/internal/fibonacci"
)

// GenerateBudgets returns the budgets to benchmark on a host with cores
// logical processors: every power of two up to twice the core count, plus
// the core count itself. Only powers of two change the tree shape; the core
// count is kept so that the default budget always appears in the table.
func GenerateBudgets(cores int, n uint64) []uint64 {
	cores = max(cores, 1)
	var candidates []uint64
	for b := uint64(1); b <= uint64(cores)*2; b *= 2 {
		candidates = append(candidates, b)
	}
	return fitBudgets(append(candidates, uint64(cores)), n)
}

// GenerateQuickBudgets returns a reduced sweep: sequential, the core count
// and twice the core count.
func GenerateQuickBudgets(cores int, n uint64) []uint64 {
	cores = max(cores, 1)
	return fitBudgets([]uint64{1, uint64(cores), uint64(cores) * 2}, n)
}

// fitBudgets clamps every candidate to n, fits it to a valid tree for n and
// returns the distinct results in ascending order.
func fitBudgets(candidates []uint64, n uint64) []uint64 {
	budgets := make([]uint64, 0, len(candidates))
	for _, b := range candidates {
		budgets = append(budgets, fibonacci.FitBudget(n, min(b, max(n, 1))))
	}
	slices.Sort(budgets)
	return slices.Compact(budgets)
}
