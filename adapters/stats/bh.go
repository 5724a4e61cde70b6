package stats

import "sort"

// AdjustBH applies the Benjamini-Hochberg step-up adjustment to a list of
// raw p-values and returns adjusted values in the original input order.
//
// The adjustment is global: it depends on each p-value's rank among all
// hypotheses, so it must see the complete list. Adjusted values are
// monotone in the raw values and never smaller than them.
func AdjustBH(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps tied p-values in input order.
	sort.SliceStable(order, func(a, b int) bool {
		return pvalues[order[a]] < pvalues[order[b]]
	})

	adjusted := make([]float64, m)
	runningMin := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		q := pvalues[idx] * float64(m) / float64(rank)
		if q > 1 {
			q = 1
		}
		if q < runningMin {
			runningMin = q
		}
		adjusted[idx] = runningMin
	}
	return adjusted
}
