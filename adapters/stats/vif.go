package stats

import (
	"math"
)

// VIFs computes the variance inflation factor for every non-intercept term
// in the design: each term is regressed on all remaining terms (intercept
// included) and VIF = 1/(1-R²). The returned slice is aligned with
// design.Terms; the intercept position holds NaN.
//
// An exactly collinear term reports +Inf rather than an error, leaving the
// judgment to the caller the same way separation diagnostics do.
func VIFs(d *Design) []float64 {
	n, p := d.X.Dims()
	out := make([]float64, p)
	out[0] = math.NaN()

	for j := 1; j < p; j++ {
		target, rest := d.columnWithout(j)
		beta, err := solveLeastSquares(rest, target)
		if err != nil {
			out[j] = math.Inf(1)
			continue
		}

		mean := 0.0
		for _, v := range target {
			mean += v
		}
		mean /= float64(n)

		rss, tss := 0.0, 0.0
		for i := 0; i < n; i++ {
			fitted := 0.0
			for k := 0; k < p-1; k++ {
				fitted += rest.At(i, k) * beta[k]
			}
			r := target[i] - fitted
			rss += r * r
			dm := target[i] - mean
			tss += dm * dm
		}

		if tss == 0 {
			// Constant column; collinear with the intercept.
			out[j] = math.Inf(1)
			continue
		}
		r2 := 1 - rss/tss
		if r2 >= 1-1e-12 {
			out[j] = math.Inf(1)
			continue
		}
		out[j] = 1 / (1 - r2)
	}
	return out
}
