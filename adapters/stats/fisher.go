package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Test method identifiers recorded on screening records
const (
	MethodFisherExact     = "fisher_exact"
	MethodChiSquareApprox = "chi_square_approx"
)

// ExactResult is the outcome of a bivariate association test on a
// contingency table.
type ExactResult struct {
	PValue    float64
	OddsRatio float64 // cross-product estimate; NaN when the table is not 2x2
	Method    string
}

// FisherExact runs Fisher's exact test on a 2x2 table. Tables larger than
// 2x2 fall back to the chi-square approximation since exact enumeration is
// infeasible for survey-sized counts; the method field records which path
// was taken.
func FisherExact(ct *ContingencyTable) ExactResult {
	if !ct.Is2x2() {
		return ExactResult{
			PValue:    chiSquarePValue(ct),
			OddsRatio: math.NaN(),
			Method:    MethodChiSquareApprox,
		}
	}

	a := ct.Counts[0][0]
	b := ct.Counts[0][1]
	c := ct.Counts[1][0]
	d := ct.Counts[1][1]

	return ExactResult{
		PValue:    fisherPValue(a, b, c, d),
		OddsRatio: oddsRatio(a, b, c, d),
		Method:    MethodFisherExact,
	}
}

// fisherPValue computes the two-sided exact p-value by summing the
// probabilities of all tables with the same margins that are no more likely
// than the observed one.
func fisherPValue(a, b, c, d int) float64 {
	r1 := a + b
	r2 := c + d
	c1 := a + c
	n := r1 + r2

	if n == 0 || r1 == 0 || r2 == 0 || c1 == 0 || c1 == n {
		return 1.0
	}

	lo := 0
	if c1-r2 > lo {
		lo = c1 - r2
	}
	hi := r1
	if c1 < hi {
		hi = c1
	}

	logObs := hypergeomLogProb(a, r1, r2, c1, n)
	// Tolerance guards against ties lost to floating point.
	cutoff := logObs + 1e-7

	p := 0.0
	for k := lo; k <= hi; k++ {
		lp := hypergeomLogProb(k, r1, r2, c1, n)
		if lp <= cutoff {
			p += math.Exp(lp)
		}
	}
	if p > 1 {
		p = 1
	}
	return p
}

// hypergeomLogProb is the log probability of k successes in the first row
// given fixed margins.
func hypergeomLogProb(k, r1, r2, c1, n int) float64 {
	return logChoose(r1, k) + logChoose(r2, c1-k) - logChoose(n, c1)
}

func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	ln1, _ := math.Lgamma(float64(n + 1))
	lk, _ := math.Lgamma(float64(k + 1))
	lnk, _ := math.Lgamma(float64(n - k + 1))
	return ln1 - lk - lnk
}

// oddsRatio is the sample cross-product ratio. Zero cells get the Haldane
// 0.5 correction so the estimate stays finite and directional.
func oddsRatio(a, b, c, d int) float64 {
	if a == 0 || b == 0 || c == 0 || d == 0 {
		fa, fb, fc, fd := float64(a)+0.5, float64(b)+0.5, float64(c)+0.5, float64(d)+0.5
		return (fa * fd) / (fb * fc)
	}
	return (float64(a) * float64(d)) / (float64(b) * float64(c))
}

// chiSquarePValue is the Pearson chi-square test of independence for r x c
// tables.
func chiSquarePValue(ct *ContingencyTable) float64 {
	rows := len(ct.Counts)
	if rows == 0 {
		return 1.0
	}
	cols := len(ct.Counts[0])
	df := (rows - 1) * (cols - 1)
	if df < 1 || ct.N == 0 {
		return 1.0
	}

	rowTotals := make([]int, rows)
	colTotals := make([]int, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += ct.Counts[i][j]
			colTotals[j] += ct.Counts[i][j]
		}
	}

	chi2 := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := float64(rowTotals[i]) * float64(colTotals[j]) / float64(ct.N)
			if expected > 0 {
				diff := float64(ct.Counts[i][j]) - expected
				chi2 += diff * diff / expected
			}
		}
	}

	dist := distuv.ChiSquared{K: float64(df)}
	p := 1 - dist.CDF(chi2)
	if p < 0 {
		p = 0
	}
	return p
}
