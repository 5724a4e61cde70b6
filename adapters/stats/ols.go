package stats

import (
	"math"

	"k9stats/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearFit holds ordinary least squares estimates with 95% confidence
// intervals. Slices are aligned with Terms.
type LinearFit struct {
	Terms    []string
	Coef     []float64
	StdErr   []float64
	CILower  []float64
	CIUpper  []float64
	DF       int
	RSquared float64
}

// FitOLS fits y = Xb by ordinary least squares. Estimation is fully
// deterministic: identical inputs yield bit-identical coefficients.
func FitOLS(d *Design) (*LinearFit, error) {
	n, p := d.X.Dims()

	beta, err := solveLeastSquares(d.X, d.Y)
	if err != nil {
		return nil, err
	}

	// Residual variance and (X'X)^-1 for standard errors.
	rss := 0.0
	mean := 0.0
	for _, v := range d.Y {
		mean += v
	}
	mean /= float64(n)
	tss := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := 0; j < p; j++ {
			fitted += d.X.At(i, j) * beta[j]
		}
		r := d.Y[i] - fitted
		rss += r * r
		dy := d.Y[i] - mean
		tss += dy * dy
	}

	df := n - p
	sigma2 := rss / float64(df)

	var xtx mat.Dense
	xtx.Mul(d.X.T(), d.X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		if _, nearSingular := err.(mat.Condition); !nearSingular {
			return nil, core.ErrSingularDesign
		}
	}

	tCrit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}.Quantile(0.975)

	fit := &LinearFit{
		Terms:   append([]string(nil), d.Terms...),
		Coef:    beta,
		StdErr:  make([]float64, p),
		CILower: make([]float64, p),
		CIUpper: make([]float64, p),
		DF:      df,
	}
	for j := 0; j < p; j++ {
		se := xtxInv.At(j, j) * sigma2
		if se < 0 {
			se = 0
		}
		se = math.Sqrt(se)
		fit.StdErr[j] = se
		fit.CILower[j] = beta[j] - tCrit*se
		fit.CIUpper[j] = beta[j] + tCrit*se
	}
	if tss > 0 {
		fit.RSquared = 1 - rss/tss
	}
	return fit, nil
}
