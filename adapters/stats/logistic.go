package stats

import (
	"fmt"
	"math"

	"k9stats/domain/core"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	irlsMaxIterations = 25
	irlsTolerance     = 1e-8
	// Weight floor keeps the working response finite when fitted
	// probabilities saturate. Perfect separation is deliberately not
	// detected here; it surfaces as extreme coefficients for the caller
	// to judge.
	irlsMinWeight = 1e-10
)

// LogisticFit holds binomial-family logit-link estimates. Odds ratios are
// exponentiated coefficients with exponentiated Wald 95% intervals.
// Slices are aligned with Terms.
type LogisticFit struct {
	Terms      []string
	Coef       []float64
	StdErr     []float64
	CILower    []float64
	CIUpper    []float64
	OddsRatio  []float64
	ORLower    []float64
	ORUpper    []float64
	Iterations int
}

// FitLogistic fits a logistic regression by iteratively reweighted least
// squares (Newton-Raphson). The procedure has no stochastic step, so runs
// on identical input are bit-identical. Non-convergence after the iteration
// cap is reported with the solver diagnostic.
func FitLogistic(d *Design) (*LogisticFit, error) {
	n, p := d.X.Dims()
	for _, v := range d.Y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%w: logistic outcome must be coded 0/1, got %v", core.ErrSchema, v)
		}
	}

	beta := make([]float64, p)
	eta := make([]float64, n)
	w := make([]float64, n)
	z := make([]float64, n)

	var chol mat.Cholesky
	iterations := 0
	for iter := 1; iter <= irlsMaxIterations; iter++ {
		iterations = iter
		for i := 0; i < n; i++ {
			e := 0.0
			for j := 0; j < p; j++ {
				e += d.X.At(i, j) * beta[j]
			}
			eta[i] = e
			mu := 1 / (1 + math.Exp(-e))
			wi := mu * (1 - mu)
			if wi < irlsMinWeight {
				wi = irlsMinWeight
			}
			w[i] = wi
			z[i] = e + (d.Y[i]-mu)/wi
		}

		xtwx, xtwz := weightedNormalEquations(d.X, w, z)
		if ok := chol.Factorize(xtwx); !ok {
			return nil, fmt.Errorf("%w: information matrix not positive definite at iteration %d",
				core.ErrSingularDesign, iter)
		}

		var next mat.VecDense
		if err := chol.SolveVecTo(&next, xtwz); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrSingularDesign, err)
		}

		maxDelta := 0.0
		for j := 0; j < p; j++ {
			delta := math.Abs(next.AtVec(j) - beta[j])
			if delta > maxDelta {
				maxDelta = delta
			}
			beta[j] = next.AtVec(j)
		}
		if maxDelta < irlsTolerance {
			return assembleLogisticFit(d, beta, &chol, iterations)
		}
	}

	return nil, fmt.Errorf("%w after %d IRLS iterations", core.ErrNoConvergence, irlsMaxIterations)
}

// weightedNormalEquations builds X'WX and X'Wz for one IRLS step.
func weightedNormalEquations(x *mat.Dense, w, z []float64) (*mat.SymDense, *mat.VecDense) {
	n, p := x.Dims()
	xtwx := mat.NewSymDense(p, nil)
	xtwz := mat.NewVecDense(p, nil)
	for j := 0; j < p; j++ {
		for k := j; k < p; k++ {
			s := 0.0
			for i := 0; i < n; i++ {
				s += x.At(i, j) * w[i] * x.At(i, k)
			}
			xtwx.SetSym(j, k, s)
		}
		s := 0.0
		for i := 0; i < n; i++ {
			s += x.At(i, j) * w[i] * z[i]
		}
		xtwz.SetVec(j, s)
	}
	return xtwx, xtwz
}

func assembleLogisticFit(d *Design, beta []float64, chol *mat.Cholesky, iterations int) (*LogisticFit, error) {
	p := len(beta)

	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, fmt.Errorf("%w: covariance inversion: %v", core.ErrSingularDesign, err)
	}

	zCrit := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)

	fit := &LogisticFit{
		Terms:      append([]string(nil), d.Terms...),
		Coef:       append([]float64(nil), beta...),
		StdErr:     make([]float64, p),
		CILower:    make([]float64, p),
		CIUpper:    make([]float64, p),
		OddsRatio:  make([]float64, p),
		ORLower:    make([]float64, p),
		ORUpper:    make([]float64, p),
		Iterations: iterations,
	}
	for j := 0; j < p; j++ {
		se := cov.At(j, j)
		if se < 0 {
			se = 0
		}
		se = math.Sqrt(se)
		fit.StdErr[j] = se
		fit.CILower[j] = beta[j] - zCrit*se
		fit.CIUpper[j] = beta[j] + zCrit*se
		fit.OddsRatio[j] = math.Exp(beta[j])
		fit.ORLower[j] = math.Exp(fit.CILower[j])
		fit.ORUpper[j] = math.Exp(fit.CIUpper[j])
	}
	return fit, nil
}
