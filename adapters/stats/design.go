package stats

import (
	"fmt"
	"math"

	"k9stats/domain/core"
	"k9stats/domain/table"

	"gonum.org/v1/gonum/mat"
)

// InterceptTerm names the constant column every design matrix carries first.
const InterceptTerm = "(Intercept)"

// Design is a fitted-ready regression problem: a response vector and a dense
// design matrix over complete cases only.
//
// Boolean predictors contribute one 0/1 column. Categorical predictors with
// L levels contribute L-1 dummy columns against the first declared level.
// Integer and continuous predictors enter as raw values. Terms are named
// explicitly and checked at build time; there is no implicit environment
// lookup.
type Design struct {
	Y     []float64
	X     *mat.Dense // n x p, first column is the intercept
	Terms []string   // p names, Terms[0] == InterceptTerm
	N     int
}

// BuildDesign projects the table onto {outcome} ∪ predictors, encodes model
// terms, and drops rows with any missing cell among the used columns.
func BuildDesign(tbl *table.Table, outcome string, predictors []string) (*Design, error) {
	outCol, err := tbl.Column(outcome)
	if err != nil {
		return nil, err
	}
	if outCol.Type == table.TypeCategorical && len(outCol.Levels) > 2 {
		return nil, fmt.Errorf("%w: outcome %q has %d levels, want binary or numeric",
			core.ErrSchema, outcome, len(outCol.Levels))
	}

	cols := make([]*table.Column, 0, len(predictors))
	for _, name := range predictors {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	// Complete cases across outcome and every predictor.
	rows := make([]int, 0, tbl.RowCount())
	for i := 0; i < tbl.RowCount(); i++ {
		if outCol.Missing(i) {
			continue
		}
		ok := true
		for _, col := range cols {
			if col.Missing(i) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, i)
		}
	}

	terms := []string{InterceptTerm}
	for _, col := range cols {
		switch {
		case col.Type == table.TypeCategorical:
			for _, level := range col.Levels[1:] {
				terms = append(terms, fmt.Sprintf("%s[%s]", col.Name, level))
			}
		default:
			terms = append(terms, col.Name)
		}
	}

	n := len(rows)
	p := len(terms)
	if n <= p {
		return nil, fmt.Errorf("%w: %d complete cases for %d model terms",
			core.ErrInsufficientData, n, p)
	}

	y := make([]float64, n)
	data := make([]float64, n*p)
	for r, row := range rows {
		y[r] = outCol.Values[row]
		data[r*p] = 1 // intercept
		j := 1
		for _, col := range cols {
			switch {
			case col.Type == table.TypeCategorical:
				code := int(col.Values[row])
				for level := 1; level < len(col.Levels); level++ {
					if code == level {
						data[r*p+j] = 1
					}
					j++
				}
			default:
				data[r*p+j] = col.Values[row]
				j++
			}
		}
	}

	return &Design{
		Y:     y,
		X:     mat.NewDense(n, p, data),
		Terms: terms,
		N:     n,
	}, nil
}

// columnWithout returns a copy of the design matrix missing column j, used
// by the collinearity diagnostic.
func (d *Design) columnWithout(j int) (target []float64, rest *mat.Dense) {
	n, p := d.X.Dims()
	target = make([]float64, n)
	data := make([]float64, n*(p-1))
	for r := 0; r < n; r++ {
		k := 0
		for c := 0; c < p; c++ {
			v := d.X.At(r, c)
			if c == j {
				target[r] = v
				continue
			}
			data[r*(p-1)+k] = v
			k++
		}
	}
	return target, mat.NewDense(n, p-1, data)
}

// solveLeastSquares solves min ||Xb - y|| by QR and returns the coefficient
// vector. Returns a singular-design error when X is rank deficient.
func solveLeastSquares(x *mat.Dense, y []float64) ([]float64, error) {
	n, p := x.Dims()
	var qr mat.QR
	qr.Factorize(x)

	b := mat.NewDense(n, 1, append([]float64(nil), y...))
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, core.ErrSingularDesign
	}

	beta := make([]float64, p)
	for j := 0; j < p; j++ {
		v := sol.At(j, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.ErrSingularDesign
		}
		beta[j] = v
	}
	return beta, nil
}
