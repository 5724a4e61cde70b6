package app

import (
	"context"
	"math"

	"k9stats/adapters/stats"
	"k9stats/domain/core"
	"k9stats/domain/model"
	"k9stats/domain/table"
	"k9stats/internal"

	"golang.org/x/sync/errgroup"
)

// Evaluator runs the repeated-model-fitting routine: for each outcome it
// filters sparse predictors, picks the model family from the outcome type,
// fits the regression, and attaches confidence intervals and collinearity
// diagnostics.
type Evaluator struct {
	threshold   int
	parallelism int
	logger      *internal.Logger
}

// EvaluatorOption configures an Evaluator
type EvaluatorOption func(*Evaluator)

// WithThreshold overrides the sparse-contingency cell threshold
func WithThreshold(threshold int) EvaluatorOption {
	return func(e *Evaluator) { e.threshold = threshold }
}

// WithParallelism allows up to n outcomes to be fitted concurrently.
// Each outcome's fit is independent; output order stays fixed by input
// index regardless of scheduling.
func WithParallelism(n int) EvaluatorOption {
	return func(e *Evaluator) { e.parallelism = n }
}

// WithLogger sets the logger
func WithLogger(logger *internal.Logger) EvaluatorOption {
	return func(e *Evaluator) { e.logger = logger }
}

// NewEvaluator creates an evaluator with the default threshold of 10 and
// sequential execution.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		threshold:   stats.DefaultSparseThreshold,
		parallelism: 1,
		logger:      internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parallelism < 1 {
		e.parallelism = 1
	}
	return e
}

// Evaluate fits one model per outcome against the shared predictor list.
// Results appear in input outcome order; outcomes whose fit fails are
// reported in Failures and produce no partial result. A failure never
// aborts the batch.
func (e *Evaluator) Evaluate(ctx context.Context, tbl *table.Table, outcomes, predictors []string) (*model.BatchResult, error) {
	type slot struct {
		result  *model.ModelResult
		failure *model.FitFailure
	}
	slots := make([]slot, len(outcomes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, outcome := range outcomes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := e.evaluateOne(tbl, outcome, predictors)
			if err != nil {
				e.logger.Warn("fit failed for outcome %q: %v", outcome, err)
				slots[i] = slot{failure: &model.FitFailure{
					Outcome: outcome,
					Err:     err,
					Reason:  err.Error(),
				}}
				return nil
			}
			slots[i] = slot{result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &model.BatchResult{}
	for _, s := range slots {
		if s.result != nil {
			batch.Results = append(batch.Results, *s.result)
		}
		if s.failure != nil {
			batch.Failures = append(batch.Failures, *s.failure)
		}
	}
	return batch, nil
}

// evaluateOne runs the full per-outcome pipeline: project, filter, build the
// design, fit, diagnose.
func (e *Evaluator) evaluateOne(tbl *table.Table, outcome string, predictors []string) (*model.ModelResult, error) {
	names := append([]string{outcome}, predictors...)
	view, err := tbl.Project(names...)
	if err != nil {
		return nil, err
	}

	filtered, dropped, err := stats.Filter(view, outcome, e.threshold)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		e.logger.Info("outcome %q: dropped sparse predictors %v", outcome, dropped)
	}

	retained := make([]string, 0, len(predictors))
	for _, p := range predictors {
		if filtered.HasColumn(p) {
			retained = append(retained, p)
		}
	}

	outCol, err := filtered.Column(outcome)
	if err != nil {
		return nil, err
	}
	family := model.FamilyLinear
	if outCol.Type.IsCategorical() {
		family = model.FamilyLogistic
	}

	design, err := stats.BuildDesign(filtered, outcome, retained)
	if err != nil {
		return nil, err
	}

	var terms []model.Term
	iterations := 0
	switch family {
	case model.FamilyLogistic:
		fit, err := stats.FitLogistic(design)
		if err != nil {
			return nil, core.NewFitError(outcome, err)
		}
		iterations = fit.Iterations
		terms = logisticTerms(fit, stats.VIFs(design))
	default:
		fit, err := stats.FitOLS(design)
		if err != nil {
			return nil, core.NewFitError(outcome, err)
		}
		terms = linearTerms(fit, stats.VIFs(design))
	}

	return &model.ModelResult{
		Outcome:    outcome,
		Family:     family,
		Terms:      terms,
		Dropped:    dropped,
		SampleSize: design.N,
		Iterations: iterations,
		ComputedAt: core.Now(),
	}, nil
}

func logisticTerms(fit *stats.LogisticFit, vifs []float64) []model.Term {
	terms := make([]model.Term, len(fit.Terms))
	for j := range fit.Terms {
		terms[j] = model.Term{
			Name:      fit.Terms[j],
			Coef:      fit.Coef[j],
			StdErr:    fit.StdErr[j],
			CILower:   fit.CILower[j],
			CIUpper:   fit.CIUpper[j],
			OddsRatio: fit.OddsRatio[j],
			ORLower:   fit.ORLower[j],
			ORUpper:   fit.ORUpper[j],
			VIF:       vifs[j],
		}
	}
	return terms
}

func linearTerms(fit *stats.LinearFit, vifs []float64) []model.Term {
	terms := make([]model.Term, len(fit.Terms))
	for j := range fit.Terms {
		terms[j] = model.Term{
			Name:      fit.Terms[j],
			Coef:      fit.Coef[j],
			StdErr:    fit.StdErr[j],
			CILower:   fit.CILower[j],
			CIUpper:   fit.CIUpper[j],
			OddsRatio: math.NaN(),
			ORLower:   math.NaN(),
			ORUpper:   math.NaN(),
			VIF:       vifs[j],
		}
	}
	return terms
}
