package model

import (
	"math"

	"k9stats/domain/core"
)

// Family identifies the regression family chosen for an outcome
type Family string

const (
	FamilyLogistic Family = "logistic" // binomial family, logit link
	FamilyLinear   Family = "linear"   // ordinary least squares
)

// Term holds the fitted estimates for a single model term.
//
// For logistic models OddsRatio and its bounds carry exp(Coef) and the
// exponentiated Wald interval; for linear models they are NaN.
type Term struct {
	Name      string  `json:"name"`
	Coef      float64 `json:"coef"`
	StdErr    float64 `json:"std_err"`
	CILower   float64 `json:"ci_lower"`
	CIUpper   float64 `json:"ci_upper"`
	OddsRatio float64 `json:"odds_ratio,omitempty"`
	ORLower   float64 `json:"or_lower,omitempty"`
	ORUpper   float64 `json:"or_upper,omitempty"`
	VIF       float64 `json:"vif,omitempty"` // NaN for the intercept
}

// ModelResult is the per-outcome output of the batch evaluator.
// It is assembled once per evaluation pass and not mutated afterward.
type ModelResult struct {
	Outcome    string         `json:"outcome"`
	Family     Family         `json:"family"`
	Terms      []Term         `json:"terms"`
	Dropped    []string       `json:"dropped_columns"` // removed by the sparse-contingency filter
	SampleSize int            `json:"sample_size"`     // complete cases used in the fit
	Iterations int            `json:"iterations"`      // IRLS iterations (0 for linear)
	ComputedAt core.Timestamp `json:"computed_at"`
}

// FitFailure records an outcome whose model could not be fitted.
// The batch continues past failures; callers get partial results.
type FitFailure struct {
	Outcome string `json:"outcome"`
	Err     error  `json:"-"`
	Reason  string `json:"reason"`
}

// BatchResult carries per-outcome results in input order plus a parallel
// list of failures.
type BatchResult struct {
	Results  []ModelResult `json:"results"`
	Failures []FitFailure  `json:"failures"`
}

// ByOutcome indexes successful results by outcome name
func (b *BatchResult) ByOutcome() map[string]ModelResult {
	out := make(map[string]ModelResult, len(b.Results))
	for _, r := range b.Results {
		out[r.Outcome] = r
	}
	return out
}

// SignificanceTier buckets an adjusted p-value
type SignificanceTier int

const (
	TierNone   SignificanceTier = 0 // adjusted p > 0.05
	TierWeak   SignificanceTier = 1 // adjusted p <= 0.05
	TierStrong SignificanceTier = 2 // adjusted p <= 0.01
	TierTop    SignificanceTier = 3 // adjusted p <= 0.001
)

// TierFor maps an adjusted p-value to its significance tier.
// Boundaries are inclusive: exactly 0.05 is TierWeak.
func TierFor(adjustedP float64) SignificanceTier {
	switch {
	case adjustedP <= 0.001:
		return TierTop
	case adjustedP <= 0.01:
		return TierStrong
	case adjustedP <= 0.05:
		return TierWeak
	default:
		return TierNone
	}
}

// Marks renders the conventional star notation for a tier
func (t SignificanceTier) Marks() string {
	switch t {
	case TierTop:
		return "***"
	case TierStrong:
		return "**"
	case TierWeak:
		return "*"
	default:
		return ""
	}
}

// Direction classifies an odds-ratio estimate relative to 1
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// DirectionFor classifies an effect estimate. NaN (no estimate available)
// is neutral.
func DirectionFor(oddsRatio float64) Direction {
	switch {
	case math.IsNaN(oddsRatio):
		return DirectionNeutral
	case oddsRatio < 1:
		return DirectionNegative
	case oddsRatio > 1:
		return DirectionPositive
	default:
		return DirectionNeutral
	}
}

// ScreeningRecord is one row of the multiple-hypothesis screening table.
// Records are ordered identically to the input outcome sequence.
type ScreeningRecord struct {
	Outcome    string           `json:"outcome"`
	Method     string           `json:"method"` // "fisher_exact" or "chi_square_approx"
	PValue     float64          `json:"p_value"`
	AdjustedP  float64          `json:"adjusted_p"` // Benjamini-Hochberg
	OddsRatio  float64          `json:"odds_ratio"` // NaN when no 2x2 estimate exists
	Tier       SignificanceTier `json:"tier"`
	Direction  Direction        `json:"direction"`
	SampleSize int              `json:"sample_size"`
}
