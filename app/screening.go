package app

import (
	"context"

	"k9stats/adapters/stats"
	"k9stats/domain/model"
	"k9stats/domain/table"
)

// Screen runs the multiple-hypothesis screening procedure: Fisher's exact
// test of every outcome against one fixed predictor, then a global
// Benjamini-Hochberg adjustment over the collected p-values, then tier and
// direction tagging on the adjusted values.
//
// The predictor and every outcome must exist and be categorical-typed; a
// missing column aborts the whole call since the adjustment needs the
// complete hypothesis list. Output order matches the input outcome order.
func Screen(ctx context.Context, tbl *table.Table, predictor string, outcomes []string) ([]model.ScreeningRecord, error) {
	predCol, err := tbl.Column(predictor)
	if err != nil {
		return nil, err
	}

	records := make([]model.ScreeningRecord, 0, len(outcomes))
	raw := make([]float64, 0, len(outcomes))
	for _, outcome := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outCol, err := tbl.Column(outcome)
		if err != nil {
			return nil, err
		}
		ct, err := stats.Crosstab(predCol, outCol)
		if err != nil {
			return nil, err
		}
		res := stats.FisherExact(ct)
		records = append(records, model.ScreeningRecord{
			Outcome:    outcome,
			Method:     res.Method,
			PValue:     res.PValue,
			OddsRatio:  res.OddsRatio,
			SampleSize: ct.N,
		})
		raw = append(raw, res.PValue)
	}

	// Global step: the BH adjustment depends on each p-value's rank among
	// all tested hypotheses, so it runs only after the full list exists.
	adjusted := stats.AdjustBH(raw)
	for i := range records {
		records[i].AdjustedP = adjusted[i]
		records[i].Tier = model.TierFor(adjusted[i])
		records[i].Direction = model.DirectionFor(records[i].OddsRatio)
	}
	return records, nil
}
