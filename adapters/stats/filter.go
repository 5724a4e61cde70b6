package stats

import (
	"k9stats/domain/core"
	"k9stats/domain/table"
)

// DefaultSparseThreshold is the minimum contingency cell count a categorical
// predictor must satisfy against the outcome to survive filtering.
const DefaultSparseThreshold = 10

// Filter removes predictor columns whose cross-tabulation with the outcome
// contains any cell below threshold. Numeric-typed columns (integer and
// continuous) are exempt: they are not cross-tabulated and always retained.
//
// A column is dropped on the first undersized cell found, scanning cells in
// level order (short-circuit per column). The input table is unmodified; the
// returned view excludes dropped columns, whose names are returned for
// diagnostic reporting in input order.
//
// When the outcome itself is numeric there is nothing to cross-tabulate and
// every column is retained.
func Filter(tbl *table.Table, outcome string, threshold int) (*table.Table, []string, error) {
	if threshold < 1 {
		return nil, nil, core.ErrInvalidThreshold
	}
	out, err := tbl.Column(outcome)
	if err != nil {
		return nil, nil, err
	}
	if !out.Type.IsCategorical() {
		return tbl, nil, nil
	}

	var dropped []string
	for _, col := range tbl.Columns() {
		if col.Name == outcome || col.Type.IsNumeric() {
			continue
		}
		ct, err := Crosstab(&col, out)
		if err != nil {
			return nil, nil, err
		}
		if firstSparseCell(ct, threshold) {
			dropped = append(dropped, col.Name)
		}
	}

	if len(dropped) == 0 {
		return tbl, nil, nil
	}
	return tbl.Drop(dropped...), dropped, nil
}

// firstSparseCell scans cells in fixed level order and reports whether any
// count falls below threshold, stopping at the first violation.
func firstSparseCell(ct *ContingencyTable, threshold int) bool {
	for i := range ct.Counts {
		for j := range ct.Counts[i] {
			if ct.Counts[i][j] < threshold {
				return true
			}
		}
	}
	return false
}
