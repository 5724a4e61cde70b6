package stats

import (
	"k9stats/domain/core"
	"k9stats/domain/table"
)

// ContingencyTable is a cross-tabulation of counts for two categorical
// columns. Rows follow the first column's observed levels, columns the
// second's, both in ascending level-code order so cell iteration is
// deterministic.
type ContingencyTable struct {
	RowName   string
	ColName   string
	RowLevels []string
	ColLevels []string
	Counts    [][]int
	N         int // total paired observations (missing excluded pairwise)
}

// Cell returns the count at (i, j)
func (ct *ContingencyTable) Cell(i, j int) int {
	return ct.Counts[i][j]
}

// MinCell returns the smallest cell count
func (ct *ContingencyTable) MinCell() int {
	min := -1
	for _, row := range ct.Counts {
		for _, c := range row {
			if min < 0 || c < min {
				min = c
			}
		}
	}
	return min
}

// Is2x2 reports whether the table is exactly 2x2
func (ct *ContingencyTable) Is2x2() bool {
	return len(ct.Counts) == 2 && len(ct.ColLevels) == 2
}

// Crosstab builds the contingency table of x against y. Both columns must be
// categorical-typed (boolean or categorical). Rows where either cell is
// missing are excluded.
func Crosstab(x, y *table.Column) (*ContingencyTable, error) {
	if !x.Type.IsCategorical() {
		return nil, core.NewNotCategoricalError(x.Name)
	}
	if !y.Type.IsCategorical() {
		return nil, core.NewNotCategoricalError(y.Name)
	}
	if len(x.Values) != len(y.Values) {
		return nil, core.ErrInsufficientData
	}

	rowCodes := x.ObservedLevels()
	colCodes := y.ObservedLevels()

	rowIdx := make(map[int]int, len(rowCodes))
	for i, code := range rowCodes {
		rowIdx[code] = i
	}
	colIdx := make(map[int]int, len(colCodes))
	for j, code := range colCodes {
		colIdx[code] = j
	}

	counts := make([][]int, len(rowCodes))
	for i := range counts {
		counts[i] = make([]int, len(colCodes))
	}

	n := 0
	for i := range x.Values {
		if x.Missing(i) || y.Missing(i) {
			continue
		}
		ri, ok := rowIdx[int(x.Values[i])]
		if !ok {
			continue
		}
		ci, ok := colIdx[int(y.Values[i])]
		if !ok {
			continue
		}
		counts[ri][ci]++
		n++
	}

	rowLevels := make([]string, len(rowCodes))
	for i, code := range rowCodes {
		rowLevels[i] = x.Label(code)
	}
	colLevels := make([]string, len(colCodes))
	for j, code := range colCodes {
		colLevels[j] = y.Label(code)
	}

	return &ContingencyTable{
		RowName:   x.Name,
		ColName:   y.Name,
		RowLevels: rowLevels,
		ColLevels: colLevels,
		Counts:    counts,
		N:         n,
	}, nil
}
