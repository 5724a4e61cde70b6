package stats

import (
	"errors"
	"testing"

	"k9stats/domain/core"
	"k9stats/domain/table"
)

// filterFixture builds a 40-row table where the outcome is perfectly
// balanced, "dense" crosses it with every cell exactly 10, "sparse" has a
// level observed only 3 times, and "score" is an integer column.
func filterFixture(t *testing.T) *table.Table {
	t.Helper()
	n := 40
	outcome := make([]float64, n)
	dense := make([]float64, n)
	sparse := make([]float64, n)
	score := make([]float64, n)
	for i := 0; i < n; i++ {
		outcome[i] = float64(i % 2)
		dense[i] = float64((i / 2) % 2)
		if i < 3 {
			sparse[i] = 1
		}
		score[i] = float64(i % 7)
	}
	return table.MustNew(
		boolColumn("outcome", outcome),
		boolColumn("sparse", sparse),
		boolColumn("dense", dense),
		table.Column{Name: "score", Type: table.TypeInteger, Values: score},
	)
}

func TestFilter_DropsSparseKeepsDense(t *testing.T) {
	tbl := filterFixture(t)

	filtered, dropped, err := Filter(tbl, "outcome", 10)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}

	if len(dropped) != 1 || dropped[0] != "sparse" {
		t.Fatalf("dropped = %v, want [sparse]", dropped)
	}
	if !filtered.HasColumn("dense") {
		t.Fatal("dense predictor should survive: every cell is exactly the threshold")
	}
	if filtered.HasColumn("sparse") {
		t.Fatal("sparse predictor should be removed")
	}

	// Retained categorical predictors satisfy the invariant: all cells >= threshold.
	outCol, _ := filtered.Column("outcome")
	for _, col := range filtered.Columns() {
		if col.Name == "outcome" || !col.Type.IsCategorical() {
			continue
		}
		ct, err := Crosstab(&col, outCol)
		if err != nil {
			t.Fatalf("crosstab %s: %v", col.Name, err)
		}
		if ct.MinCell() < 10 {
			t.Fatalf("retained column %q has cell below threshold: %d", col.Name, ct.MinCell())
		}
	}

	// Source table is unmodified.
	if !tbl.HasColumn("sparse") {
		t.Fatal("filter mutated its input")
	}
}

func TestFilter_IntegerColumnsExempt(t *testing.T) {
	tbl := filterFixture(t)

	// At threshold 100 every categorical predictor is sparse but the
	// integer column survives untested.
	filtered, dropped, err := Filter(tbl, "outcome", 100)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !filtered.HasColumn("score") {
		t.Fatal("integer column must always be retained")
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped = %v, want both categorical predictors", dropped)
	}
	// Drop order follows column declaration order.
	if dropped[0] != "sparse" || dropped[1] != "dense" {
		t.Fatalf("drop order = %v, want [sparse dense]", dropped)
	}
}

func TestFilter_NumericOutcomeRetainsEverything(t *testing.T) {
	tbl := filterFixture(t)

	filtered, dropped, err := Filter(tbl, "score", 10)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(dropped) != 0 {
		t.Fatalf("dropped = %v, want none for numeric outcome", dropped)
	}
	if filtered.ColumnCount() != tbl.ColumnCount() {
		t.Fatal("table should pass through unchanged")
	}
}

func TestFilter_InvalidInputs(t *testing.T) {
	tbl := filterFixture(t)

	_, _, err := Filter(tbl, "outcome", 0)
	if !errors.Is(err, core.ErrInvalidThreshold) {
		t.Fatalf("expected threshold error, got %v", err)
	}

	_, _, err = Filter(tbl, "nope", 10)
	if !core.IsSchemaError(err) {
		t.Fatalf("expected schema error for missing outcome, got %v", err)
	}
}
