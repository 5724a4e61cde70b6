package table

import (
	"errors"
	"math"
	"testing"

	"k9stats/domain/core"
)

func boolCol(name string, values []float64) Column {
	return Column{Name: name, Type: TypeBoolean, Values: values, Levels: []string{"no", "yes"}}
}

func TestNew_Validation(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := New(
			boolCol("a", []float64{0, 1}),
			boolCol("b", []float64{0, 1, 0}),
		)
		if err == nil {
			t.Fatal("expected error for mismatched column lengths")
		}
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := New(
			boolCol("a", []float64{0, 1}),
			boolCol("a", []float64{1, 0}),
		)
		if err == nil {
			t.Fatal("expected error for duplicate column name")
		}
	})

	t.Run("categorical without levels", func(t *testing.T) {
		_, err := New(Column{Name: "a", Type: TypeCategorical, Values: []float64{0, 1}})
		if err == nil {
			t.Fatal("expected error for categorical column without levels")
		}
	})
}

func TestColumn_MissingIsDistinctState(t *testing.T) {
	col := boolCol("a", []float64{0, math.NaN(), 1})
	if col.Missing(0) || !col.Missing(1) || col.Missing(2) {
		t.Fatalf("missing detection wrong: %v", col.Values)
	}
	if got := col.MissingCount(); got != 1 {
		t.Fatalf("expected 1 missing cell, got %d", got)
	}
	// Missing cells do not create an observed level.
	if got := len(col.ObservedLevels()); got != 2 {
		t.Fatalf("expected 2 observed levels, got %d", got)
	}
}

func TestTable_ColumnNotFoundIsSchemaError(t *testing.T) {
	tbl := MustNew(boolCol("a", []float64{0, 1}))
	_, err := tbl.Column("nope")
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	if !core.IsSchemaError(err) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if !errors.Is(err, core.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestTable_ProjectAndDropAreViews(t *testing.T) {
	tbl := MustNew(
		boolCol("a", []float64{0, 1}),
		boolCol("b", []float64{1, 0}),
		boolCol("c", []float64{1, 1}),
	)

	view, err := tbl.Project("c", "a")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if got := view.Names(); got[0] != "c" || got[1] != "a" {
		t.Fatalf("projection order wrong: %v", got)
	}

	dropped := tbl.Drop("b")
	if dropped.HasColumn("b") {
		t.Fatal("dropped column still present")
	}

	// Original table untouched.
	if tbl.ColumnCount() != 3 {
		t.Fatalf("source table mutated: %d columns", tbl.ColumnCount())
	}

	_, err = tbl.Project("a", "missing")
	if !core.IsSchemaError(err) {
		t.Fatalf("expected schema error projecting unknown column, got %v", err)
	}
}
