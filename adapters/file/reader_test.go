package file

import (
	"os"
	"path/filepath"
	"testing"

	"k9stats/domain/table"
	"k9stats/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadTable_TypeInference(t *testing.T) {
	path := writeCSV(t, `attended_class,age_years,weight_kg,breed_group,bites
1,3,24.5,herding,yes
0,5,8.1,toy,no
1,2,31.0,working,no
0,7,12.25,herding,yes
`)

	tbl, err := NewDataReader(path).ReadTable()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tbl.RowCount() != 4 || tbl.ColumnCount() != 5 {
		t.Fatalf("got %dx%d, want 4x5", tbl.RowCount(), tbl.ColumnCount())
	}

	wantTypes := map[string]table.Type{
		"attended_class": table.TypeBoolean,     // numeric {0,1}
		"age_years":      table.TypeInteger,     // whole numbers beyond {0,1}
		"weight_kg":      table.TypeContinuous,  // fractional values
		"breed_group":    table.TypeCategorical, // three string levels
		"bites":          table.TypeBoolean,     // two string levels
	}
	for name, want := range wantTypes {
		col, err := tbl.Column(name)
		if err != nil {
			t.Fatalf("column %q: %v", name, err)
		}
		if col.Type != want {
			t.Errorf("column %q type = %v, want %v", name, col.Type, want)
		}
	}

	// String levels code in first-appearance order.
	breed, _ := tbl.Column("breed_group")
	wantLevels := []string{"herding", "toy", "working"}
	for i, w := range wantLevels {
		if breed.Levels[i] != w {
			t.Fatalf("levels = %v, want %v", breed.Levels, wantLevels)
		}
	}
	if breed.Values[0] != 0 || breed.Values[1] != 1 || breed.Values[3] != 0 {
		t.Fatalf("level codes = %v", breed.Values[:4])
	}
}

func TestReadTable_MissingTokens(t *testing.T) {
	path := writeCSV(t, `score,label
1.5,yes
NA,no
,yes
null,
3.25,no
`)

	tbl, err := NewDataReader(path).ReadTable()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	score, _ := tbl.Column("score")
	if score.Type != table.TypeContinuous {
		t.Fatalf("score type = %v", score.Type)
	}
	if score.MissingCount() != 3 {
		t.Fatalf("score missing = %d, want 3", score.MissingCount())
	}
	if !score.Missing(1) || !score.Missing(2) || !score.Missing(3) {
		t.Fatal("NA, empty and null must all read as missing")
	}

	label, _ := tbl.Column("label")
	if label.MissingCount() != 1 {
		t.Fatalf("label missing = %d, want 1", label.MissingCount())
	}
}

func TestReadTable_Errors(t *testing.T) {
	r := NewDataReader(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := r.ReadTable(); errors.GetCode(err) != errors.CodeReadError {
		t.Fatalf("missing file: code = %q", errors.GetCode(err))
	}

	headerOnly := writeCSV(t, "a,b\n")
	if _, err := NewDataReader(headerOnly).ReadTable(); errors.GetCode(err) != errors.CodeInvalidInput {
		t.Fatalf("header-only file: got %v", err)
	}
}

func TestNewDataReader_FormatDetection(t *testing.T) {
	if r := NewDataReader("data.XLSX"); r.fileType != "xlsx" {
		t.Fatalf("fileType = %q", r.fileType)
	}
	if r := NewDataReader("data.csv"); r.fileType != "csv" {
		t.Fatalf("fileType = %q", r.fileType)
	}
	if r := NewDataReader("data.txt"); r.fileType != "csv" {
		t.Fatalf("unknown extensions default to csv, got %q", r.fileType)
	}
}
