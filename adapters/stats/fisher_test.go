package stats

import (
	"math"
	"testing"
)

func ct2x2(a, b, c, d int) *ContingencyTable {
	return &ContingencyTable{
		RowName:   "x",
		ColName:   "y",
		RowLevels: []string{"no", "yes"},
		ColLevels: []string{"no", "yes"},
		Counts:    [][]int{{a, b}, {c, d}},
		N:         a + b + c + d,
	}
}

func TestFisherExact_TeaTasting(t *testing.T) {
	// Fisher's lady-tasting-tea table [[3,1],[1,3]]. The two-sided p-value
	// is (16+16+1+1)/70 = 34/70.
	res := FisherExact(ct2x2(3, 1, 1, 3))
	if res.Method != MethodFisherExact {
		t.Fatalf("method = %q", res.Method)
	}
	want := 34.0 / 70.0
	if math.Abs(res.PValue-want) > 1e-12 {
		t.Fatalf("p = %v, want %v", res.PValue, want)
	}
	if math.Abs(res.OddsRatio-9.0) > 1e-12 {
		t.Fatalf("odds ratio = %v, want 9", res.OddsRatio)
	}
}

func TestFisherExact_PerfectSeparation(t *testing.T) {
	// [[10,0],[0,10]]: only the observed table and its mirror are as
	// extreme, p = 2 / C(20,10).
	res := FisherExact(ct2x2(10, 0, 0, 10))
	want := 2.0 / 184756.0
	if math.Abs(res.PValue-want) > 1e-15 {
		t.Fatalf("p = %v, want %v", res.PValue, want)
	}
	// Zero cells trigger the Haldane correction: (10.5*10.5)/(0.5*0.5).
	if math.Abs(res.OddsRatio-441.0) > 1e-9 {
		t.Fatalf("odds ratio = %v, want 441", res.OddsRatio)
	}
}

func TestFisherExact_NoAssociation(t *testing.T) {
	// A perfectly balanced table: every arrangement is at least as likely,
	// so p = 1.
	res := FisherExact(ct2x2(5, 5, 5, 5))
	if math.Abs(res.PValue-1.0) > 1e-12 {
		t.Fatalf("p = %v, want 1", res.PValue)
	}
	if res.OddsRatio != 1.0 {
		t.Fatalf("odds ratio = %v, want 1", res.OddsRatio)
	}
}

func TestFisherExact_DegenerateMargins(t *testing.T) {
	// An empty row fixes the table: p = 1 by convention.
	res := FisherExact(ct2x2(0, 0, 7, 3))
	if res.PValue != 1.0 {
		t.Fatalf("p = %v, want 1", res.PValue)
	}
}

func TestFisherExact_LargerTableFallsBack(t *testing.T) {
	ct := &ContingencyTable{
		RowName:   "x",
		ColName:   "y",
		RowLevels: []string{"a", "b", "c"},
		ColLevels: []string{"no", "yes"},
		Counts:    [][]int{{20, 10}, {15, 15}, {10, 20}},
		N:         90,
	}
	res := FisherExact(ct)
	if res.Method != MethodChiSquareApprox {
		t.Fatalf("method = %q, want chi-square fallback", res.Method)
	}
	if !math.IsNaN(res.OddsRatio) {
		t.Fatalf("odds ratio should be NaN for non-2x2, got %v", res.OddsRatio)
	}
	if res.PValue <= 0 || res.PValue >= 1 {
		t.Fatalf("p = %v out of range", res.PValue)
	}
	// chi2 = 6.666... with df 2 gives p just under 0.036.
	if res.PValue > 0.05 {
		t.Fatalf("p = %v, expected significant association", res.PValue)
	}
}
