package testkit

import (
	"testing"
)

func TestGenerateSurvey_Deterministic(t *testing.T) {
	cfg := DefaultSurveyConfig()
	a := GenerateSurvey(cfg)
	b := GenerateSurvey(cfg)

	if a.RowCount() != cfg.Rows {
		t.Fatalf("rows = %d, want %d", a.RowCount(), cfg.Rows)
	}
	for _, name := range a.Names() {
		ca, _ := a.Column(name)
		cb, _ := b.Column(name)
		for i := range ca.Values {
			if ca.Missing(i) && cb.Missing(i) {
				continue
			}
			if ca.Values[i] != cb.Values[i] {
				t.Fatalf("column %q diverges at row %d: %v vs %v", name, i, ca.Values[i], cb.Values[i])
			}
		}
	}

	other := cfg
	other.Seed = 7
	c := GenerateSurvey(other)
	same := true
	col1, _ := a.Column("training_hours_week")
	col2, _ := c.Column("training_hours_week")
	for i := range col1.Values {
		if col1.Values[i] != col2.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds should produce different surveys")
	}
}

func TestGenerateSurvey_PlantedEffect(t *testing.T) {
	tbl := GenerateSurvey(DefaultSurveyConfig())

	attended, err := tbl.Column("attended_puppy_class")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	aggression, err := tbl.Column("stranger_aggression")
	if err != nil {
		t.Fatalf("column: %v", err)
	}

	// Attendance halves (or better) the aggression rate at the default
	// effect size; compare group proportions.
	var nYes, aggYes, nNo, aggNo float64
	for i := 0; i < tbl.RowCount(); i++ {
		if attended.Values[i] == 1 {
			nYes++
			aggYes += aggression.Values[i]
		} else {
			nNo++
			aggNo += aggression.Values[i]
		}
	}
	if nYes == 0 || nNo == 0 {
		t.Fatal("both exposure groups must be populated")
	}
	if aggYes/nYes >= aggNo/nNo {
		t.Fatalf("protective effect missing: attendee rate %.3f vs %.3f",
			aggYes/nYes, aggNo/nNo)
	}
}

func TestGenerateSurvey_MissingOnlyInOptionalFields(t *testing.T) {
	cfg := DefaultSurveyConfig()
	cfg.MissingRate = 0.1
	tbl := GenerateSurvey(cfg)

	for _, name := range []string{"attended_puppy_class", "stranger_aggression", "separation_anxiety", "noise_phobia"} {
		col, _ := tbl.Column(name)
		if col.MissingCount() != 0 {
			t.Errorf("column %q should stay complete, has %d missing", name, col.MissingCount())
		}
	}

	soc, _ := tbl.Column("socialization_score")
	if soc.MissingCount() == 0 {
		t.Error("optional fields should carry missing responses at 10% rate")
	}
}

func TestSurveyColumnLists(t *testing.T) {
	tbl := GenerateSurvey(DefaultSurveyConfig())
	for _, name := range append(BehaviorOutcomes(), TrainingPredictors()...) {
		if !tbl.HasColumn(name) {
			t.Fatalf("listed column %q not generated", name)
		}
	}
}
