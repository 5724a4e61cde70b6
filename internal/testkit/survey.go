package testkit

import (
	"math"
	"math/rand"

	"k9stats/domain/table"
)

// SurveyConfig controls the synthetic puppy-raising survey generator.
// Generation is fully determined by Seed.
type SurveyConfig struct {
	Rows int
	Seed int64

	// ClassEffect is the log-odds reduction in adult behavior problems for
	// dogs that attended puppy classes. Negative values plant a protective
	// association.
	ClassEffect float64

	// MissingRate is the per-cell chance of a missing response in the
	// optional survey fields.
	MissingRate float64
}

// DefaultSurveyConfig returns the standard generator setup used in tests
func DefaultSurveyConfig() SurveyConfig {
	return SurveyConfig{
		Rows:        400,
		Seed:        42,
		ClassEffect: -1.2,
		MissingRate: 0.02,
	}
}

// GenerateSurvey builds a synthetic owner survey with a planted association
// between puppy-class attendance and adult behavior problems, plus
// correlated training covariates and a noise outcome with no real signal.
//
// Columns:
//   - attended_puppy_class (boolean)
//   - socialization_score  (integer 0-10, higher for class attendees)
//   - training_hours_week  (continuous)
//   - owner_experience     (categorical: first_time / some / experienced)
//   - stranger_aggression  (boolean, driven by class attendance)
//   - separation_anxiety   (boolean, driven by socialization)
//   - noise_phobia         (boolean, pure noise)
//   - excitability_score   (continuous, driven by training hours)
func GenerateSurvey(cfg SurveyConfig) *table.Table {
	rng := rand.New(rand.NewSource(cfg.Seed))
	n := cfg.Rows

	attended := make([]float64, n)
	socialization := make([]float64, n)
	trainingHours := make([]float64, n)
	experience := make([]float64, n)
	aggression := make([]float64, n)
	anxiety := make([]float64, n)
	noisePhobia := make([]float64, n)
	excitability := make([]float64, n)

	for i := 0; i < n; i++ {
		att := 0.0
		if rng.Float64() < 0.5 {
			att = 1
		}
		attended[i] = att

		soc := 3 + 3*att + rng.NormFloat64()*1.5
		socialization[i] = clampScore(math.Round(soc), 0, 10)

		hours := 1.5 + 2*att + rng.ExpFloat64()
		trainingHours[i] = hours

		experience[i] = float64(rng.Intn(3))

		aggression[i] = bernoulliLogit(rng, -0.5+cfg.ClassEffect*att)
		anxiety[i] = bernoulliLogit(rng, 0.8-0.25*socialization[i])
		noisePhobia[i] = bernoulliLogit(rng, -1.0)

		excitability[i] = 10 - 1.1*hours + rng.NormFloat64()*2
	}

	// Sprinkle missing responses into the optional fields only; the
	// exposure and primary outcomes stay complete.
	for i := 0; i < n; i++ {
		if rng.Float64() < cfg.MissingRate {
			socialization[i] = math.NaN()
		}
		if rng.Float64() < cfg.MissingRate {
			trainingHours[i] = math.NaN()
		}
	}

	boolLevels := []string{"no", "yes"}
	return table.MustNew(
		table.Column{Name: "attended_puppy_class", Type: table.TypeBoolean, Values: attended, Levels: boolLevels},
		table.Column{Name: "socialization_score", Type: table.TypeInteger, Values: socialization},
		table.Column{Name: "training_hours_week", Type: table.TypeContinuous, Values: trainingHours},
		table.Column{Name: "owner_experience", Type: table.TypeCategorical, Values: experience,
			Levels: []string{"first_time", "some", "experienced"}},
		table.Column{Name: "stranger_aggression", Type: table.TypeBoolean, Values: aggression, Levels: boolLevels},
		table.Column{Name: "separation_anxiety", Type: table.TypeBoolean, Values: anxiety, Levels: boolLevels},
		table.Column{Name: "noise_phobia", Type: table.TypeBoolean, Values: noisePhobia, Levels: boolLevels},
		table.Column{Name: "excitability_score", Type: table.TypeContinuous, Values: excitability},
	)
}

// BehaviorOutcomes lists the generated outcome columns in survey order
func BehaviorOutcomes() []string {
	return []string{"stranger_aggression", "separation_anxiety", "noise_phobia", "excitability_score"}
}

// TrainingPredictors lists the generated predictor columns
func TrainingPredictors() []string {
	return []string{"attended_puppy_class", "socialization_score", "training_hours_week"}
}

func bernoulliLogit(rng *rand.Rand, logit float64) float64 {
	p := 1 / (1 + math.Exp(-logit))
	if rng.Float64() < p {
		return 1
	}
	return 0
}

func clampScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
