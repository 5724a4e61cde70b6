package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"k9stats/domain/core"
	"k9stats/domain/model"
	"k9stats/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// resultRepository implements ports.ResultRepository on postgres
type resultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a result repository backed by the given
// connection pool.
func NewResultRepository(db *sqlx.DB) ports.ResultRepository {
	return &resultRepository{db: db}
}

// Connect opens a postgres pool from a connection URL
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to result store: %w", err)
	}
	return db, nil
}

// SaveScreening inserts one row per screening record
func (r *resultRepository) SaveScreening(ctx context.Context, runID core.RunID, records []model.ScreeningRecord) error {
	query := `INSERT INTO screening_results (
		run_id, position, outcome, method, p_value, adjusted_p, odds_ratio, tier, direction, sample_size
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i, rec := range records {
		_, err := r.db.ExecContext(ctx, query,
			runID, i, rec.Outcome, rec.Method, rec.PValue, rec.AdjustedP,
			nullableFloat(rec.OddsRatio), int(rec.Tier), string(rec.Direction), rec.SampleSize,
		)
		if err != nil {
			return fmt.Errorf("failed to save screening record for %q: %w", rec.Outcome, err)
		}
	}
	return nil
}

// SaveBatch inserts one row per model result plus one per failure
func (r *resultRepository) SaveBatch(ctx context.Context, runID core.RunID, batch *model.BatchResult) error {
	resultQuery := `INSERT INTO model_results (
		run_id, outcome, family, terms, dropped_columns, sample_size, iterations, computed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, res := range batch.Results {
		termsJSON, err := json.Marshal(sanitizeTerms(res.Terms))
		if err != nil {
			return fmt.Errorf("failed to marshal terms for %q: %w", res.Outcome, err)
		}
		droppedJSON, err := json.Marshal(res.Dropped)
		if err != nil {
			return fmt.Errorf("failed to marshal dropped columns for %q: %w", res.Outcome, err)
		}
		_, err = r.db.ExecContext(ctx, resultQuery,
			runID, res.Outcome, string(res.Family), termsJSON, droppedJSON,
			res.SampleSize, res.Iterations, res.ComputedAt.Time(),
		)
		if err != nil {
			return fmt.Errorf("failed to save model result for %q: %w", res.Outcome, err)
		}
	}

	failureQuery := `INSERT INTO model_failures (run_id, outcome, reason) VALUES ($1, $2, $3)`
	for _, f := range batch.Failures {
		if _, err := r.db.ExecContext(ctx, failureQuery, runID, f.Outcome, f.Reason); err != nil {
			return fmt.Errorf("failed to save failure for %q: %w", f.Outcome, err)
		}
	}
	return nil
}

// ListScreening returns saved screening records in their original order
func (r *resultRepository) ListScreening(ctx context.Context, runID core.RunID) ([]model.ScreeningRecord, error) {
	query := `SELECT outcome, method, p_value, adjusted_p,
		COALESCE(odds_ratio, 'NaN'::float8) AS odds_ratio, tier, direction, sample_size
	FROM screening_results WHERE run_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list screening records: %w", err)
	}
	defer rows.Close()

	var records []model.ScreeningRecord
	for rows.Next() {
		var rec model.ScreeningRecord
		var tier int
		var direction string
		if err := rows.Scan(&rec.Outcome, &rec.Method, &rec.PValue, &rec.AdjustedP,
			&rec.OddsRatio, &tier, &direction, &rec.SampleSize); err != nil {
			return nil, fmt.Errorf("failed to scan screening record: %w", err)
		}
		rec.Tier = model.SignificanceTier(tier)
		rec.Direction = model.Direction(direction)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// nullableFloat maps NaN to SQL NULL
func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// sanitizeTerms replaces non-finite values with JSON-safe nil markers
func sanitizeTerms(terms []model.Term) []map[string]interface{} {
	out := make([]map[string]interface{}, len(terms))
	for i, t := range terms {
		out[i] = map[string]interface{}{
			"name":       t.Name,
			"coef":       jsonNumber(t.Coef),
			"std_err":    jsonNumber(t.StdErr),
			"ci_lower":   jsonNumber(t.CILower),
			"ci_upper":   jsonNumber(t.CIUpper),
			"odds_ratio": jsonNumber(t.OddsRatio),
			"or_lower":   jsonNumber(t.ORLower),
			"or_upper":   jsonNumber(t.ORUpper),
			"vif":        jsonNumber(t.VIF),
		}
	}
	return out
}

func jsonNumber(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
