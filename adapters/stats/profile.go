package stats

import (
	"math"

	"k9stats/domain/table"

	"github.com/montanaflynn/stats"
)

// ColumnProfile summarizes a single column for reporting and sanity checks
// before modeling.
type ColumnProfile struct {
	Name        string             `json:"name"`
	Type        table.Type         `json:"type"`
	Rows        int                `json:"rows"`
	MissingRate float64            `json:"missing_rate"`
	Mean        float64            `json:"mean,omitempty"`
	StdDev      float64            `json:"std_dev,omitempty"`
	Median      float64            `json:"median,omitempty"`
	Min         float64            `json:"min,omitempty"`
	Max         float64            `json:"max,omitempty"`
	Q25         float64            `json:"q25,omitempty"`
	Q75         float64            `json:"q75,omitempty"`
	LevelCounts map[string]int     `json:"level_counts,omitempty"`
}

// ProfileTable computes a profile per column, in declaration order.
func ProfileTable(tbl *table.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, tbl.ColumnCount())
	for i := range tbl.Columns() {
		col := &tbl.Columns()[i]
		profiles = append(profiles, ProfileColumn(col))
	}
	return profiles
}

// ProfileColumn summarizes one column. Numeric columns get moment and
// quantile summaries; categorical columns get per-level counts.
func ProfileColumn(col *table.Column) ColumnProfile {
	rows := len(col.Values)
	profile := ColumnProfile{
		Name: col.Name,
		Type: col.Type,
		Rows: rows,
	}
	if rows == 0 {
		return profile
	}
	profile.MissingRate = float64(col.MissingCount()) / float64(rows)

	if col.Type.IsCategorical() {
		counts := make(map[string]int, len(col.Levels))
		for i, v := range col.Values {
			if col.Missing(i) {
				continue
			}
			counts[col.Label(int(v))]++
		}
		profile.LevelCounts = counts
		return profile
	}

	observed := make([]float64, 0, rows)
	for _, v := range col.Values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return profile
	}

	profile.Mean, _ = stats.Mean(observed)
	profile.StdDev, _ = stats.StandardDeviation(observed)
	profile.Median, _ = stats.Median(observed)
	profile.Min, _ = stats.Min(observed)
	profile.Max, _ = stats.Max(observed)
	profile.Q25, _ = stats.Percentile(observed, 25)
	profile.Q75, _ = stats.Percentile(observed, 75)
	return profile
}
