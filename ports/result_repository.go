package ports

import (
	"context"

	"k9stats/domain/core"
	"k9stats/domain/model"
)

// ResultRepository persists analysis outputs keyed by run.
type ResultRepository interface {
	SaveScreening(ctx context.Context, runID core.RunID, records []model.ScreeningRecord) error
	SaveBatch(ctx context.Context, runID core.RunID, batch *model.BatchResult) error
	ListScreening(ctx context.Context, runID core.RunID) ([]model.ScreeningRecord, error)
}
