package ports

import (
	"k9stats/domain/table"
)

// TableReader loads a survey dataset into the in-memory table model.
// Implementations handle format detection and type inference.
type TableReader interface {
	ReadTable() (*table.Table, error)
}
