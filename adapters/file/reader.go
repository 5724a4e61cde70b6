package file

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"k9stats/domain/table"
	"k9stats/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader loads a delimited-text or Excel survey file into a typed table.
// The first row must be a header row of column names.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader, detecting the format from the extension
func NewDataReader(filePath string) *DataReader {
	fileType := "csv"
	if ext := strings.ToLower(filepath.Ext(filePath)); ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the file and infers a column type for every variable
func (r *DataReader) ReadTable() (*table.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.ReadError(r.filePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("file must have a header row and at least one data row")
	}

	return buildTable(rows[0], rows[1:])
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.ReadError(r.filePath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ReadError(r.filePath, err)
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.ReadError(r.filePath, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ReadError(r.filePath, err)
	}
	return rows, nil
}

// missingTokens are the cell values read as the missing state
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true,
}

func isMissing(cell string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}

// buildTable infers each column's type from its observed values.
//
// Inference order: all-numeric columns become Boolean (values in {0,1}),
// Integer (all whole) or Continuous; non-numeric columns become Boolean
// (exactly two distinct values) or Categorical. Level order is
// first-appearance order, which fixes contingency cell iteration.
func buildTable(header []string, records [][]string) (*table.Table, error) {
	nCols := len(header)
	cols := make([]table.Column, 0, nCols)

	for j := 0; j < nCols; j++ {
		raw := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		col, err := inferColumn(strings.TrimSpace(header[j]), raw)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return table.New(cols...)
}

func inferColumn(name string, raw []string) (table.Column, error) {
	allNumeric := true
	allWhole := true
	zeroOne := true
	distinct := make([]string, 0, 8)
	seen := make(map[string]bool)

	for _, cell := range raw {
		if isMissing(cell) {
			continue
		}
		v := strings.TrimSpace(cell)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			allNumeric = false
		} else {
			if f != math.Trunc(f) {
				allWhole = false
			}
			if f != 0 && f != 1 {
				zeroOne = false
			}
		}
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}

	values := make([]float64, len(raw))

	if allNumeric && len(distinct) > 0 {
		colType := table.TypeContinuous
		var levels []string
		switch {
		case allWhole && zeroOne:
			colType = table.TypeBoolean
			levels = []string{"0", "1"}
		case allWhole:
			colType = table.TypeInteger
		}
		for i, cell := range raw {
			if isMissing(cell) {
				values[i] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return table.Column{}, errors.InvalidInput(
					fmt.Sprintf("column %q row %d: unparseable numeric %q", name, i+1, cell))
			}
			values[i] = f
		}
		return table.Column{Name: name, Type: colType, Values: values, Levels: levels}, nil
	}

	// String-valued: level-code in first-appearance order.
	colType := table.TypeCategorical
	if len(distinct) == 2 {
		colType = table.TypeBoolean
	}
	codes := make(map[string]int, len(distinct))
	for code, level := range distinct {
		codes[level] = code
	}
	for i, cell := range raw {
		if isMissing(cell) {
			values[i] = math.NaN()
			continue
		}
		values[i] = float64(codes[strings.TrimSpace(cell)])
	}
	return table.Column{Name: name, Type: colType, Values: values, Levels: distinct}, nil
}
