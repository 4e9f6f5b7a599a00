package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"finratio/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// expectedColumns is label, prior period, current period.
const expectedColumns = 3

// StructuralInputError reports a table that is not made of exactly three columns.
type StructuralInputError struct {
	Columns int
	Reason  string
}

func (e *StructuralInputError) Error() string {
	if e.Reason != "" {
		return "invalid table structure: " + e.Reason
	}
	return fmt.Sprintf("invalid table structure: expected %d columns (label | prior period | current period), got %d", expectedColumns, e.Columns)
}

// ErrUnsupportedFormat is returned for file extensions the reader does not handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadTable reads the first sheet of a spreadsheet file. The first row is a
// header and is skipped, columns are mapped by position whatever their header.
func ReadTable(filePath string) ([]models.RawRow, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTableFrom(f, filepath.Ext(filePath))
}

// ReadTableFrom is ReadTable over an already opened upload. ext selects the
// decoder, e.g. ".xlsx" or ".csv".
func ReadTableFrom(r io.Reader, ext string) ([]models.RawRow, error) {
	var (
		cells [][]string
		err   error
	)
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		cells, err = readXLSX(r)
	case ".csv":
		cells, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return toRows(cells)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &StructuralInputError{Reason: "workbook has no sheet"}
	}
	// raw values, so "1,000,000" formatting does not reach the number parser
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("sheet", sheets[0]).Int("rows", len(rows)).Msg("Read workbook")
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// toRows checks the table shape and maps cells to rows by position.
func toRows(cells [][]string) ([]models.RawRow, error) {
	width := 0
	for _, row := range cells {
		width = max(width, len(trimTrailing(row)))
	}
	if len(cells) == 0 || width == 0 {
		return nil, &StructuralInputError{Reason: "table is empty"}
	}
	if width != expectedColumns {
		return nil, &StructuralInputError{Columns: width}
	}

	// the header is the first non-blank row, leading blank rows are ignored
	header := 0
	for header < len(cells) && isBlank(cells[header]) {
		header++
	}

	var rows []models.RawRow
	for _, row := range cells[header+1:] {
		row = trimTrailing(row)
		if isBlank(row) {
			continue
		}
		var cols [expectedColumns]string
		copy(cols[:], row)
		rows = append(rows, models.RawRow{
			Label:   strings.TrimSpace(cols[0]),
			Prior:   cols[1],
			Current: cols[2],
		})
	}
	return rows, nil
}

// trimTrailing drops empty cells at the end of a row.
func trimTrailing(row []string) []string {
	for len(row) > 0 && strings.TrimSpace(row[len(row)-1]) == "" {
		row = row[:len(row)-1]
	}
	return row
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
