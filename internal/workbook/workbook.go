// =============================================================================
// Fixture Converter - Workbook Module
// =============================================================================
//
// This module reads fixture exports saved as XLSX workbooks and writes the
// converted calendar-import rows as a workbook. It produces and consumes the
// same [][]string record shape as the CSV parser, so the converter does not
// care which format an upload arrived in.
//
// READING RULES:
//   - Only the first sheet is read.
//   - Cell values are read as displayed, so dates keep their display format.
//   - Blank rows are skipped and every cell is trimmed.
//   - Data rows are padded with empty cells to the header width, because
//     trailing empty cells are not stored in the workbook.
//
// =============================================================================

package workbook

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// SheetName is the name of the sheet written by Write.
const SheetName = "Events"

// ErrNoSheet is returned when a workbook has no sheets to read.
var ErrNoSheet = errors.New("workbook has no sheets")

// =============================================================================
// READING
// =============================================================================

// Read reads the first sheet of an XLSX workbook.
//
// PARAMETERS:
//   - r: The workbook contents.
//
// RETURNS:
//   - The non-blank rows of the first sheet, header row first.
//   - An error if the workbook cannot be opened or has no sheets.
func Read(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.WithStack(ErrNoSheet)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Errorf("failed to read rows: %w", err)
	}

	records := make([][]string, 0, len(rows))
	width := 0
	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		record := make([]string, len(row), max(len(row), width))
		for i, cell := range row {
			record[i] = strings.TrimSpace(cell)
		}

		if len(records) == 0 {
			width = len(record)
		}
		for len(record) < width {
			record = append(record, "")
		}

		records = append(records, record)
	}

	return records, nil
}

// isRowEmpty checks if all cells in a row are empty.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WRITING
// =============================================================================

// Write writes a header row and data rows as a single-sheet workbook.
//
// PARAMETERS:
//   - w: The destination.
//   - headers: The header row.
//   - rows: The data rows. Every cell is written as a string.
//
// RETURNS:
//   - An error if a cell cannot be set or the workbook cannot be written.
func Write(w io.Writer, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return errors.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// setRow writes values into the 1-based row n starting at column A.
func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return errors.WithStack(err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return errors.Errorf("failed to write row %d: %w", n, err)
	}
	return nil
}
