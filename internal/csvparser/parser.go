// =============================================================================
// Fixture Converter - CSV Parser Module
// =============================================================================
//
// This module turns raw delimited text into ordered rows of ordered fields and
// back again. It knows nothing about fixtures beyond the "Grade" column used
// for grade listing and filtering.
//
// PARSING RULES:
//   - Comma delimiter, double-quote quoting
//   - Rows may have different field counts (the converter checks widths)
//   - Malformed quoting is a parse error
//   - Blank lines are skipped
//   - Every field is trimmed; a UTF-8 byte order mark on the first field is removed
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/types"
)

// ErrParse marks errors caused by malformed CSV input.
var ErrParse = errors.New("malformed CSV")

// utf8BOM is the byte order mark some spreadsheet exports prepend.
const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads all CSV records from r.
//
// PARAMETERS:
//   - r: The CSV text.
//
// RETURNS:
//   - The records, header row first. An empty input yields an empty slice.
//   - An error wrapping ErrParse if the text is not valid CSV.
func Parse(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	configureReader(reader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrParse, err)
	}

	for i, record := range records {
		for j, field := range record {
			if i == 0 && j == 0 {
				field = strings.TrimPrefix(field, utf8BOM)
			}
			records[i][j] = strings.TrimSpace(field)
		}
	}

	return records, nil
}

// configureReader applies the reader settings used for fixture exports.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','

	// Row widths are checked against the header by the converter, which can
	// report the offending row.
	reader.FieldsPerRecord = -1

	// Malformed quoting is reported as a parse error.
	reader.LazyQuotes = false

	reader.TrimLeadingSpace = true
}

// Write serializes a header row followed by data rows as CSV.
func Write(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return errors.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Errorf("failed to write rows: %w", err)
	}

	return nil
}

// String serializes records to CSV text.
func String(headers []string, rows [][]string) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, headers, rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// ColumnIndex returns the position of name in header, or -1.
func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// Grades returns the sorted unique non-empty values of the Grade column.
//
// PARAMETERS:
//   - records: Parsed records, header row first.
//
// RETURNS:
//   - The grades, or nil if there is no Grade column.
func Grades(records [][]string) []string {
	if len(records) == 0 {
		return nil
	}

	col := ColumnIndex(records[0], types.ColGrade)
	if col < 0 {
		return nil
	}

	seen := make(map[string]bool)
	grades := []string{}

	for _, row := range records[1:] {
		if col >= len(row) || row[col] == "" {
			continue
		}
		if !seen[row[col]] {
			seen[row[col]] = true
			grades = append(grades, row[col])
		}
	}

	sort.Strings(grades)
	return grades
}
