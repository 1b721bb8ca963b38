package converter

import (
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/types"
)

// =============================================================================
// SCHEMA MISMATCH
// =============================================================================

// SchemaMismatchError reports input whose shape does not fit the fixture
// export layout.
type SchemaMismatchError struct {
	// Missing lists required columns absent from the header row.
	Missing []string

	// Duplicate lists header names that appear more than once.
	Duplicate []string

	// Row is the 1-based data row that is narrower than the header.
	// Zero when the header itself is at fault.
	Row int

	// Fields and Want are the field counts of Row and of the header.
	Fields int
	Want   int
}

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("schema mismatch: row %d has %d fields, header has %d", e.Row, e.Fields, e.Want)
	case len(e.Duplicate) > 0:
		return fmt.Sprintf("schema mismatch: duplicate columns: %s", strings.Join(e.Duplicate, ", "))
	default:
		return fmt.Sprintf("schema mismatch: missing columns: %s", strings.Join(e.Missing, ", "))
	}
}

// checkHeader verifies that header carries every required column exactly once.
// Other columns, blank or repeated, are ignored.
func checkHeader(header []string) error {
	required := make(map[string]bool, len(types.SourceColumns))
	for _, col := range types.SourceColumns {
		required[col] = true
	}

	seen := make(map[string]int, len(header))
	var duplicate []string
	for _, h := range header {
		if !required[h] {
			continue
		}
		seen[h]++
		if seen[h] == 2 {
			duplicate = append(duplicate, h)
		}
	}

	var missing []string
	for _, col := range types.SourceColumns {
		if seen[col] == 0 {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 || len(duplicate) > 0 {
		return errors.WithStack(&SchemaMismatchError{Missing: missing, Duplicate: duplicate})
	}
	return nil
}

// =============================================================================
// ROW DECODING
// =============================================================================

// recordReader feeds already-parsed records to a csvutil decoder.
// Rows wider than the header are cut to the header width; narrower rows stop
// decoding with a SchemaMismatchError.
type recordReader struct {
	records [][]string
	next    int
	width   int
}

// Read implements csvutil.Reader.
func (r *recordReader) Read() ([]string, error) {
	if r.next >= len(r.records) {
		return nil, io.EOF
	}

	row := r.records[r.next]
	r.next++

	if r.next == 1 {
		r.width = len(row)
		return row, nil
	}

	if len(row) < r.width {
		return nil, errors.WithStack(&SchemaMismatchError{
			Row:    r.next - 1,
			Fields: len(row),
			Want:   r.width,
		})
	}

	return row[:r.width], nil
}

// DecodeRecords turns parsed records into source records.
//
// PARAMETERS:
//   - records: Parsed rows, header row first.
//
// RETURNS:
//   - One SourceRecord per data row, in input order.
//   - A *SchemaMismatchError if the header is empty, lacks a required column,
//     repeats a column, or a data row is narrower than the header.
func DecodeRecords(records [][]string) ([]types.SourceRecord, error) {
	if len(records) == 0 {
		return nil, errors.WithStack(&SchemaMismatchError{Missing: types.SourceColumns})
	}

	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	dec, err := csvutil.NewDecoder(&recordReader{records: records})
	if err != nil {
		return nil, errors.Errorf("failed to read header: %w", err)
	}

	sources := make([]types.SourceRecord, 0, len(records)-1)
	for {
		var src types.SourceRecord
		if err := dec.Decode(&src); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Errorf("failed to decode row %d: %w", len(sources)+1, err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}
