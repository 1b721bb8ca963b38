// =============================================================================
// Fixture Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic: the row converter that maps
// one fixture into one calendar-import row, and the batch driver that applies
// it to a whole export.
//
// CONVERSION PIPELINE:
//   1. Validate the header row against the required columns
//   2. Decode each data row into a SourceRecord
//   3. Validate each row (findings become warnings, or errors in strict mode)
//   4. Convert each row into a TargetRecord, preserving input order
//
// CONCURRENCY:
//   A Converter holds only read-only options. Conversions are synchronous and
//   deterministic; the same input and settings always give the same output.
//
// =============================================================================

package converter

import (
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/types"
	"github.com/wscc/fixture-converter/internal/validation"
)

// DefaultClubName is the club whose fixtures are being converted.
const DefaultClubName = "Western Suburbs"

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Converter.
type Options struct {
	// ClubName is matched against the away team to pick the opponent.
	// Default: DefaultClubName
	ClubName string

	// Strict rejects a batch when any row has an error-severity finding.
	// Default: false (findings are returned as warnings)
	Strict bool
}

// Converter converts fixture exports to calendar-import rows.
type Converter struct {
	clubName string
	strict   bool
}

// New creates a Converter.
func New(opts Options) *Converter {
	if opts.ClubName == "" {
		opts.ClubName = DefaultClubName
	}
	return &Converter{
		clubName: opts.ClubName,
		strict:   opts.Strict,
	}
}

// =============================================================================
// ROW CONVERTER
// =============================================================================

// Convert maps one fixture to one calendar-import row.
//
// PARAMETERS:
//   - src: The fixture row.
//   - accessGroup: The calendar visibility tag applied to the row.
//   - settings: The per-request conversion options.
//
// RETURNS:
//   - The converted row. Malformed dates and times are passed through as
//     malformed strings; Convert never fails.
func (c *Converter) Convert(src types.SourceRecord, accessGroup string, settings types.Settings) types.TargetRecord {
	date := FormatDate(src.GameDate)

	return types.TargetRecord{
		EventName:          src.Grade + " vs " + Opponent(src.HomeTeam, src.AwayTeam, c.clubName),
		StartDate:          date,
		EndDate:            date,
		StartTime:          src.Time,
		EndTime:            EndTime(src.Time, settings.Duration()),
		Description:        src.GameType + " " + src.Round + ": " + src.HomeTeam + " vs " + src.AwayTeam,
		Location:           src.PlayingSurface,
		AccessGroups:       accessGroup,
		RSVP:               "true",
		Comments:           BoolString(settings.EnableComments),
		AttendanceTracking: BoolString(settings.TrackAttendance),
		DutyRoster:         BoolString(settings.EnableDutyRoster),
		Ticketing:          BoolString(settings.EnableTicketing),
		ReferenceID:        src.GameID,
	}
}

// Convert maps one fixture using the default club name.
func Convert(src types.SourceRecord, accessGroup string, settings types.Settings) types.TargetRecord {
	return New(Options{}).Convert(src, accessGroup, settings)
}

// =============================================================================
// BATCH DRIVER
// =============================================================================

// Batch is the converted form of a whole export.
type Batch struct {
	// Headers is always types.TargetHeaders.
	Headers []string

	// Records holds one converted row per data row, in input order.
	Records []types.TargetRecord

	// Warnings holds validation findings for the input rows.
	Warnings validation.Errors
}

// Rows returns the converted records as ordered field slices.
func (b *Batch) Rows() [][]string {
	rows := make([][]string, len(b.Records))
	for i, r := range b.Records {
		rows[i] = r.Values()
	}
	return rows
}

// ConvertAll converts every data row of an export.
//
// PARAMETERS:
//   - records: Parsed rows; the first row is always treated as the header.
//   - accessGroup: The calendar visibility tag applied to every row.
//   - settings: The per-request conversion options.
//
// RETURNS:
//   - The batch. Header-only input yields zero rows.
//   - A *SchemaMismatchError if the input does not have the export layout.
//   - validation.Errors in strict mode when any row has an error finding.
func (c *Converter) ConvertAll(records [][]string, accessGroup string, settings types.Settings) (*Batch, error) {
	return c.ConvertGrades(records, nil, accessGroup, settings)
}

// ConvertGrades converts the data rows of an export whose Grade is listed in
// grades. A nil grades converts every row; an empty one converts none.
//
// Findings keep the row number of the data row in the full export, so a
// reported row can be found in the uploaded file.
func (c *Converter) ConvertGrades(records [][]string, grades []string, accessGroup string, settings types.Settings) (*Batch, error) {
	sources, err := DecodeRecords(records)
	if err != nil {
		return nil, err
	}

	var keep map[string]bool
	if grades != nil {
		keep = make(map[string]bool, len(grades))
		for _, g := range grades {
			keep[g] = true
		}
	}

	batch := &Batch{
		Headers: types.TargetHeaders,
		Records: make([]types.TargetRecord, 0, len(sources)),
	}

	for i, src := range sources {
		if keep != nil && !keep[src.Grade] {
			continue
		}

		row := i + 1
		batch.Warnings = append(batch.Warnings, validation.ValidateRecord(row, src)...)

		target := c.Convert(src, accessGroup, settings)
		if ve := validation.ValidateEndTime(row, target.EndTime); ve != nil {
			batch.Warnings = append(batch.Warnings, ve)
		}

		batch.Records = append(batch.Records, target)
	}

	if c.strict && batch.Warnings.HasErrors() {
		return nil, errors.WithStack(batch.Warnings.OnlyErrors())
	}

	return batch, nil
}

// ConvertAll converts an export using the default options.
func ConvertAll(records [][]string, accessGroup string, settings types.Settings) (*Batch, error) {
	return New(Options{}).ConvertAll(records, accessGroup, settings)
}

// =============================================================================
// LOGGING
// =============================================================================

// LogSummary writes a one-line summary of a batch to the context logger.
func LogSummary(logger *zerolog.Logger, batch *Batch) {
	errCount := len(batch.Warnings.OnlyErrors())
	logger.Info().
		Int("rows", len(batch.Records)).
		Int("errors", errCount).
		Int("warnings", len(batch.Warnings)-errCount).
		Msg("converted fixtures")

	for _, w := range batch.Warnings {
		logger.Debug().
			Str("severity", w.Severity).
			Int("row", w.Row).
			Str("field", w.Field).
			Str("value", w.Value).
			Msg(w.Message)
	}
}
