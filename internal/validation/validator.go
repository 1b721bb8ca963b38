// =============================================================================
// Fixture Converter - Validation Engine
// =============================================================================
//
// This module checks fixture rows for values the converter cannot turn into a
// sensible calendar entry. The converter itself never fails on bad values; it
// passes them through as best it can. Validation findings are reported next to
// the converted output, or, in strict mode, reject the batch.
//
// SEVERITIES:
//   - error:   the converted date or time will be malformed
//   - warning: the converted row is usable but probably not what was meant
//
// ROW NUMBERING:
//   Row is the 1-based index of the data row. The header row is row 0.
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wscc/fixture-converter/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding on one row.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string `json:"severity"`

	// Row is the 1-based data row index.
	Row int `json:"row"`

	// Field is the source column the finding is about.
	Field string `json:"field"`

	// Value is the offending value.
	Value string `json:"value"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] row %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Row,
		e.Field,
		e.Message,
		e.Value,
	)
}

// Errors is a list of findings returned as a single error in strict mode.
type Errors []*ValidationError

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e[0].Error(), len(e)-1)
}

// HasErrors reports whether any finding has error severity.
func (e Errors) HasErrors() bool {
	for _, ve := range e {
		if ve.Severity == SeverityError {
			return true
		}
	}
	return false
}

// OnlyErrors returns the error-severity findings.
func (e Errors) OnlyErrors() Errors {
	var out Errors
	for _, ve := range e {
		if ve.Severity == SeverityError {
			out = append(out, ve)
		}
	}
	return out
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

// ValidateRecord checks a single decoded fixture row.
//
// PARAMETERS:
//   - row: The 1-based data row index used in findings.
//   - record: The decoded row.
//
// RETURNS:
//   - The findings for the row, nil if the row is clean.
func ValidateRecord(row int, record types.SourceRecord) Errors {
	var errs Errors

	if msg := validateDate(record.GameDate); msg != "" {
		errs = append(errs, newError(SeverityError, row, types.ColGameDate, record.GameDate, msg))
	}

	if msg := validateTime(record.Time); msg != "" {
		errs = append(errs, newError(SeverityError, row, types.ColTime, record.Time, msg))
	}

	required := []struct {
		field string
		value string
	}{
		{types.ColHomeTeam, record.HomeTeam},
		{types.ColAwayTeam, record.AwayTeam},
		{types.ColGameID, record.GameID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, newError(SeverityWarning, row, r.field, r.value, "value is empty"))
		}
	}

	return errs
}

// ValidateEndTime flags an end time that runs past midnight. The converter
// does not roll the date over, so such rows end on an hour of 24 or more.
func ValidateEndTime(row int, endTime string) *ValidationError {
	hour, _, ok := strings.Cut(endTime, ":")
	if !ok {
		return nil
	}

	h, err := strconv.Atoi(hour)
	if err != nil || h < 24 {
		return nil
	}

	return newError(SeverityWarning, row, types.ColTime, endTime, "game ends after midnight")
}

// =============================================================================
// FIELD VALIDATORS
// =============================================================================

// validateDate checks for a real calendar date in D/M/YYYY form.
// Returns an error message, or an empty string if valid.
func validateDate(value string) string {
	if value == "" {
		return "date is empty"
	}

	parts := strings.Split(value, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return "date must be in DD/MM/YYYY format"
	}

	if _, err := time.Parse("2/1/2006", value); err != nil {
		return "date is not a valid calendar date"
	}

	return ""
}

// validateTime checks for H:MM with hour 0-23 and minute 0-59.
// Returns an error message, or an empty string if valid.
func validateTime(value string) string {
	if value == "" {
		return "time is empty"
	}

	hour, minute, ok := strings.Cut(value, ":")
	if !ok || len(minute) != 2 || len(hour) == 0 || len(hour) > 2 {
		return "time must be in HH:MM format"
	}

	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return "hour must be between 0 and 23"
	}

	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return "minute must be between 0 and 59"
	}

	return ""
}

func newError(severity string, row int, field, value, message string) *ValidationError {
	return &ValidationError{
		Severity: severity,
		Row:      row,
		Field:    field,
		Value:    value,
		Message:  message,
	}
}
