// =============================================================================
// Fixture Converter - Shared Types
// =============================================================================
//
// This package contains the record types shared by the parser, the converter,
// the validator and the HTTP layer. Keeping them here avoids import cycles
// between those packages.
//
// RECORD FLOW:
//   SourceRecord (one fixture row) + Settings -> TargetRecord (one calendar row)
//
// =============================================================================

package types

// =============================================================================
// SOURCE RECORD
// =============================================================================

// Source column names as they appear in the fixture export header row.
const (
	ColGameDate       = "Game Date"
	ColGameType       = "Game Type"
	ColGrade          = "Grade"
	ColRound          = "Round"
	ColTime           = "Time"
	ColHomeTeam       = "Home Team"
	ColAwayTeam       = "Away Team"
	ColPlayingSurface = "Playing Surface"
	ColGameID         = "Game ID"
)

// SourceColumns lists every column a fixture export must carry.
// Order is irrelevant; columns are looked up by name.
var SourceColumns = []string{
	ColGameDate,
	ColGameType,
	ColGrade,
	ColRound,
	ColTime,
	ColHomeTeam,
	ColAwayTeam,
	ColPlayingSurface,
	ColGameID,
}

// SourceRecord is a single fixture row from the export.
// The csv tags name the header cell each field is read from.
type SourceRecord struct {
	// GameDate is the match date as DD/MM/YYYY.
	GameDate string `csv:"Game Date"`

	// GameType is the competition format, e.g. "T20" or "One Day".
	GameType string `csv:"Game Type"`

	// Grade is the team/division name, e.g. "PSWL North A".
	Grade string `csv:"Grade"`

	// Round is the round label, e.g. "Round 4".
	Round string `csv:"Round"`

	// Time is the start time as HH:MM.
	Time string `csv:"Time"`

	HomeTeam       string `csv:"Home Team"`
	AwayTeam       string `csv:"Away Team"`
	PlayingSurface string `csv:"Playing Surface"`

	// GameID is the upstream identifier of the fixture.
	GameID string `csv:"Game ID"`
}

// =============================================================================
// CONVERSION SETTINGS
// =============================================================================

// DefaultGameDuration is used when Settings.GameDuration is not positive.
const DefaultGameDuration = 120

// Settings holds the per-request conversion options.
// JSON keys match the ones sent by the upload form.
type Settings struct {
	// GameDuration is the length of a game in minutes.
	// Values <= 0 fall back to DefaultGameDuration.
	GameDuration int `json:"gameDuration"`

	EnableComments   bool `json:"enableComments"`
	TrackAttendance  bool `json:"trackAttendance"`
	EnableDutyRoster bool `json:"enableDutyRoster"`
	EnableTicketing  bool `json:"enableTicketing"`
}

// Duration returns the effective game duration in minutes.
func (s Settings) Duration() int {
	if s.GameDuration <= 0 {
		return DefaultGameDuration
	}
	return s.GameDuration
}

// =============================================================================
// TARGET RECORD
// =============================================================================

// TargetHeaders is the fixed header row of the calendar-import file.
var TargetHeaders = []string{
	"event_name",
	"start_date",
	"end_date",
	"start_time",
	"end_time",
	"description",
	"location",
	"access_groups",
	"rsvp",
	"comments",
	"attendance_tracking",
	"duty_roster",
	"ticketing",
	"reference_id",
}

// TargetRecord is a single row of the calendar-import file.
// Every field is a string because the import format is plain text.
type TargetRecord struct {
	EventName          string `json:"event_name"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Description        string `json:"description"`
	Location           string `json:"location"`
	AccessGroups       string `json:"access_groups"`
	RSVP               string `json:"rsvp"`
	Comments           string `json:"comments"`
	AttendanceTracking string `json:"attendance_tracking"`
	DutyRoster         string `json:"duty_roster"`
	Ticketing          string `json:"ticketing"`
	ReferenceID        string `json:"reference_id"`
}

// Values returns the record fields in TargetHeaders order.
func (r TargetRecord) Values() []string {
	return []string{
		r.EventName,
		r.StartDate,
		r.EndDate,
		r.StartTime,
		r.EndTime,
		r.Description,
		r.Location,
		r.AccessGroups,
		r.RSVP,
		r.Comments,
		r.AttendanceTracking,
		r.DutyRoster,
		r.Ticketing,
		r.ReferenceID,
	}
}
