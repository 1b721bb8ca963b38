// =============================================================================
// Fixture Converter - Field Transformations
// =============================================================================
//
// This module holds the per-field rules used by the row converter:
//   - Date reformatting (DD/MM/YYYY -> YYYY-MM-DD)
//   - End time arithmetic (start + duration, no day rollover)
//   - Opponent selection (substring match on the club name)
//   - Boolean flags to "true"/"false"
//
// None of these functions fail. Values that cannot be read produce "NaN"
// tokens in the output instead, matching what the calendar importer has
// always been given for broken rows.
//
// =============================================================================

package converter

import (
	"strconv"
	"strings"
)

// nanToken stands in for a date or time component that could not be read.
const nanToken = "NaN"

// =============================================================================
// DATE/TIME CONVERSIONS
// =============================================================================

// FormatDate converts a DD/MM/YYYY date to YYYY-MM-DD.
//
// Day and month are left-padded with zeros to two characters; the year is
// copied as-is. The date is not checked against the calendar, so "32/13/2025"
// becomes "2025-13-32". Missing components are written as "NaN".
//
// EXAMPLE:
//
//	Input:  "2/11/2025"
//	Output: "2025-11-02"
func FormatDate(value string) string {
	parts := strings.Split(value, "/")

	day := component(parts, 0)
	month := component(parts, 1)
	year := component(parts, 2)

	return year + "-" + PadLeft(month, 2, '0') + "-" + PadLeft(day, 2, '0')
}

// component returns parts[i], or the NaN token if it is missing.
func component(parts []string, i int) string {
	if i >= len(parts) {
		return nanToken
	}
	return parts[i]
}

// EndTime adds duration minutes to an H:MM start time.
//
// Minutes carry into hours, but hours never wrap: "23:30" plus 90 minutes is
// "25:00". The carry rounds down, so a negative minute borrows from the hour
// and keeps its sign: "10:-50" plus 120 minutes is "11:-50". The hour is printed without padding and the minute is padded to two
// digits. Durations <= 0 are treated as the default game duration by the
// caller; EndTime uses whatever it is given.
//
// UNREADABLE INPUT:
//   - hour unreadable:   "NaN:MM"
//   - minute unreadable: "NaN:NaN" (the hour carry depends on the minute)
func EndTime(start string, duration int) string {
	hourPart, minutePart, _ := strings.Cut(start, ":")

	hour, hourOK := leadingInt(hourPart)
	minute, minuteOK := leadingInt(minutePart)

	if !minuteOK {
		return nanToken + ":" + nanToken
	}

	minutes := minute + duration%60
	endMinute := PadLeft(strconv.Itoa(minutes%60), 2, '0')

	if !hourOK {
		return nanToken + ":" + endMinute
	}

	endHour := hour + floorDiv(duration, 60) + floorDiv(minutes, 60)
	return strconv.Itoa(endHour) + ":" + endMinute
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// leadingInt reads an optionally signed run of digits from the start of s,
// after leading whitespace. Trailing characters are ignored, so "14pm" reads
// as 14. ok is false when no digits are found.
func leadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// =============================================================================
// TEAM SELECTION
// =============================================================================

// Opponent picks the team name shown in the event title.
//
// When the away team contains clubName the club is playing away, so the home
// team is the opponent; otherwise the away team is. The match is a plain
// case-sensitive substring test.
func Opponent(homeTeam, awayTeam, clubName string) string {
	if clubName != "" && strings.Contains(awayTeam, clubName) {
		return homeTeam
	}
	return awayTeam
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// BoolString renders a flag the way the calendar importer expects.
func BoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// PadLeft pads a string with a character on the left to reach the target length.
func PadLeft(s string, length int, padChar rune) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-len(s)) + s
}
