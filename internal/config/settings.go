package config

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/wscc/fixture-converter/internal/types"
)

// ErrInvalidSettings is returned when a request carries settings that cannot
// be decoded.
var ErrInvalidSettings = errors.New("invalid settings")

// ParseSettings decodes the JSON settings object sent with an upload.
//
// PARAMETERS:
//   - raw: The JSON object. Blank input yields the defaults.
//   - defaults: The settings used for keys the object leaves out.
//
// RETURNS:
//   - The decoded settings.
//   - The sorted names of keys that were not recognized. These are ignored.
//   - An error wrapping ErrInvalidSettings if the JSON is malformed, a value
//     has the wrong type, or gameDuration is negative.
//
// gameDuration may be a number or a numeric string holding a whole number of
// minutes, so 90 and 90.0 are equal. Zero keeps the default game duration.
func ParseSettings(raw string, defaults types.Settings) (types.Settings, []string, error) {
	settings := defaults

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return settings, nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return settings, nil, errors.Errorf("%w: %s", ErrInvalidSettings, err)
	}

	var unknown []string
	for key, value := range fields {
		var err error
		switch key {
		case "gameDuration":
			err = decodeDuration(value, &settings.GameDuration)
		case "enableComments":
			err = decodeFlag(value, &settings.EnableComments)
		case "trackAttendance":
			err = decodeFlag(value, &settings.TrackAttendance)
		case "enableDutyRoster":
			err = decodeFlag(value, &settings.EnableDutyRoster)
		case "enableTicketing":
			err = decodeFlag(value, &settings.EnableTicketing)
		default:
			unknown = append(unknown, key)
		}
		if err != nil {
			return defaults, nil, errors.Errorf("%w: %s: %s", ErrInvalidSettings, key, err)
		}
	}
	sort.Strings(unknown)

	if settings.GameDuration < 0 {
		return defaults, nil, errors.Errorf("%w: gameDuration must not be negative", ErrInvalidSettings)
	}
	if settings.GameDuration == 0 {
		settings.GameDuration = defaults.Duration()
	}

	return settings, unknown, nil
}

// maxDuration bounds gameDuration to a week of minutes.
const maxDuration = 7 * 24 * 60

func decodeDuration(value json.RawMessage, dst *int) error {
	if string(value) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return errors.New("must be a whole number of minutes")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("must be a whole number of minutes")
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return errors.New("must be a whole number of minutes")
	}
	if f > maxDuration {
		return errors.Errorf("must be at most %d minutes", maxDuration)
	}
	*dst = int(f)
	return nil
}

func decodeFlag(value json.RawMessage, dst *bool) error {
	if string(value) == "null" {
		*dst = false
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return errors.New("must be true or false")
	}
	return nil
}
