package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Duration is a module's labeled length, e.g. "3 hours" or "2-3 hours". It is kept
// structured and only formatted at the wire and presentation boundaries. Text that
// does not parse is kept verbatim in Raw so a round trip never drops user input.
type Duration struct {
	Min  float64
	Max  float64
	Unit string
	Raw  string
}

const defaultUnit = "hours"

var durationPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(?:\s*(?:-|to|–)\s*(\d+(?:\.\d+)?))?\s*([A-Za-z]+)?$`)

var unitAliases = map[string]string{
	"h":       "hours",
	"hr":      "hours",
	"hrs":     "hours",
	"hour":    "hours",
	"hours":   "hours",
	"m":       "minutes",
	"min":     "minutes",
	"mins":    "minutes",
	"minute":  "minutes",
	"minutes": "minutes",
	"day":     "days",
	"days":    "days",
	"week":    "weeks",
	"weeks":   "weeks",
}

// Hours returns a duration of n hours.
func Hours(n float64) Duration {
	return Duration{Min: n, Max: n, Unit: defaultUnit}
}

// ParseDuration reads a labeled duration. A bare number is taken as hours.
func ParseDuration(s string) Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}
	}
	m := durationPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return Duration{Raw: s}
	}
	lo, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Duration{Raw: s}
	}
	hi := lo
	if m[2] != "" {
		if hi, err = strconv.ParseFloat(m[2], 64); err != nil || hi < lo {
			return Duration{Raw: s}
		}
	}
	unit := defaultUnit
	if m[3] != "" {
		u, ok := unitAliases[m[3]]
		if !ok {
			return Duration{Raw: s}
		}
		unit = u
	}
	return Duration{Min: lo, Max: hi, Unit: unit}
}

// IsZero reports whether no duration was given.
func (d Duration) IsZero() bool {
	return d.Raw == "" && d.Unit == "" && d.Min == 0 && d.Max == 0
}

// IsRange reports whether the duration spans two magnitudes.
func (d Duration) IsRange() bool { return d.Raw == "" && d.Max > d.Min }

// Magnitude renders the numeric part without the unit, e.g. "3" or "2-3".
func (d Duration) Magnitude() string {
	if d.Raw != "" {
		return d.Raw
	}
	if d.IsZero() {
		return ""
	}
	if d.IsRange() {
		return formatFloat(d.Min) + "-" + formatFloat(d.Max)
	}
	return formatFloat(d.Min)
}

// String renders the labeled form sent to the course service.
func (d Duration) String() string {
	if d.Raw != "" {
		return d.Raw
	}
	if d.IsZero() {
		return ""
	}
	unit := d.Unit
	if unit == "" {
		unit = defaultUnit
	}
	if !d.IsRange() && d.Min == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return d.Magnitude() + " " + unit
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = ParseDuration(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Hours(n)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
