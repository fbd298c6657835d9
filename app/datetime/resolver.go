package datetime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rfc822Pattern matches the date shape used by RSS pubDate elements: an
// optional weekday, day, month abbreviation, year, time of day and a trailing
// timezone token which runs to the end of the string.
var rfc822Pattern = regexp.MustCompile(`^(?:[A-Za-z]{3},?\s+)?(\d{1,2})\s+([A-Za-z]{3})\s+(\d{4})\s+(\d{1,2}):(\d{2}):(\d{2})\s+(.+)$`)

var numericZonePattern = regexp.MustCompile(`^[+-]\d{4}$`)

// Month abbreviations per RFC 822. Lookup is case-sensitive: "jan" is not a
// valid month token and rejects the whole pattern match.
var months = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

// zoneOffsets maps common timezone abbreviations to their UTC offset in
// minutes. Lookup is case-insensitive.
var zoneOffsets = map[string]int{
	"GMT":  0,
	"UTC":  0,
	"EST":  -300,
	"EDT":  -240,
	"CST":  -360,
	"CDT":  -300,
	"MST":  -420,
	"MDT":  -360,
	"PST":  -480,
	"PDT":  -420,
	"BST":  60,
	"CET":  60,
	"CEST": 120,
	"JST":  540,
	"KST":  540,
}

// isoFallbacks cover feeds that put ISO-8601 timestamps in pubDate.
var isoFallbacks = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Resolve parses an RFC 822 style date string into a UTC instant, falling
// back to ISO-8601 when the string does not match the RFC 822 shape. It is a
// total function: unparseable input returns false instead of an error, so
// callers can treat bad dates as absent fields.
func Resolve(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if m := rfc822Pattern.FindStringSubmatch(value); m != nil {
		if month, ok := months[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			hour, _ := strconv.Atoi(m[4])
			minute, _ := strconv.Atoi(m[5])
			second, _ := strconv.Atoi(m[6])

			// The numeric fields are a wall-clock reading in the named zone;
			// subtracting the zone offset yields the UTC instant.
			t := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
			t = t.Add(-time.Duration(OffsetMinutes(m[7])) * time.Minute)
			return t, true
		}
	}

	for _, layout := range isoFallbacks {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// OffsetMinutes resolves a timezone token to its UTC offset in minutes.
// Numeric tokens (+0800, -0500) are decoded directly; text tokens come from
// the abbreviation table. Unrecognized tokens resolve to 0: an unknown zone
// is treated as UTC so that an otherwise valid date stays usable.
func OffsetMinutes(token string) int {
	token = strings.TrimSpace(token)

	if numericZonePattern.MatchString(token) {
		hours, _ := strconv.Atoi(token[1:3])
		minutes, _ := strconv.Atoi(token[3:5])
		offset := hours*60 + minutes
		if token[0] == '-' {
			offset = -offset
		}
		return offset
	}

	if offset, ok := zoneOffsets[strings.ToUpper(token)]; ok {
		return offset
	}

	return 0
}
