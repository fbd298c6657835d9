package datetime

import (
	"fmt"
	"strings"
	"time"
)

// ZoneKind classifies how a timezone token was resolved.
type ZoneKind string

const (
	ZoneNumeric ZoneKind = "numeric"
	ZoneText    ZoneKind = "text"
	ZoneUnknown ZoneKind = "unknown"
)

// ZoneInfo describes the resolution of a single timezone token.
type ZoneInfo struct {
	Token         string
	Kind          ZoneKind
	OffsetMinutes int
	Description   string
}

// ValidationResult reports whether Resolve handled a date string correctly,
// comparing its output against an independently computed expected instant.
type ValidationResult struct {
	Input    string
	Zone     ZoneInfo
	Parsed   *time.Time
	Expected *time.Time
	Success  bool
	Error    string
}

// ClassifyZone resolves a timezone token and reports how it was interpreted.
func ClassifyZone(token string) ZoneInfo {
	trimmed := strings.TrimSpace(token)
	offset := OffsetMinutes(trimmed)

	switch {
	case numericZonePattern.MatchString(trimmed):
		return ZoneInfo{
			Token:         trimmed,
			Kind:          ZoneNumeric,
			OffsetMinutes: offset,
			Description:   fmt.Sprintf("numeric offset %s", formatOffset(offset)),
		}
	case hasZoneAbbreviation(trimmed):
		return ZoneInfo{
			Token:         trimmed,
			Kind:          ZoneText,
			OffsetMinutes: offset,
			Description:   fmt.Sprintf("%s = %s", strings.ToUpper(trimmed), formatOffset(offset)),
		}
	default:
		return ZoneInfo{
			Token:       trimmed,
			Kind:        ZoneUnknown,
			Description: "unknown zone, treated as UTC",
		}
	}
}

// Validate runs Resolve on a date string and cross-checks the result against
// a second parse built on time.Parse. The two code paths share only the zone
// table, so a regression in either one shows up as a mismatch.
func Validate(value string) ValidationResult {
	result := ValidationResult{Input: value}

	trimmed := strings.TrimSpace(value)
	idx := strings.LastIndexAny(trimmed, " \t")
	if idx < 0 {
		result.Error = "no timezone token found"
		return result
	}

	head := strings.TrimSpace(trimmed[:idx])
	result.Zone = ClassifyZone(trimmed[idx+1:])

	parsed, ok := Resolve(value)
	if !ok {
		result.Error = "date did not resolve"
		return result
	}
	result.Parsed = &parsed

	expected, err := expectedInstant(head, result.Zone.OffsetMinutes)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Expected = &expected

	result.Success = parsed.Equal(expected)
	if !result.Success {
		result.Error = fmt.Sprintf("parsed %s, expected %s",
			parsed.Format(time.RFC3339), expected.Format(time.RFC3339))
	}

	return result
}

// expectedInstant recomputes the UTC instant for the date portion of an
// RFC 822 string (without its zone token) using the standard library parser.
func expectedInstant(head string, offsetMinutes int) (time.Time, error) {
	layouts := []string{
		"Mon, 2 Jan 2006 15:04:05",
		"2 Jan 2006 15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, head); err == nil {
			return t.Add(-time.Duration(offsetMinutes) * time.Minute), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date shape: %q", head)
}

func hasZoneAbbreviation(token string) bool {
	_, ok := zoneOffsets[strings.ToUpper(token)]
	return ok
}

func formatOffset(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}
