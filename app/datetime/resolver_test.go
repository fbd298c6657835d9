package datetime

import (
	"testing"
	"time"
)

func TestResolveNumericOffsets(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"Thu, 28 Aug 2025 00:46:04 +0800", time.Date(2025, 8, 27, 16, 46, 4, 0, time.UTC)},
		{"Wed, 27 Aug 2025 12:00:00 -0500", time.Date(2025, 8, 27, 17, 0, 0, 0, time.UTC)},
		{"Sat, 30 Aug 2025 10:00:00 +0930", time.Date(2025, 8, 30, 0, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := Resolve(tt.input)
		if !ok {
			t.Errorf("Resolve(%q) did not resolve", tt.input)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if got.Location() != time.UTC {
			t.Errorf("Resolve(%q) returned non-UTC location %v", tt.input, got.Location())
		}
	}
}

func TestResolveTextZones(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"Wed, 27 Aug 2025 15:30:00 GMT", time.Date(2025, 8, 27, 15, 30, 0, 0, time.UTC)},
		{"Sat, 30 Aug 2025 09:15:00 JST", time.Date(2025, 8, 30, 0, 15, 0, 0, time.UTC)},
		{"Mon, 25 Aug 2025 08:00:00 PST", time.Date(2025, 8, 25, 16, 0, 0, 0, time.UTC)},
		{"Mon, 25 Aug 2025 08:00:00 EDT", time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := Resolve(tt.input)
		if !ok {
			t.Errorf("Resolve(%q) did not resolve", tt.input)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResolveWithoutWeekday(t *testing.T) {
	got, ok := Resolve("28 Aug 2025 00:46:04 +0800")
	if !ok {
		t.Fatal("expected date without weekday to resolve")
	}

	want := time.Date(2025, 8, 27, 16, 46, 4, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveUnknownZoneTreatedAsUTC(t *testing.T) {
	got, ok := Resolve("Wed, 27 Aug 2025 15:30:00 XYZ")
	if !ok {
		t.Fatal("expected date with unknown zone to resolve")
	}

	want := time.Date(2025, 8, 27, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveISOFallback(t *testing.T) {
	got, ok := Resolve("2025-08-27T16:46:04Z")
	if !ok {
		t.Fatal("expected ISO-8601 date to resolve")
	}

	want := time.Date(2025, 8, 27, 16, 46, 4, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResolveMonthCaseSensitive(t *testing.T) {
	if _, ok := Resolve("Thu, 28 aug 2025 00:46:04 +0800"); ok {
		t.Error("lowercase month abbreviation should not resolve")
	}
}

func TestResolveGarbage(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a date",
		"Thu, 99 Aug",
		"12345",
		"Mon, 02 Jan 2006", // no time of day
	}

	for _, input := range inputs {
		if _, ok := Resolve(input); ok {
			t.Errorf("Resolve(%q) resolved, expected absent", input)
		}
	}
}

func TestOffsetMinutes(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"+0800", 480},
		{"-0500", -300},
		{"+0930", 570},
		{"+0000", 0},
		{"GMT", 0},
		{"UTC", 0},
		{"EST", -300},
		{"PDT", -420},
		{"JST", 540},
		{"CEST", 120},
		{"???", 0},
		{"Mars", 0},
	}

	for _, tt := range tests {
		if got := OffsetMinutes(tt.token); got != tt.want {
			t.Errorf("OffsetMinutes(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestOffsetMinutesCaseInsensitive(t *testing.T) {
	for _, token := range []string{"gmt", "Gmt", "GMT", "jst", "pst", "Cest"} {
		upper := OffsetMinutes(token)
		lower := OffsetMinutes(token)
		if upper != lower {
			t.Errorf("OffsetMinutes(%q) not stable across case", token)
		}
	}

	if OffsetMinutes("gmt") != OffsetMinutes("GMT") {
		t.Error("gmt and GMT should resolve identically")
	}
	if OffsetMinutes("jst") != 540 {
		t.Errorf("OffsetMinutes(jst) = %d, want 540", OffsetMinutes("jst"))
	}
}
