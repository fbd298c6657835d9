package datetime

import (
	"testing"
	"time"
)

func TestClassifyZone(t *testing.T) {
	tests := []struct {
		token      string
		wantKind   ZoneKind
		wantOffset int
	}{
		{"+0800", ZoneNumeric, 480},
		{"-0500", ZoneNumeric, -300},
		{"GMT", ZoneText, 0},
		{"jst", ZoneText, 540},
		{"XYZ", ZoneUnknown, 0},
	}

	for _, tt := range tests {
		info := ClassifyZone(tt.token)
		if info.Kind != tt.wantKind {
			t.Errorf("ClassifyZone(%q).Kind = %s, want %s", tt.token, info.Kind, tt.wantKind)
		}
		if info.OffsetMinutes != tt.wantOffset {
			t.Errorf("ClassifyZone(%q).OffsetMinutes = %d, want %d", tt.token, info.OffsetMinutes, tt.wantOffset)
		}
		if info.Description == "" {
			t.Errorf("ClassifyZone(%q) has no description", tt.token)
		}
	}
}

func TestValidateSuccess(t *testing.T) {
	inputs := []string{
		"Thu, 28 Aug 2025 00:46:04 +0800",
		"Wed, 27 Aug 2025 12:00:00 -0500",
		"Wed, 27 Aug 2025 15:30:00 GMT",
		"Sat, 30 Aug 2025 09:15:00 JST",
	}

	for _, input := range inputs {
		result := Validate(input)
		if !result.Success {
			t.Errorf("Validate(%q) failed: %s", input, result.Error)
			continue
		}
		if result.Parsed == nil || result.Expected == nil {
			t.Errorf("Validate(%q) missing instants", input)
			continue
		}
		if !result.Parsed.Equal(*result.Expected) {
			t.Errorf("Validate(%q): parsed %v != expected %v", input, result.Parsed, result.Expected)
		}
	}
}

func TestValidateKnownInstant(t *testing.T) {
	result := Validate("Thu, 28 Aug 2025 00:46:04 +0800")
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}

	want := time.Date(2025, 8, 27, 16, 46, 4, 0, time.UTC)
	if !result.Parsed.Equal(want) {
		t.Errorf("parsed %v, want %v", result.Parsed, want)
	}
}

func TestValidateUnknownZone(t *testing.T) {
	result := Validate("Wed, 27 Aug 2025 15:30:00 XYZ")
	if result.Zone.Kind != ZoneUnknown {
		t.Errorf("expected unknown zone kind, got %s", result.Zone.Kind)
	}
	// Both paths treat an unknown zone as UTC, so they must agree.
	if !result.Success {
		t.Errorf("expected success for unknown zone, got error: %s", result.Error)
	}
}

func TestValidateGarbage(t *testing.T) {
	result := Validate("not a date at all")
	if result.Success {
		t.Error("expected failure for garbage input")
	}
	if result.Error == "" {
		t.Error("expected an error message")
	}
}

func TestValidateNoZoneToken(t *testing.T) {
	result := Validate("nodate")
	if result.Success {
		t.Error("expected failure when no timezone token present")
	}
}
