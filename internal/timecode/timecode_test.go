package timecode

import (
	"errors"
	"testing"
)

func TestParseTimeInput_ColonForm(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0:00", 0},
		{"0:45", 45},
		{"1:23", 83},
		{"12:05", 725},
		{"99:59", 5999},
	}

	for _, tt := range tests {
		got, err := ParseTimeInput(tt.input)
		if err != nil {
			t.Errorf("ParseTimeInput(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeInput(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimeInput_BareSeconds(t *testing.T) {
	got, err := ParseTimeInput("123")
	if err != nil {
		t.Fatalf("ParseTimeInput(123) error = %v", err)
	}
	if got != 123 {
		t.Errorf("ParseTimeInput(123) = %v, want 123", got)
	}
}

func TestParseTimeInput_SecondsOverflow(t *testing.T) {
	_, err := ParseTimeInput("1:60")
	if !errors.Is(err, ErrSecondsRange) {
		t.Errorf("ParseTimeInput(1:60) error = %v, want ErrSecondsRange", err)
	}

	_, err = ParseTimeInput("0:99")
	if !errors.Is(err, ErrSecondsRange) {
		t.Errorf("ParseTimeInput(0:99) error = %v, want ErrSecondsRange", err)
	}
}

func TestParseTimeInput_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		_, err := ParseTimeInput(input)
		if !errors.Is(err, ErrEmpty) {
			t.Errorf("ParseTimeInput(%q) error = %v, want ErrEmpty", input, err)
		}
	}
}

func TestParseTimeInput_Malformed(t *testing.T) {
	for _, input := range []string{"1:2:3", "1.5", "abc", "1:2", "-5", "12:345", ":30", "1:"} {
		_, err := ParseTimeInput(input)
		if !errors.Is(err, ErrFormat) {
			t.Errorf("ParseTimeInput(%q) error = %v, want ErrFormat", input, err)
		}
	}
}

func TestIsWithinDuration(t *testing.T) {
	tests := []struct {
		time     float64
		duration float64
		want     bool
	}{
		{0, 120, true},
		{120, 120, true},
		{121, 120, false},
		{-1, 120, false},
		{0, 0, true},
		{60.5, 120, true},
	}

	for _, tt := range tests {
		if got := IsWithinDuration(tt.time, tt.duration); got != tt.want {
			t.Errorf("IsWithinDuration(%v, %v) = %v, want %v", tt.time, tt.duration, got, tt.want)
		}
	}
}

func TestIsValidRange(t *testing.T) {
	if !IsValidRange(10, 20) {
		t.Error("IsValidRange(10, 20) = false, want true")
	}
	if IsValidRange(10, 10) {
		t.Error("IsValidRange(10, 10) = true, want false")
	}
	if IsValidRange(20, 10) {
		t.Error("IsValidRange(20, 10) = true, want false")
	}
}

func TestValidateTimeValue_Boundaries(t *testing.T) {
	r := Range{Start: 30, End: 60}
	duration := 120.0

	got, ok := ValidateTimeValue(0, FieldStart, r, duration)
	if !ok || got != 0 {
		t.Errorf("ValidateTimeValue(0, start) = %v, %v, want 0, true", got, ok)
	}

	// Start equal to end breaks strict ordering.
	if _, ok := ValidateTimeValue(60, FieldStart, r, duration); ok {
		t.Error("ValidateTimeValue(60, start) accepted, want reject")
	}

	// Beyond the duration ceiling.
	if _, ok := ValidateTimeValue(121, FieldEnd, r, duration); ok {
		t.Error("ValidateTimeValue(121, end) accepted, want reject")
	}

	// End equal to start breaks strict ordering.
	if _, ok := ValidateTimeValue(30, FieldEnd, r, duration); ok {
		t.Error("ValidateTimeValue(30, end) accepted, want reject")
	}

	got, ok = ValidateTimeValue(120, FieldEnd, r, duration)
	if !ok || got != 120 {
		t.Errorf("ValidateTimeValue(120, end) = %v, %v, want 120, true", got, ok)
	}
}

func TestValidateTimeValue_NoClamping(t *testing.T) {
	r := Range{Start: 30, End: 60}

	got, ok := ValidateTimeValue(45.5, FieldStart, r, 120)
	if !ok || got != 45.5 {
		t.Errorf("ValidateTimeValue(45.5, start) = %v, %v, want value returned unchanged", got, ok)
	}
}

func TestAdjustByDelta(t *testing.T) {
	r := Range{Start: 30, End: 60}
	duration := 120.0

	// Crossing below zero is rejected.
	if _, ok := AdjustByDelta(30, -31, FieldStart, r, duration); ok {
		t.Error("AdjustByDelta(30, -31, start) accepted, want reject")
	}

	// Landing exactly on zero is fine.
	got, ok := AdjustByDelta(30, -30, FieldStart, r, duration)
	if !ok || got != 0 {
		t.Errorf("AdjustByDelta(30, -30, start) = %v, %v, want 0, true", got, ok)
	}

	// End past the duration ceiling is rejected.
	if _, ok := AdjustByDelta(60, 61, FieldEnd, r, duration); ok {
		t.Error("AdjustByDelta(60, 61, end) accepted, want reject")
	}

	// Plain one-second nudge.
	got, ok = AdjustByDelta(60, 1, FieldEnd, r, duration)
	if !ok || got != 61 {
		t.Errorf("AdjustByDelta(60, 1, end) = %v, %v, want 61, true", got, ok)
	}

	// Start may not step onto end.
	if _, ok := AdjustByDelta(59, 1, FieldStart, r, duration); ok {
		t.Error("AdjustByDelta(59, 1, start) accepted, want reject")
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{83, "1:23"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{45.9, "0:45"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.seconds); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
