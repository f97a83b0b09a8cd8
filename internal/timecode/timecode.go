// Package timecode contains the pure time arithmetic used by the highlight
// editor: parsing typed time input, bounds checks against the video duration,
// and validated start/end adjustments. All values are seconds.
package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrEmpty        = errors.New("Time cannot be empty")
	ErrSecondsRange = errors.New("Seconds must be less than 60")
	ErrFormat       = errors.New(`Invalid time format. Use "m:ss" or seconds`)
)

// Field identifies which bound of a range is being edited.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

func (f Field) String() string {
	if f == FieldStart {
		return "start"
	}
	return "end"
}

// Range is a highlight's current effective start/end in seconds.
type Range struct {
	Start float64
	End   float64
}

var (
	colonForm   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	secondsForm = regexp.MustCompile(`^(\d+)$`)
)

// ParseTimeInput parses typed time text into seconds. Accepted forms are
// "m:ss" / "mm:ss" (seconds component below 60) and bare integer seconds.
func ParseTimeInput(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrEmpty
	}

	if m := colonForm.FindStringSubmatch(s); m != nil {
		mins, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, ErrFormat
		}
		secs, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, ErrFormat
		}
		if secs >= 60 {
			return 0, ErrSecondsRange
		}
		return float64(mins*60 + secs), nil
	}

	if m := secondsForm.FindStringSubmatch(s); m != nil {
		secs, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, ErrFormat
		}
		return float64(secs), nil
	}

	return 0, ErrFormat
}

// IsWithinDuration reports whether t lies in [0, duration]. The duration
// itself is valid: a zero-length video still accepts t=0.
func IsWithinDuration(t, duration float64) bool {
	return t >= 0 && t <= duration
}

// IsValidRange reports whether start strictly precedes end. Equal bounds are
// invalid; a zero-length highlight cannot be exported.
func IsValidRange(start, end float64) bool {
	return start < end
}

// ValidateTimeValue checks a candidate value for one bound of a range while
// the other bound is held fixed. It accepts or rejects, never clamps: the
// returned value is newTime unchanged, with ok=false when the candidate is
// outside [0, duration] or would break strict start < end ordering.
func ValidateTimeValue(newTime float64, field Field, r Range, duration float64) (float64, bool) {
	if !IsWithinDuration(newTime, duration) {
		return 0, false
	}

	if field == FieldStart {
		if !IsValidRange(newTime, r.End) {
			return 0, false
		}
	} else {
		if !IsValidRange(r.Start, newTime) {
			return 0, false
		}
	}

	return newTime, true
}

// AdjustByDelta applies a stepper nudge to one bound and validates the
// result. ok=false means the caller must leave the prior value unchanged.
func AdjustByDelta(current, delta float64, field Field, r Range, duration float64) (float64, bool) {
	return ValidateTimeValue(current+delta, field, r, duration)
}

// FormatTime renders seconds as "m:ss", or "h:mm:ss" from one hour up.
func FormatTime(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
