// Package timeline maps video time onto a fixed-height strip of terminal
// cells and back, draws highlight bands with a score-weighted shade ramp, and
// resolves pointer positions to highlights or raw timeline times. Columns are
// the pixel axis; one mapping is shared by drawing and hit-testing.
package timeline

import (
	"fmt"

	"github.com/cliplight/cliplight/internal/session"
	"github.com/cliplight/cliplight/internal/timecode"
)

const (
	// Height is the number of rows in the rendered strip.
	Height = 6

	// LabelRow carries the tick time labels, ScoreRow the per-highlight
	// score strip, BandTop..BandBottom the highlight bands, RulerRow the
	// baseline with tick marks.
	LabelRow   = 0
	ScoreRow   = 1
	BandTop    = 2
	BandBottom = 4
	RulerRow   = 5

	// MinLabelCells is the band width from which a clipped title label is
	// drawn inside the band.
	MinLabelCells = 8

	// longTickThreshold switches the tick interval from 30s to 60s.
	longTickThreshold = 300.0
)

// Layout is the single time-to-column mapping for one rendered frame.
type Layout struct {
	Width    int
	Duration float64
}

// PixelX maps a time in seconds to a column. The result is the raw
// proportional mapping and can equal Width for t == Duration; drawing code
// clamps, hit-testing never needs to.
func (l Layout) PixelX(t float64) int {
	if l.Duration <= 0 || l.Width <= 0 {
		return 0
	}
	return int(t / l.Duration * float64(l.Width))
}

// TimeAt is the inverse mapping from a column back to seconds.
func (l Layout) TimeAt(x int) float64 {
	if l.Width <= 0 {
		return 0
	}
	return float64(x) / float64(l.Width) * l.Duration
}

// TickInterval returns the tick spacing policy: 60-second ticks for videos
// longer than five minutes, 30-second ticks otherwise.
func TickInterval(duration float64) float64 {
	if duration > longTickThreshold {
		return 60
	}
	return 30
}

// Ticks returns the tick times from zero through the last whole interval
// inside the duration, inclusive.
func (l Layout) Ticks() []float64 {
	if l.Duration <= 0 {
		return []float64{0}
	}

	interval := TickInterval(l.Duration)
	n := int(l.Duration / interval)

	ticks := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, float64(i)*interval)
	}
	return ticks
}

// HighlightAt returns the index of the first highlight, in declaration
// order, whose original [start, end] range contains the time at column x.
// Returns -1 when the column falls on bare timeline.
func (l Layout) HighlightAt(x int, highlights []session.SelectedHighlight) int {
	t := l.TimeAt(x)
	for i := range highlights {
		if t >= highlights[i].Start && t <= highlights[i].End {
			return i
		}
	}
	return -1
}

// Hit is the outcome of resolving a pointer position against the strip.
type Hit struct {
	// Index is the highlight hit, or -1 for bare timeline.
	Index int
	// Time is the timeline time under the pointer.
	Time float64
	// OnBand reports whether the pointer was vertically inside the band
	// region; hover tooltips require a band hit, clicks do not.
	OnBand bool
}

// HitTest resolves a pointer cell to a highlight or a raw timeline position.
func (l Layout) HitTest(x, y int, highlights []session.SelectedHighlight) Hit {
	hit := Hit{
		Index:  l.HighlightAt(x, highlights),
		Time:   l.TimeAt(x),
		OnBand: y >= ScoreRow && y <= BandBottom,
	}
	return hit
}

// Tooltip is the hover card content for a highlight.
type Tooltip struct {
	Title        string
	Description  string
	ScorePercent int
	TimeRange    string
	// AnchorX is the column of the highlight's midpoint, where the card is
	// horizontally anchored.
	AnchorX int
}

// TooltipFor builds the hover card for a highlight. Visibility is the
// caller's concern; the content is a pure function of the highlight.
func (l Layout) TooltipFor(h *session.SelectedHighlight) Tooltip {
	mid := h.Start + (h.End-h.Start)/2
	return Tooltip{
		Title:        h.Title,
		Description:  h.Description,
		ScorePercent: int(h.Score*100 + 0.5),
		TimeRange:    fmt.Sprintf("%s – %s", timecode.FormatTime(h.Start), timecode.FormatTime(h.End)),
		AnchorX:      l.PixelX(mid),
	}
}
