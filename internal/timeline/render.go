package timeline

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cliplight/cliplight/internal/session"
	"github.com/cliplight/cliplight/internal/timecode"
)

// Frame is everything one repaint needs. Every call to Render draws the full
// strip from scratch; there is no incremental state to go stale.
type Frame struct {
	Layout      Layout
	Highlights  []session.SelectedHighlight
	CurrentTime float64
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellTickLabel
	cellRuler
	cellTick
	cellScore
	cellBand
	cellBandLabel
	cellBandLabelCont
	cellPlayhead
)

type cell struct {
	r        rune
	kind     cellKind
	score    float64
	selected bool
}

var (
	tickLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	rulerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	playheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Score shades stand in for canvas opacity: a higher score draws a
	// brighter band.
	scoreShades = []string{"17", "18", "19", "20", "21"}

	selectedBandColor = lipgloss.Color("33")
	bandLabelFg       = lipgloss.Color("15")
)

func scoreShade(score float64) lipgloss.Color {
	idx := int(score * float64(len(scoreShades)))
	if idx >= len(scoreShades) {
		idx = len(scoreShades) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return lipgloss.Color(scoreShades[idx])
}

// buildGrid lays the frame out as a Height x Width cell grid. Highlights are
// drawn in declaration order, then the playhead over everything.
func buildGrid(f Frame) [][]cell {
	width := f.Layout.Width
	if width <= 0 {
		return nil
	}

	grid := make([][]cell, Height)
	for row := range grid {
		grid[row] = make([]cell, width)
		for x := range grid[row] {
			grid[row][x] = cell{r: ' ', kind: cellEmpty}
		}
	}

	for x := 0; x < width; x++ {
		grid[RulerRow][x] = cell{r: '─', kind: cellRuler}
	}

	for _, tick := range f.Layout.Ticks() {
		x := f.Layout.PixelX(tick)
		if x >= width {
			x = width - 1
		}
		grid[RulerRow][x] = cell{r: '┴', kind: cellTick}
		writeLabel(grid[LabelRow], x, timecode.FormatTime(tick), cellTickLabel)
	}

	for i := range f.Highlights {
		drawBand(grid, f.Layout, &f.Highlights[i])
	}

	if f.CurrentTime > 0 {
		x := f.Layout.PixelX(f.CurrentTime)
		if x >= width {
			x = width - 1
		}
		grid[LabelRow][x] = cell{r: '▼', kind: cellPlayhead}
		for row := ScoreRow; row < Height; row++ {
			grid[row][x] = cell{r: '│', kind: cellPlayhead}
		}
	}

	return grid
}

func drawBand(grid [][]cell, l Layout, h *session.SelectedHighlight) {
	width := l.Width

	startX := l.PixelX(h.Start)
	endX := l.PixelX(h.End)
	if endX > width {
		endX = width
	}
	if startX >= width {
		return
	}
	// A highlight always occupies at least one column.
	if endX <= startX {
		endX = startX + 1
	}

	for x := startX; x < endX && x < width; x++ {
		grid[ScoreRow][x] = cell{r: '▄', kind: cellScore, score: h.Score, selected: h.Selected}
		for row := BandTop; row <= BandBottom; row++ {
			grid[row][x] = cell{r: '█', kind: cellBand, score: h.Score, selected: h.Selected}
		}
	}

	// Selected bands get a visible edge on every band row.
	if h.Selected {
		for row := BandTop; row <= BandBottom; row++ {
			grid[row][startX] = cell{r: '▐', kind: cellBand, score: h.Score, selected: true}
			if endX-1 < width {
				grid[row][endX-1] = cell{r: '▌', kind: cellBand, score: h.Score, selected: true}
			}
		}
	}

	// Bands wide enough carry a clipped title label. Clipping counts display
	// cells, not bytes, so multi-byte and double-width runes survive intact.
	bandWidth := endX - startX
	if bandWidth >= MinLabelCells {
		label := runewidth.Truncate(h.Title, bandWidth-2, "")
		mid := (BandTop + BandBottom) / 2
		x := startX + 1
		for _, r := range label {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if x+w > endX-1 || x+w > width {
				break
			}
			grid[mid][x] = cell{r: r, kind: cellBandLabel, score: h.Score, selected: h.Selected}
			// A double-width rune spills into the next cell; mark it as a
			// continuation so the renderer emits nothing for it.
			for k := 1; k < w; k++ {
				grid[mid][x+k] = cell{kind: cellBandLabelCont, score: h.Score, selected: h.Selected}
			}
			x += w
		}
	}
}

func writeLabel(row []cell, x int, label string, kind cellKind) {
	for i, r := range []rune(label) {
		if x+i >= len(row) {
			break
		}
		row[x+i] = cell{r: r, kind: kind}
	}
}

// Render paints the frame as Height terminal rows.
func Render(f Frame) string {
	grid := buildGrid(f)
	rows := make([]string, 0, len(grid))

	for _, line := range grid {
		var b strings.Builder
		for _, c := range line {
			if c.kind == cellBandLabelCont {
				continue
			}
			b.WriteString(styleFor(c).Render(string(c.r)))
		}
		rows = append(rows, b.String())
	}

	return strings.Join(rows, "\n")
}

func styleFor(c cell) lipgloss.Style {
	switch c.kind {
	case cellTickLabel:
		return tickLabelStyle
	case cellRuler, cellTick:
		return rulerStyle
	case cellPlayhead:
		return playheadStyle
	case cellScore, cellBand:
		if c.selected {
			return lipgloss.NewStyle().Foreground(selectedBandColor).Bold(true)
		}
		return lipgloss.NewStyle().Foreground(scoreShade(c.score))
	case cellBandLabel:
		bg := scoreShade(c.score)
		if c.selected {
			bg = selectedBandColor
		}
		return lipgloss.NewStyle().Foreground(bandLabelFg).Background(bg).Bold(true)
	default:
		return lipgloss.NewStyle()
	}
}

var (
	tooltipBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	tooltipTitleStyle = lipgloss.NewStyle().Bold(true)
	tooltipScoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	tooltipMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderTooltip paints the hover card, indented so its center sits near the
// highlight midpoint without running off either edge.
func RenderTooltip(tt Tooltip, width int) string {
	header := tt.Title + "  " + tooltipScoreStyle.Render(strconv.Itoa(tt.ScorePercent)+"%")

	body := tooltipTitleStyle.Render(header)
	if tt.Description != "" {
		body += "\n" + tt.Description
	}
	body += "\n" + tooltipMetaStyle.Render(tt.TimeRange)

	box := tooltipBoxStyle.Render(body)

	boxWidth := lipgloss.Width(box)
	indent := tt.AnchorX - boxWidth/2
	if indent+boxWidth > width {
		indent = width - boxWidth
	}
	if indent < 0 {
		indent = 0
	}

	pad := strings.Repeat(" ", indent)
	lines := strings.Split(box, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
