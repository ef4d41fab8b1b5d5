package ui

import (
	"fmt"
	"math"
	"strings"

	"codeberg.org/mutker/battmon/internal/window"
	"github.com/charmbracelet/lipgloss"
)

// blocks holds the eighth-height block characters, lowest first.
var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	axisTimeFormat = "15:04:05"
	gutterWidth    = 7
	minPlotWidth   = 10
)

// chartCache draws one buffer as a filled block chart and caches the result
// until the buffer changes or the available width does.
type chartCache struct {
	title  string
	unit   string
	margin float64
	height int
	color  lipgloss.Color
	buf    *window.Buffer[float64]

	cached string
	width  int
	valid  bool
}

func newChart(title, unit string, margin float64, height int, color lipgloss.Color, buf *window.Buffer[float64]) *chartCache {
	return &chartCache{
		title:  title,
		unit:   unit,
		margin: margin,
		height: height,
		color:  color,
		buf:    buf,
	}
}

// render returns the cached drawing, redrawing first if the buffer was
// written to since the last draw.
func (c *chartCache) render(width int) string {
	if c.valid && !c.buf.Dirty() && c.width == width {
		return c.cached
	}

	c.cached = drawChart(c, width)
	c.width = width
	c.valid = true
	c.buf.MarkClean()

	return c.cached
}

// axisRange pads the value range by margin and clamps the floor at zero.
func axisRange(lo, hi, margin float64) (float64, float64) {
	yMin := math.Max(math.Floor(lo-margin), 0)
	yMax := math.Ceil(hi + margin)
	if yMax <= yMin {
		yMax = yMin + 1
	}

	return yMin, yMax
}

// drawChart plots the newest points that fit in width. The value scale
// and the time axis both come from the plotted points only.
func drawChart(c *chartCache, width int) string {
	header := styleSubtitle.Render(c.title)

	points := c.buf.Ascending()
	if len(points) == 0 {
		return header + "\n" + styleMuted.Render("Waiting for samples...")
	}

	plotWidth := max(width-gutterWidth, minPlotWidth)
	if len(points) > plotWidth {
		points = points[len(points)-plotWidth:]
	}

	newest := points[len(points)-1]
	header += styleMuted.Render(fmt.Sprintf("  now %.2f %s", newest.Value, c.unit))

	lo, hi, _ := window.Extent(points)
	from, to, _ := window.Span(points)
	yMin, yMax := axisRange(lo, hi, c.margin)

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	rows := plotRows(values, yMin, yMax, c.height)
	style := lipgloss.NewStyle().Foreground(c.color)

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for i, row := range rows {
		label := ""
		switch i {
		case 0:
			label = fmt.Sprintf("%.0f", yMax)
		case len(rows) - 1:
			label = fmt.Sprintf("%.0f", yMin)
		}
		b.WriteString(styleLabel.Render(fmt.Sprintf("%*s ┤", gutterWidth-2, label)))
		b.WriteString(style.Render(row))
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", gutterWidth))
	b.WriteString(styleLabel.Render(timeAxis(from.Format(axisTimeFormat), to.Format(axisTimeFormat), len(values))))

	return b.String()
}

// plotRows renders values as height rows of block characters, top row
// first. Each column is filled from the bottom in eighths of a row.
func plotRows(values []float64, yMin, yMax float64, height int) []string {
	height = max(height, 1)
	levels := height * len(blocks)

	rows := make([][]rune, height)
	for i := range rows {
		rows[i] = make([]rune, len(values))
	}

	for col, v := range values {
		n := (v - yMin) / (yMax - yMin)
		n = math.Max(0, math.Min(1, n))
		filled := int(math.Round(n * float64(levels)))

		for r := 0; r < height; r++ {
			// r counts from the bottom
			fill := filled - r*len(blocks)
			ch := ' '
			switch {
			case fill >= len(blocks):
				ch = blocks[len(blocks)-1]
			case fill > 0:
				ch = blocks[fill-1]
			}
			rows[height-1-r][col] = ch
		}
	}

	out := make([]string, height)
	for i, row := range rows {
		out[i] = string(row)
	}

	return out
}

// timeAxis spreads the oldest and newest labels across width columns.
func timeAxis(from, to string, width int) string {
	gap := width - len(from) - len(to)
	if gap < 1 {
		return from + " " + to
	}

	return from + strings.Repeat(" ", gap) + to
}
