package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/chart"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
)

// Cell-space margins for the full-size detail chart. The left margin holds
// the weight-axis labels, the bottom row holds the time-axis labels.
const (
	chartMarginTop    = 1
	chartMarginRight  = 9
	chartMarginBottom = 2
	chartMarginLeft   = 7
)

// renderChart draws the day series, reference lines, and the optional
// threshold-crossing marker onto a rune grid sized width×height cells. The
// layout engine does all coordinate math; this function only quantizes to
// cells and places glyphs. It assumes the caller already handled the
// insufficient-data state (fewer than two points).
func renderChart(points []series.DayPoint, refs []series.RefLine, width, height int, showMarker bool) string {
	width = max(width, 24)
	height = max(height, 8)

	margins := chart.Margins{
		Top:    chartMarginTop,
		Right:  chartMarginRight,
		Bottom: chartMarginBottom,
		Left:   chartMarginLeft,
	}
	surface := chart.Surface{Width: float64(width - 1), Height: float64(height - 1)}
	l := chart.Compute(points, refs, surface, margins, chart.Options{
		Nominal: chart.Surface{Width: float64(width - 1), Height: float64(height - 1)},
	})

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	left := chartMarginLeft
	right := width - 1 - chartMarginRight
	top := chartMarginTop
	bottom := height - 1 - chartMarginBottom

	// Reference lines first so the data path draws over them.
	for _, r := range refs {
		y := cellY(l, r.Value, height)
		if y < top || y > bottom {
			continue
		}
		for x := left; x <= right; x++ {
			grid[y][x] = '┄'
		}
		placeText(grid[y], right+2, r.Label+" "+formatGrams(r.Value))
	}

	// Threshold-crossing marker: a vertical line under the path.
	if t, ok := chart.Marker(points, refs, showMarker); ok {
		x := cellX(l, t, width)
		if x >= left && x <= right {
			for y := top; y <= bottom; y++ {
				if grid[y][x] == ' ' {
					grid[y][x] = '╵'
				}
			}
			grid[top][x] = '▾'
		}
	}

	// Path segments between consecutive points, then the points on top.
	for i := 1; i < len(points); i++ {
		x0, y0 := cellX(l, points[i-1].Time, width), cellY(l, points[i-1].Weight, height)
		x1, y1 := cellX(l, points[i].Time, width), cellY(l, points[i].Weight, height)
		drawSegment(grid, x0, y0, x1, y1)
	}
	for _, p := range points {
		x, y := cellX(l, p.Time, width), cellY(l, p.Weight, height)
		if y >= 0 && y < height && x >= 0 && x < width {
			grid[y][x] = '●'
		}
	}

	// Axes and labels.
	for y := top; y <= bottom; y++ {
		if grid[y][left-1] == ' ' {
			grid[y][left-1] = '│'
		}
	}
	for x := left - 1; x <= right; x++ {
		if grid[bottom+1][x] == ' ' {
			grid[bottom+1][x] = '─'
		}
	}
	grid[bottom+1][left-1] = '└'

	placeText(grid[top], 0, fmt.Sprintf("%6.0f", l.WeightMax))
	placeText(grid[bottom], 0, fmt.Sprintf("%6.0f", l.WeightMin))
	if len(points) > 0 {
		first := points[0].Time.Format("Jan 02")
		last := points[len(points)-1].Time.Format("Jan 02")
		placeText(grid[height-1], left-1, first)
		placeText(grid[height-1], max(left, right-len(last)+1), last)
	}

	rows := make([]string, height)
	for y, line := range grid {
		rows[y] = strings.TrimRight(string(line), " ")
	}
	return strings.Join(rows, "\n")
}

func cellX(l chart.Layout, t time.Time, width int) int {
	return clampCell(int(math.Round(l.X(t))), 0, width-1)
}

func cellY(l chart.Layout, v float64, height int) int {
	return clampCell(int(math.Round(l.Y(v))), 0, height-1)
}

func clampCell(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// drawSegment rasterizes a line between two cells by stepping along the
// longer axis.
func drawSegment(grid [][]rune, x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			continue
		}
		if grid[y][x] == ' ' || grid[y][x] == '┄' || grid[y][x] == '╵' {
			grid[y][x] = '·'
		}
	}
}

func placeText(row []rune, x int, s string) {
	for i, r := range []rune(s) {
		if x+i < 0 || x+i >= len(row) {
			return
		}
		row[x+i] = r
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
