// Package chart is the pure scale-and-layout engine for plant weight
// charts. Given an aggregated day series, reference lines, margins, and an
// observed drawing-surface size, it computes the data-to-pixel coordinate
// transforms and the optional threshold-crossing marker. It performs no
// drawing and holds no state; every render pass recomputes from scratch.
package chart

import (
	"math"
	"time"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
)

// Margins is the space reserved around the drawable area, in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Surface is the observed size of the drawing surface. Either dimension
// may be NaN while the surface has not been measured yet.
type Surface struct {
	Width, Height float64
}

// Options tunes a layout computation.
type Options struct {
	// Nominal is used for any surface dimension that has not been
	// observed yet. A non-finite explicit height also falls back here:
	// the chart fills the available container height instead.
	Nominal Surface
}

// Layout is the computed geometry for one render pass: domain extents on
// both axes plus the sanitized surface and margins the scale functions
// close over.
type Layout struct {
	TimeMin, TimeMax     float64 // unix milliseconds
	WeightMin, WeightMax float64
	Width, Height        float64
	Margins              Margins
}

// Compute derives the layout for one render pass. The time domain spans
// the day points only; the weight domain spans the union of point weights
// and reference-line values so a reference line is never clipped out of
// range. Degenerate domains are repaired so that both spans are strictly
// positive: a non-finite minimum becomes 0, a non-finite or equal maximum
// becomes minimum+1.
func Compute(points []series.DayPoint, refs []series.RefLine, surface Surface, m Margins, opts Options) Layout {
	tMin, tMax := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		v := float64(p.Time.UnixMilli())
		tMin = math.Min(tMin, v)
		tMax = math.Max(tMax, v)
	}

	wMin, wMax := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		wMin = math.Min(wMin, p.Weight)
		wMax = math.Max(wMax, p.Weight)
	}
	for _, r := range refs {
		wMin = math.Min(wMin, r.Value)
		wMax = math.Max(wMax, r.Value)
	}

	tMin, tMax = repairDomain(tMin, tMax)
	wMin, wMax = repairDomain(wMin, wMax)

	width := surface.Width
	if !isFinite(width) {
		width = opts.Nominal.Width
	}
	height := surface.Height
	if !isFinite(height) {
		// Fill the available container height when no explicit
		// height was observed.
		height = opts.Nominal.Height
	}

	return Layout{
		TimeMin:   tMin,
		TimeMax:   tMax,
		WeightMin: wMin,
		WeightMax: wMax,
		Width:     width,
		Height:    height,
		Margins:   sanitizeMargins(m),
	}
}

// repairDomain guarantees finite bounds with a strictly positive span.
func repairDomain(min, max float64) (float64, float64) {
	if !isFinite(min) {
		min = 0
	}
	if !isFinite(max) || max == min {
		max = min + 1
	}
	return min, max
}

// sanitizeMargins zeroes any non-finite margin so the fallback origin of
// the scale functions is always a usable coordinate.
func sanitizeMargins(m Margins) Margins {
	for _, p := range []*float64{&m.Top, &m.Right, &m.Bottom, &m.Left} {
		if !isFinite(*p) {
			*p = 0
		}
	}
	return m
}

func (l Layout) drawableWidth() float64  { return l.Width - l.Margins.Left - l.Margins.Right }
func (l Layout) drawableHeight() float64 { return l.Height - l.Margins.Top - l.Margins.Bottom }

// timeSpan and weightSpan substitute 1 for an exactly-zero span that
// survived domain repair through floating-point cancellation.
func (l Layout) timeSpan() float64   { return span(l.TimeMin, l.TimeMax) }
func (l Layout) weightSpan() float64 { return span(l.WeightMin, l.WeightMax) }

func span(min, max float64) float64 {
	s := max - min
	if s == 0 {
		return 1
	}
	return s
}

// X maps a timestamp to a horizontal pixel coordinate.
func (l Layout) X(t time.Time) float64 {
	return l.XValue(float64(t.UnixMilli()))
}

// XValue maps a time-axis value (unix milliseconds) to a horizontal pixel
// coordinate. A non-finite result falls back to the left margin origin
// rather than corrupting the rendered path.
func (l Layout) XValue(v float64) float64 {
	x := l.Margins.Left + (v-l.TimeMin)/l.timeSpan()*l.drawableWidth()
	if !isFinite(x) {
		return l.Margins.Left
	}
	return x
}

// Y maps a weight to a vertical pixel coordinate. The axis is inverted:
// weight grows upward while pixel rows grow downward. A non-finite result
// falls back to the top margin origin.
func (l Layout) Y(v float64) float64 {
	y := l.Margins.Top + (1-(v-l.WeightMin)/l.weightSpan())*l.drawableHeight()
	if !isFinite(y) {
		return l.Margins.Top
	}
	return y
}

// Marker locates the suggested-watering marker: the earliest day point at
// or below the threshold reference value. The show flag carries the user's
// display preference; a missing threshold line or no qualifying point
// yields no marker, which is not an error.
func Marker(points []series.DayPoint, refs []series.RefLine, show bool) (time.Time, bool) {
	if !show {
		return time.Time{}, false
	}
	var thresh float64
	found := false
	for _, r := range refs {
		if r.Label == series.LabelThresh {
			thresh = r.Value
			found = true
			break
		}
	}
	if !found {
		return time.Time{}, false
	}
	for _, p := range points {
		if p.Weight <= thresh {
			return p.Time, true
		}
	}
	return time.Time{}, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
