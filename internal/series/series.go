// Package series turns a raw, noisy history of weight measurements for a
// single plant into a clean chronological series suitable for charting,
// plus the horizontal reference-line values derived from the plant's
// attributes. Everything here is pure: no I/O, no errors — bad records
// are dropped, bad numbers are ignored.
package series

import (
	"math"
	"sort"
	"time"
)

// Record is one raw observation as stored for a plant. Every value field is
// independently optional; MeasuredAt is the raw timestamp string in either
// the local plain format or full RFC 3339.
type Record struct {
	MeasuredAt   string
	Weight       *float64 // generic measured weight, grams
	AfterWater   *float64 // weight right after watering
	BeforeWater  *float64 // weight right before watering
	WaterAdded   *float64 // water poured in, grams
	LossDayPct   *float64
	LossTotalPct *float64
}

// DayPoint is the single representative sample for one calendar day.
type DayPoint struct {
	Time   time.Time
	Weight float64
	Label  string // day key, 2006-01-02
}

// RefLine is a horizontal constant-value marker drawn for context.
type RefLine struct {
	Label string
	Value float64
}

// Reference-line labels, in emission order.
const (
	LabelDry    = "Dry"
	LabelMax    = "Max"
	LabelThresh = "Thresh"
)

// Attributes holds the static per-plant scalars reference lines derive
// from. Each field is independently optional.
type Attributes struct {
	MinDryWeight   *float64 // grams, pot + soil + plant completely dry
	MaxWaterWeight *float64 // grams, weight at full water capacity
	ThresholdPct   *float64 // recommended retention threshold, percent
}

const dayKeyLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a raw measurement timestamp. The second return is false
// when the string is empty or matches none of the accepted layouts; such a
// record contributes nothing to the series.
func ParseTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsReset reports whether r records a physical baseline reset (e.g.
// repotting): a before-weight and an added quantity with no after-weight
// and no derived loss metric. A reset invalidates all prior history.
func IsReset(r Record) bool {
	return r.BeforeWater != nil && r.WaterAdded != nil &&
		r.AfterWater == nil && r.LossDayPct == nil && r.LossTotalPct == nil
}

// pointWeight picks the chartable weight of a record: after-watering weight
// when present, else the generic measured weight. Only finite values
// qualify; an explicit 0 is a valid measurement, not an absent one.
func pointWeight(r Record) (float64, bool) {
	if r.AfterWater != nil && isFinite(*r.AfterWater) {
		return *r.AfterWater, true
	}
	if r.Weight != nil && isFinite(*r.Weight) {
		return *r.Weight, true
	}
	return 0, false
}

// Aggregate collapses records into at most one DayPoint per calendar day,
// ascending by day. Input order does not matter: records at or before the
// most recent reset are discarded, and for each remaining day the
// chronologically latest record with a finite weight wins.
func Aggregate(records []Record) []DayPoint {
	type stamped struct {
		t time.Time
		w float64
	}

	reset, hasReset := lastResetTime(records)

	best := make(map[string]stamped)
	for _, r := range records {
		t, ok := ParseTime(r.MeasuredAt)
		if !ok {
			continue
		}
		if hasReset && !t.After(reset) {
			continue
		}
		w, ok := pointWeight(r)
		if !ok {
			continue
		}
		key := t.Format(dayKeyLayout)
		if cur, seen := best[key]; !seen || t.After(cur.t) {
			best[key] = stamped{t: t, w: w}
		}
	}

	points := make([]DayPoint, 0, len(best))
	for key, s := range best {
		points = append(points, DayPoint{Time: s.t, Weight: s.w, Label: key})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})
	return points
}

// WindowDays keeps only the points inside the trailing n-day window,
// anchored at the most recent point. n <= 0 keeps everything.
func WindowDays(points []DayPoint, n int) []DayPoint {
	if n <= 0 || len(points) == 0 {
		return points
	}
	cutoff := points[len(points)-1].Time.AddDate(0, 0, -(n - 1)).Format(dayKeyLayout)
	for i, p := range points {
		if p.Label >= cutoff {
			return points[i:]
		}
	}
	return points
}

func lastResetTime(records []Record) (time.Time, bool) {
	var reset time.Time
	var found bool
	for _, r := range records {
		if !IsReset(r) {
			continue
		}
		t, ok := ParseTime(r.MeasuredAt)
		if !ok {
			continue
		}
		if !found || t.After(reset) {
			reset = t
			found = true
		}
	}
	return reset, found
}

// ReferenceLines builds the 0–3 reference lines for a plant, in fixed
// order: Dry, Max, Thresh. The threshold needs all three attributes; it is
// clamped into the dry/max interval because a stored percentage outside
// [0,100] is tolerated but an out-of-physical-range weight would mislead
// the chart reader. Inverted anchors (dry > max) swap the clamp bounds.
func ReferenceLines(a Attributes) []RefLine {
	var lines []RefLine

	dry, hasDry := finiteVal(a.MinDryWeight)
	max, hasMax := finiteVal(a.MaxWaterWeight)
	pct, hasPct := finiteVal(a.ThresholdPct)

	if hasDry {
		lines = append(lines, RefLine{Label: LabelDry, Value: dry})
	}
	if hasMax {
		lines = append(lines, RefLine{Label: LabelMax, Value: max})
	}
	if hasDry && hasMax && hasPct {
		thresh := dry + (max-dry)*pct/100
		lo, hi := dry, max
		if lo > hi {
			lo, hi = hi, lo
		}
		if thresh < lo {
			thresh = lo
		}
		if thresh > hi {
			thresh = hi
		}
		lines = append(lines, RefLine{Label: LabelThresh, Value: thresh})
	}
	return lines
}

func finiteVal(p *float64) (float64, bool) {
	if p == nil || !isFinite(*p) {
		return 0, false
	}
	return *p, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
