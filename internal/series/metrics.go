package series

import "math"

// WaterRetainedPct estimates how much of the plant's water capacity is
// still held: (current − dry) / (max − dry) × 100. Returns nil when either
// anchor is missing, the capacity span is degenerate, or the current weight
// is unknown.
func WaterRetainedPct(dry, max *float64, current *float64) *float64 {
	d, okD := finiteVal(dry)
	m, okM := finiteVal(max)
	c, okC := finiteVal(current)
	if !okD || !okM || !okC {
		return nil
	}
	span := m - d
	if span <= 0 {
		return nil
	}
	pct := round2((c - d) / span * 100)
	return &pct
}

// Calibration derives the reference anchors from the measurement history
// itself: the minimum generic measured weight strictly after the most
// recent reset, and the maximum water quantity added at or after it. The
// min scan ignores after-watering weights — those are wet, not dry. The
// max scan includes the reset record itself, since the repotting row may
// be the only one holding the water amount. Either result may be nil when
// no qualifying record exists.
func Calibration(records []Record) (minDry, maxWater *float64) {
	reset, hasReset := lastResetTime(records)

	for _, r := range records {
		t, ok := ParseTime(r.MeasuredAt)
		if !ok {
			continue
		}
		if r.Weight != nil && isFinite(*r.Weight) && (!hasReset || t.After(reset)) {
			if minDry == nil || *r.Weight < *minDry {
				v := *r.Weight
				minDry = &v
			}
		}
		if r.WaterAdded != nil && isFinite(*r.WaterAdded) && (!hasReset || !t.Before(reset)) {
			if maxWater == nil || *r.WaterAdded > *maxWater {
				v := *r.WaterAdded
				maxWater = &v
			}
		}
	}
	return minDry, maxWater
}

// EffectiveAttributes fills any anchor the user left blank from the
// measurement history. User-entered values always win; the threshold
// percentage has no measured counterpart and passes through untouched.
func EffectiveAttributes(a Attributes, records []Record) Attributes {
	if a.MinDryWeight != nil && a.MaxWaterWeight != nil {
		return a
	}
	minDry, maxWater := Calibration(records)
	if a.MinDryWeight == nil {
		a.MinDryWeight = minDry
	}
	if a.MaxWaterWeight == nil {
		a.MaxWaterWeight = maxWater
	}
	return a
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
