package series

import (
	"math"
	"sort"
	"time"
)

// IsWatering reports whether r records a watering event: water was added
// and no plain weighing was taken (an after-watering weight may still be
// present). Reset records also carry water but mark a baseline change, not
// a watering.
func IsWatering(r Record) bool {
	if IsReset(r) {
		return false
	}
	return r.WaterAdded != nil && isFinite(*r.WaterAdded) && *r.WaterAdded > 0 &&
		r.Weight == nil
}

// WateringFrequencyDays estimates how often the plant gets watered as the
// median interval, in whole days, between consecutive watering events since
// the most recent reset. Needs at least two events; the second return is
// false otherwise.
func WateringFrequencyDays(records []Record) (int, bool) {
	reset, hasReset := lastResetTime(records)

	var events []time.Time
	for _, r := range records {
		if !IsWatering(r) {
			continue
		}
		t, ok := ParseTime(r.MeasuredAt)
		if !ok {
			continue
		}
		if hasReset && !t.After(reset) {
			continue
		}
		events = append(events, t)
	}
	if len(events) < 2 {
		return 0, false
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Before(events[j]) })

	intervals := make([]float64, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		intervals = append(intervals, events[i].Sub(events[i-1]).Hours()/24)
	}
	sort.Float64s(intervals)

	var median float64
	n := len(intervals)
	if n%2 == 1 {
		median = intervals[n/2]
	} else {
		median = (intervals[n/2-1] + intervals[n/2]) / 2
	}
	return int(math.Round(median)), true
}
