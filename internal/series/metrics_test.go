package series

import (
	"math"
	"testing"
)

// ============================================================
// Water retained
// ============================================================

func TestWaterRetainedPct(t *testing.T) {
	got := WaterRetainedPct(fp(100), fp(200), fp(150))
	if got == nil || *got != 50 {
		t.Fatalf("expected 50%%, got %v", got)
	}
}

func TestWaterRetainedPctMissingInputs(t *testing.T) {
	if got := WaterRetainedPct(nil, fp(200), fp(150)); got != nil {
		t.Errorf("missing dry anchor should yield nil, got %v", got)
	}
	if got := WaterRetainedPct(fp(100), nil, fp(150)); got != nil {
		t.Errorf("missing max anchor should yield nil, got %v", got)
	}
	if got := WaterRetainedPct(fp(100), fp(200), nil); got != nil {
		t.Errorf("missing current weight should yield nil, got %v", got)
	}
}

func TestWaterRetainedPctDegenerateSpan(t *testing.T) {
	if got := WaterRetainedPct(fp(200), fp(200), fp(200)); got != nil {
		t.Errorf("zero capacity span should yield nil, got %v", got)
	}
	if got := WaterRetainedPct(fp(300), fp(200), fp(250)); got != nil {
		t.Errorf("inverted anchors should yield nil, got %v", got)
	}
	if got := WaterRetainedPct(fp(math.NaN()), fp(200), fp(150)); got != nil {
		t.Errorf("non-finite anchor should yield nil, got %v", got)
	}
}

// ============================================================
// Calibration
// ============================================================

func TestCalibrationFromHistory(t *testing.T) {
	records := []Record{
		weighing("2024-03-05T10:00", 120),
		watering("2024-03-04T10:00", 80),
		weighing("2024-03-03T10:00", 95),
		watering("2024-03-02T10:00", 60),
	}
	minDry, maxWater := Calibration(records)
	if minDry == nil || *minDry != 95 {
		t.Errorf("expected min dry 95, got %v", minDry)
	}
	if maxWater == nil || *maxWater != 80 {
		t.Errorf("expected max water 80, got %v", maxWater)
	}
}

func TestCalibrationIgnoresHistoryBeforeReset(t *testing.T) {
	records := []Record{
		weighing("2024-03-05T10:00", 120),
		reset("2024-03-03T10:00", 90, 500),
		weighing("2024-03-02T10:00", 10), // pre-reset, must not win
		watering("2024-03-01T10:00", 999),
	}
	minDry, maxWater := Calibration(records)
	if minDry == nil || *minDry != 120 {
		t.Errorf("expected min dry 120, got %v", minDry)
	}
	// The repotting row itself may be the only record carrying a water
	// amount, so its quantity counts; the earlier 999 does not.
	if maxWater == nil || *maxWater != 500 {
		t.Errorf("expected max water 500 from the repotting row, got %v", maxWater)
	}
}

func TestCalibrationWetWeightsAreNotDry(t *testing.T) {
	// A history of waterings only: the after-watering weights are
	// saturated and must not become the min-dry anchor.
	records := []Record{
		{MeasuredAt: "2024-03-01T10:00", WaterAdded: fp(400), AfterWater: fp(1400)},
		{MeasuredAt: "2024-03-05T10:00", WaterAdded: fp(380), AfterWater: fp(1390)},
	}
	minDry, maxWater := Calibration(records)
	if minDry != nil {
		t.Errorf("no measured weight in history, expected nil min dry, got %v", minDry)
	}
	if maxWater == nil || *maxWater != 400 {
		t.Errorf("expected max water 400, got %v", maxWater)
	}
}

func TestCalibrationEmptyHistory(t *testing.T) {
	minDry, maxWater := Calibration(nil)
	if minDry != nil || maxWater != nil {
		t.Fatalf("expected nil anchors, got %v / %v", minDry, maxWater)
	}
}

func TestEffectiveAttributesUserValuesWin(t *testing.T) {
	records := []Record{
		weighing("2024-03-01T10:00", 700),
		watering("2024-03-02T10:00", 300),
	}
	attrs := EffectiveAttributes(Attributes{
		MinDryWeight:   fp(800),
		MaxWaterWeight: fp(400),
		ThresholdPct:   fp(25),
	}, records)
	if attrs.MinDryWeight == nil || *attrs.MinDryWeight != 800 {
		t.Errorf("history overrode the user's min dry: %v", attrs.MinDryWeight)
	}
	if attrs.MaxWaterWeight == nil || *attrs.MaxWaterWeight != 400 {
		t.Errorf("history overrode the user's max water: %v", attrs.MaxWaterWeight)
	}
}

func TestEffectiveAttributesFillsBlanks(t *testing.T) {
	records := []Record{
		weighing("2024-03-01T10:00", 700),
		watering("2024-03-02T10:00", 300),
	}
	attrs := EffectiveAttributes(Attributes{MinDryWeight: fp(800), ThresholdPct: fp(25)}, records)
	if attrs.MinDryWeight == nil || *attrs.MinDryWeight != 800 {
		t.Errorf("user min dry lost: %v", attrs.MinDryWeight)
	}
	if attrs.MaxWaterWeight == nil || *attrs.MaxWaterWeight != 300 {
		t.Errorf("expected max water 300 from history, got %v", attrs.MaxWaterWeight)
	}
	if attrs.ThresholdPct == nil || *attrs.ThresholdPct != 25 {
		t.Errorf("threshold must pass through untouched: %v", attrs.ThresholdPct)
	}
}

// ============================================================
// Watering frequency
// ============================================================

func TestWateringFrequencyMedian(t *testing.T) {
	records := []Record{
		watering("2024-03-01T10:00", 100),
		watering("2024-03-04T10:00", 100), // +3d
		watering("2024-03-11T10:00", 100), // +7d
		watering("2024-03-14T10:00", 100), // +3d
	}
	days, ok := WateringFrequencyDays(records)
	if !ok {
		t.Fatal("expected a frequency estimate")
	}
	if days != 3 {
		t.Errorf("median of {3,7,3} should be 3, got %d", days)
	}
}

func TestWateringFrequencyNeedsTwoEvents(t *testing.T) {
	if _, ok := WateringFrequencyDays([]Record{watering("2024-03-01T10:00", 100)}); ok {
		t.Error("one event is not enough for an interval")
	}
	if _, ok := WateringFrequencyDays(nil); ok {
		t.Error("no events, no estimate")
	}
}

func TestWateringFrequencySinceReset(t *testing.T) {
	records := []Record{
		watering("2024-03-10T10:00", 100),
		reset("2024-03-05T10:00", 90, 50),
		watering("2024-03-03T10:00", 100),
		watering("2024-03-01T10:00", 100),
	}
	if _, ok := WateringFrequencyDays(records); ok {
		t.Error("only one event since the reset, expected no estimate")
	}
}

func TestWateringFrequencyIgnoresWeighingsAndResets(t *testing.T) {
	records := []Record{
		weighing("2024-03-01T10:00", 100),
		watering("2024-03-02T10:00", 100),
		weighing("2024-03-03T10:00", 95),
		watering("2024-03-06T10:00", 100),
	}
	days, ok := WateringFrequencyDays(records)
	if !ok || days != 4 {
		t.Fatalf("expected 4-day cycle, got %d (ok=%v)", days, ok)
	}
}
