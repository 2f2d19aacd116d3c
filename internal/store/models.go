package store

import (
	"time"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
)

type Location struct {
	ID        int64
	Name      string
	Notes     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Plant struct {
	ID         int64
	Name       string
	Species    string
	Notes      string
	LocationID *int64
	Color      string

	// Reference attributes, each independently optional.
	MinDryWeight   *float64 // grams
	MaxWaterWeight *float64 // grams
	ThresholdPct   *float64 // recommended retention threshold, percent

	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attributes returns the plant's reference anchors in the aggregator's
// shape. Unset anchors stay nil; callers that want history-derived
// fallbacks pass the result through series.EffectiveAttributes.
func (p *Plant) Attributes() series.Attributes {
	return series.Attributes{
		MinDryWeight:   p.MinDryWeight,
		MaxWaterWeight: p.MaxWaterWeight,
		ThresholdPct:   p.ThresholdPct,
	}
}

// Measurement is one raw observation for a plant. All value columns are
// independently nullable; MeasuredAt keeps the raw timestamp string (local
// plain format or RFC 3339) — parsing belongs to the series aggregator.
type Measurement struct {
	ID           int64
	PlantID      int64
	MeasuredAt   string
	Weight       *float64
	AfterWater   *float64
	BeforeWater  *float64
	WaterAdded   *float64
	LossDayPct   *float64
	LossTotalPct *float64
	Notes        string
	CreatedAt    time.Time
}

type Setting struct {
	Key   string
	Value string
}
