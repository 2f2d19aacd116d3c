package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

type jsonExport struct {
	ExportedAt   string            `json:"exported_at"`
	Count        int               `json:"count"`
	Measurements []jsonMeasurement `json:"measurements"`
}

type jsonMeasurement struct {
	ID           int64    `json:"id"`
	Plant        string   `json:"plant"`
	PlantID      int64    `json:"plant_id"`
	MeasuredAt   string   `json:"measured_at"`
	Weight       *float64 `json:"measured_weight_g,omitempty"`
	AfterWater   *float64 `json:"after_water_weight_g,omitempty"`
	BeforeWater  *float64 `json:"before_water_weight_g,omitempty"`
	WaterAdded   *float64 `json:"water_added_g,omitempty"`
	LossDayPct   *float64 `json:"loss_day_pct,omitempty"`
	LossTotalPct *float64 `json:"loss_total_pct,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

func ToJSON(measurements []store.Measurement, plants map[int64]*store.Plant, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(measurements),
	}

	for _, m := range measurements {
		plantName := "Unknown"
		if p, ok := plants[m.PlantID]; ok {
			plantName = p.Name
		}

		export.Measurements = append(export.Measurements, jsonMeasurement{
			ID:           m.ID,
			Plant:        plantName,
			PlantID:      m.PlantID,
			MeasuredAt:   m.MeasuredAt,
			Weight:       m.Weight,
			AfterWater:   m.AfterWater,
			BeforeWater:  m.BeforeWater,
			WaterAdded:   m.WaterAdded,
			LossDayPct:   m.LossDayPct,
			LossTotalPct: m.LossTotalPct,
			Notes:        m.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
