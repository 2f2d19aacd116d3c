package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

func ToCSV(measurements []store.Measurement, plants map[int64]*store.Plant, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{"ID", "Plant", "Measured At", "Weight (g)", "After Watering (g)",
		"Before Watering (g)", "Water Added (g)", "Day Loss %", "Total Loss %", "Notes"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range measurements {
		plantName := "Unknown"
		if p, ok := plants[m.PlantID]; ok {
			plantName = p.Name
		}

		row := []string{
			fmt.Sprintf("%d", m.ID),
			plantName,
			m.MeasuredAt,
			formatOptional(m.Weight),
			formatOptional(m.AfterWater),
			formatOptional(m.BeforeWater),
			formatOptional(m.WaterAdded),
			formatOptional(m.LossDayPct),
			formatOptional(m.LossTotalPct),
			m.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
