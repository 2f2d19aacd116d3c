package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
)

// MeasurementInput carries one new observation for a plant. Value fields
// are independently optional; exactly which ones are set decides whether
// the record is a weighing, a watering, or a repotting reset.
type MeasurementInput struct {
	MeasuredAt  string
	Weight      *float64
	AfterWater  *float64
	BeforeWater *float64
	WaterAdded  *float64
	Notes       string
}

const measurementCols = `id, plant_id, measured_at, measured_weight_g,
	after_water_weight_g, before_water_weight_g, water_added_g,
	loss_day_pct, loss_total_pct, notes, created_at`

// AddMeasurement inserts an observation and derives its loss metrics from
// the plant's existing history. Reset and watering records carry no loss
// metrics; a weighing gets its daily and total loss computed against the
// previous weight and the last watering event.
func (s *Store) AddMeasurement(plantID int64, in MeasurementInput) (*Measurement, error) {
	lossDay, lossTotal, err := s.deriveLoss(plantID, in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO measurements (plant_id, measured_at, measured_weight_g,
			after_water_weight_g, before_water_weight_g, water_added_g,
			loss_day_pct, loss_total_pct, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plantID, in.MeasuredAt, in.Weight, in.AfterWater, in.BeforeWater,
		in.WaterAdded, lossDay, lossTotal, in.Notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert measurement: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetMeasurement(id)
}

func (s *Store) GetMeasurement(id int64) (*Measurement, error) {
	row := s.db.QueryRow(`SELECT `+measurementCols+` FROM measurements WHERE id = ?`, id)
	m, err := scanMeasurement(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get measurement %d: %w", id, err)
	}
	return m, nil
}

// ListMeasurements returns all observations for a plant, newest first.
func (s *Store) ListMeasurements(plantID int64) ([]Measurement, error) {
	rows, err := s.db.Query(
		`SELECT `+measurementCols+` FROM measurements
		 WHERE plant_id = ? ORDER BY measured_at DESC, id DESC`, plantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var ms []Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows.Scan)
		if err != nil {
			return nil, err
		}
		ms = append(ms, *m)
	}
	return ms, rows.Err()
}

func (s *Store) UpdateMeasurementNotes(id int64, notes string) error {
	_, err := s.db.Exec(`UPDATE measurements SET notes = ? WHERE id = ?`, notes, id)
	return err
}

func (s *Store) DeleteMeasurement(id int64) error {
	_, err := s.db.Exec(`DELETE FROM measurements WHERE id = ?`, id)
	return err
}

// Record converts a stored measurement to the aggregator's input shape.
func (m Measurement) Record() series.Record {
	return series.Record{
		MeasuredAt:   m.MeasuredAt,
		Weight:       m.Weight,
		AfterWater:   m.AfterWater,
		BeforeWater:  m.BeforeWater,
		WaterAdded:   m.WaterAdded,
		LossDayPct:   m.LossDayPct,
		LossTotalPct: m.LossTotalPct,
	}
}

// Records converts a stored history for the series aggregator.
func Records(ms []Measurement) []series.Record {
	rs := make([]series.Record, 0, len(ms))
	for _, m := range ms {
		rs = append(rs, m.Record())
	}
	return rs
}

// deriveLoss computes the daily and total loss percentages for a new
// weighing. Watering and reset records get neither.
func (s *Store) deriveLoss(plantID int64, in MeasurementInput) (lossDay, lossTotal *float64, err error) {
	weight := in.Weight
	if weight == nil || in.BeforeWater != nil {
		// Watering or reset: no loss metrics.
		return nil, nil, nil
	}

	history, err := s.ListMeasurements(plantID)
	if err != nil {
		return nil, nil, err
	}

	at, ok := series.ParseTime(in.MeasuredAt)
	if !ok {
		return nil, nil, nil
	}

	// Previous weighing and last wet weight strictly before this record.
	var prevWeight, lastWet, lastAdded *float64
	for _, m := range history { // newest first
		t, ok := series.ParseTime(m.MeasuredAt)
		if !ok || !t.Before(at) {
			continue
		}
		if prevWeight == nil {
			if m.AfterWater != nil {
				prevWeight = m.AfterWater
			} else if m.Weight != nil {
				prevWeight = m.Weight
			}
		}
		if lastWet == nil && m.AfterWater != nil {
			lastWet = m.AfterWater
		}
		if lastAdded == nil && series.IsWatering(m.Record()) {
			lastAdded = m.WaterAdded
		}
		if prevWeight != nil && lastWet != nil && lastAdded != nil {
			break
		}
	}

	if prevWeight != nil {
		drop := math.Max(*prevWeight-*weight, 0)
		lossDay = lossPct(drop, lastAdded, lastWet)
	}
	if lastWet != nil {
		drop := math.Max(*lastWet-*weight, 0)
		lossTotal = lossPct(drop, lastAdded, lastWet)
	}
	return lossDay, lossTotal, nil
}

// lossPct expresses a weight drop as a percentage of the last watering
// quantity, falling back to the last wet weight as the base.
func lossPct(drop float64, lastAdded, lastWet *float64) *float64 {
	var base float64
	switch {
	case lastAdded != nil && *lastAdded > 0:
		base = *lastAdded
	case lastWet != nil && *lastWet > 0:
		base = *lastWet
	default:
		return nil
	}
	pct := math.Round(drop/base*10000) / 100
	return &pct
}

func scanMeasurement(scan scanFunc) (*Measurement, error) {
	m := &Measurement{}
	var createdAt string
	var weight, after, before, added, lossDay, lossTotal sql.NullFloat64

	err := scan(&m.ID, &m.PlantID, &m.MeasuredAt, &weight, &after, &before,
		&added, &lossDay, &lossTotal, &m.Notes, &createdAt)
	if err != nil {
		return nil, err
	}
	if weight.Valid {
		m.Weight = &weight.Float64
	}
	if after.Valid {
		m.AfterWater = &after.Float64
	}
	if before.Valid {
		m.BeforeWater = &before.Float64
	}
	if added.Valid {
		m.WaterAdded = &added.Float64
	}
	if lossDay.Valid {
		m.LossDayPct = &lossDay.Float64
	}
	if lossTotal.Valid {
		m.LossTotalPct = &lossTotal.Float64
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return m, nil
}
