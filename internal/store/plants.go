package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PlantInput carries the editable fields of a plant.
type PlantInput struct {
	Name           string
	Species        string
	Notes          string
	LocationID     *int64
	Color          string
	MinDryWeight   *float64
	MaxWaterWeight *float64
	ThresholdPct   *float64
}

const plantCols = `id, name, species, notes, location_id, color,
	min_dry_weight_g, max_water_weight_g, recommended_threshold_pct,
	archived, created_at, updated_at`

func (s *Store) CreatePlant(in PlantInput) (*Plant, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO plants (name, species, notes, location_id, color,
			min_dry_weight_g, max_water_weight_g, recommended_threshold_pct,
			created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Species, in.Notes, in.LocationID, in.Color,
		in.MinDryWeight, in.MaxWaterWeight, in.ThresholdPct, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert plant: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetPlant(id)
}

func (s *Store) GetPlant(id int64) (*Plant, error) {
	row := s.db.QueryRow(`SELECT `+plantCols+` FROM plants WHERE id = ?`, id)
	p, err := scanPlant(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("get plant %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListPlants(includeArchived bool) ([]Plant, error) {
	query := `SELECT ` + plantCols + ` FROM plants`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		p, err := scanPlant(rows.Scan)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *p)
	}
	return plants, rows.Err()
}

func (s *Store) UpdatePlant(id int64, in PlantInput) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE plants SET name = ?, species = ?, notes = ?, location_id = ?, color = ?,
			min_dry_weight_g = ?, max_water_weight_g = ?, recommended_threshold_pct = ?,
			updated_at = ?
		 WHERE id = ?`,
		in.Name, in.Species, in.Notes, in.LocationID, in.Color,
		in.MinDryWeight, in.MaxWaterWeight, in.ThresholdPct, now, id,
	)
	return err
}

func (s *Store) ArchivePlant(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE plants SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

type scanFunc func(dest ...any) error

func scanPlant(scan scanFunc) (*Plant, error) {
	p := &Plant{}
	var createdAt, updatedAt string
	var archived int
	var locationID sql.NullInt64
	var minDry, maxWater, threshPct sql.NullFloat64

	err := scan(&p.ID, &p.Name, &p.Species, &p.Notes, &locationID, &p.Color,
		&minDry, &maxWater, &threshPct, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if locationID.Valid {
		p.LocationID = &locationID.Int64
	}
	if minDry.Valid {
		p.MinDryWeight = &minDry.Float64
	}
	if maxWater.Valid {
		p.MaxWaterWeight = &maxWater.Float64
	}
	if threshPct.Valid {
		p.ThresholdPct = &threshPct.Float64
	}
	p.Archived = archived == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}
