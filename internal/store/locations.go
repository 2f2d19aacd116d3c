package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateLocation(name, notes string) (*Location, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO locations (name, notes, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetLocation(id)
}

func (s *Store) GetLocation(id int64) (*Location, error) {
	l := &Location{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, notes, archived, created_at, updated_at FROM locations WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.Notes, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get location %d: %w", id, err)
	}
	l.Archived = archived == 1
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return l, nil
}

func (s *Store) ListLocations(includeArchived bool) ([]Location, error) {
	query := `SELECT id, name, notes, archived, created_at, updated_at FROM locations`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&l.ID, &l.Name, &l.Notes, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		l.Archived = archived == 1
		l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *Store) UpdateLocation(id int64, name, notes string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE locations SET name = ?, notes = ?, updated_at = ? WHERE id = ?`,
		name, notes, now, id,
	)
	return err
}

func (s *Store) ArchiveLocation(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE locations SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}
