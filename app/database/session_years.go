package database

import (
	"database/sql"
	"errors"

	"sunrise-school/app/models"
)

func (s *Store) GetSessionYearByID(id string) (*models.SessionYear, error) {
	sy := &models.SessionYear{}
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM session_years WHERE id = $1 AND deleted_at IS NULL`

	err := s.q.QueryRow(query, id).Scan(
		&sy.ID, &sy.Name, &sy.StartDate, &sy.EndDate,
		&sy.IsCurrent, &sy.IsActive, &sy.CreatedAt, &sy.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sy, nil
}

// GetCurrentSessionYear resolves the session flagged is_current. When no
// session carries the flag, the active session whose date range covers today
// is used instead.
func (s *Store) GetCurrentSessionYear() (*models.SessionYear, error) {
	sy := &models.SessionYear{}
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM session_years WHERE is_current = true AND deleted_at IS NULL
			  ORDER BY start_date DESC LIMIT 1`

	err := s.q.QueryRow(query).Scan(
		&sy.ID, &sy.Name, &sy.StartDate, &sy.EndDate,
		&sy.IsCurrent, &sy.IsActive, &sy.CreatedAt, &sy.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return s.currentSessionByDate()
	}
	if err != nil {
		return nil, err
	}
	return sy, nil
}

func (s *Store) currentSessionByDate() (*models.SessionYear, error) {
	years, err := s.ListSessionYears()
	if err != nil {
		return nil, err
	}
	for _, sy := range years {
		if sy.IsActive && sy.IsCurrentByDate() {
			return sy, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ListSessionYears returns all session years, newest first.
func (s *Store) ListSessionYears() ([]*models.SessionYear, error) {
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM session_years WHERE deleted_at IS NULL ORDER BY start_date DESC`

	rows, err := s.q.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []*models.SessionYear
	for rows.Next() {
		sy := &models.SessionYear{}
		if err := rows.Scan(
			&sy.ID, &sy.Name, &sy.StartDate, &sy.EndDate,
			&sy.IsCurrent, &sy.IsActive, &sy.CreatedAt, &sy.UpdatedAt,
		); err != nil {
			return nil, err
		}
		years = append(years, sy)
	}
	return years, rows.Err()
}
