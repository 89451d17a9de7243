package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sunrise-school/app/models"
)

func (s *Store) GetTransportEnrollment(id string) (*models.TransportEnrollment, error) {
	te := &models.TransportEnrollment{}
	query := `SELECT id, student_id, session_year_id, route_name, transport_type, monthly_fee,
			enrollment_date, is_active, created_at, updated_at
		FROM transport_enrollments
		WHERE id = $1 AND deleted_at IS NULL`

	err := s.q.QueryRow(query, id).Scan(
		&te.ID, &te.StudentID, &te.SessionYearID, &te.RouteName, &te.TransportType,
		&te.MonthlyFee, &te.EnrollmentDate, &te.IsActive, &te.CreatedAt, &te.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return te, nil
}

const transportTrackingColumns = `id, enrollment_id, student_id, session_year_id, academic_month,
	academic_year, month_name, monthly_amount, is_service_enabled, paid_amount,
	due_date, payment_status, late_fee, created_at, updated_at`

func scanTransportTracking(rows interface{ Scan(...interface{}) error }) (*models.TransportMonthlyTracking, error) {
	t := &models.TransportMonthlyTracking{}
	var status string
	err := rows.Scan(
		&t.ID, &t.EnrollmentID, &t.StudentID, &t.SessionYearID, &t.AcademicMonth,
		&t.AcademicYear, &t.MonthName, &t.MonthlyAmount, &t.IsServiceEnabled, &t.PaidAmount,
		&t.DueDate, &status, &t.LateFee, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.PaymentStatus = models.PaymentStatus(status)
	return t, nil
}

// GetTransportTracking returns the student's transport rows for a session.
// Rows are keyed by student and session, not enrollment, so a re-enrollment
// sees the rows generated under the superseded enrollment.
func (s *Store) GetTransportTracking(studentID, sessionYearID string) ([]*models.TransportMonthlyTracking, error) {
	query := `SELECT ` + transportTrackingColumns + `
		FROM transport_monthly_tracking
		WHERE student_id = $1 AND session_year_id = $2
		ORDER BY academic_year, academic_month`

	rows, err := s.q.Query(query, studentID, sessionYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transport tracking: %v", err)
	}
	defer rows.Close()

	var tracking []*models.TransportMonthlyTracking
	for rows.Next() {
		t, err := scanTransportTracking(rows)
		if err != nil {
			return nil, err
		}
		tracking = append(tracking, t)
	}
	return tracking, rows.Err()
}

// GetTransportTrackingByEnrollment returns the rows currently pointing at one
// enrollment, for the read endpoint.
func (s *Store) GetTransportTrackingByEnrollment(enrollmentID string) ([]*models.TransportMonthlyTracking, error) {
	query := `SELECT ` + transportTrackingColumns + `
		FROM transport_monthly_tracking
		WHERE enrollment_id = $1
		ORDER BY academic_year, academic_month`

	rows, err := s.q.Query(query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transport tracking: %v", err)
	}
	defer rows.Close()

	var tracking []*models.TransportMonthlyTracking
	for rows.Next() {
		t, err := scanTransportTracking(rows)
		if err != nil {
			return nil, err
		}
		tracking = append(tracking, t)
	}
	return tracking, rows.Err()
}

func (s *Store) InsertTransportTracking(row *models.TransportMonthlyTracking) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	query := `INSERT INTO transport_monthly_tracking (id, enrollment_id, student_id,
			session_year_id, academic_month, academic_year, month_name, monthly_amount,
			is_service_enabled, paid_amount, due_date, payment_status, late_fee,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())`

	_, err := s.q.Exec(query,
		row.ID, row.EnrollmentID, row.StudentID, row.SessionYearID,
		row.AcademicMonth, row.AcademicYear, row.MonthName, row.MonthlyAmount,
		row.IsServiceEnabled, row.PaidAmount, row.DueDate, string(row.PaymentStatus), row.LateFee,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transport tracking for month %d/%d: %v",
			row.AcademicMonth, row.AcademicYear, err)
	}
	return nil
}

// RepointTransportEnrollment moves a tracking row onto the newest enrollment.
// This is the one write allowed on paid rows: the reference moves, the
// billing figures do not.
func (s *Store) RepointTransportEnrollment(rowID, enrollmentID string) error {
	query := `UPDATE transport_monthly_tracking
		SET enrollment_id = $1, updated_at = NOW()
		WHERE id = $2`
	_, err := s.q.Exec(query, enrollmentID, rowID)
	if err != nil {
		return fmt.Errorf("failed to repoint transport tracking: %v", err)
	}
	return nil
}

// UpdatePendingTransportMonth refreshes the billing fields of one row, but
// only while it is still pending; the predicate in the statement keeps paid
// months immutable under concurrent payment postings.
func (s *Store) UpdatePendingTransportMonth(rowID string, amount float64, enabled bool, dueDate time.Time) (bool, error) {
	query := `UPDATE transport_monthly_tracking
		SET monthly_amount = $1, is_service_enabled = $2, due_date = $3, updated_at = NOW()
		WHERE id = $4 AND payment_status = 'pending'`

	result, err := s.q.Exec(query, amount, enabled, dueDate, rowID)
	if err != nil {
		return false, fmt.Errorf("failed to update transport tracking: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
