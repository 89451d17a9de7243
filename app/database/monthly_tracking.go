package database

import (
	"fmt"

	"github.com/google/uuid"

	"sunrise-school/app/models"
	"sunrise-school/app/services"
)

const monthlyTrackingColumns = `id, student_id, session_year_id, academic_month,
	academic_year, month_name, monthly_amount, original_monthly_amount,
	fee_waiver_percentage, waiver_reason, paid_amount, due_date, payment_status,
	late_fee, discount_amount, created_at, updated_at`

func (s *Store) GetMonthlyTracking(studentID, sessionYearID string) ([]*models.MonthlyFeeTracking, error) {
	query := `SELECT ` + monthlyTrackingColumns + `
		FROM monthly_fee_tracking
		WHERE student_id = $1 AND session_year_id = $2
		ORDER BY academic_year, academic_month`

	rows, err := s.q.Query(query, studentID, sessionYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly tracking: %v", err)
	}
	defer rows.Close()

	var tracking []*models.MonthlyFeeTracking
	for rows.Next() {
		m := &models.MonthlyFeeTracking{}
		var status string
		err := rows.Scan(
			&m.ID, &m.StudentID, &m.SessionYearID, &m.AcademicMonth,
			&m.AcademicYear, &m.MonthName, &m.MonthlyAmount, &m.OriginalMonthlyAmount,
			&m.FeeWaiverPercentage, &m.WaiverReason, &m.PaidAmount, &m.DueDate, &status,
			&m.LateFee, &m.DiscountAmount, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		m.PaymentStatus = models.PaymentStatus(status)
		tracking = append(tracking, m)
	}
	return tracking, rows.Err()
}

func (s *Store) InsertMonthlyTracking(rows []*models.MonthlyFeeTracking) error {
	query := `INSERT INTO monthly_fee_tracking (id, student_id, session_year_id,
			academic_month, academic_year, month_name, monthly_amount,
			original_monthly_amount, fee_waiver_percentage, waiver_reason, paid_amount,
			due_date, payment_status, late_fee, discount_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())`

	for _, m := range rows {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		_, err := s.q.Exec(query,
			m.ID, m.StudentID, m.SessionYearID,
			m.AcademicMonth, m.AcademicYear, m.MonthName, m.MonthlyAmount,
			m.OriginalMonthlyAmount, m.FeeWaiverPercentage, m.WaiverReason, m.PaidAmount,
			m.DueDate, string(m.PaymentStatus), m.LateFee, m.DiscountAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert monthly tracking for month %d/%d: %v",
				m.AcademicMonth, m.AcademicYear, err)
		}
	}
	return nil
}

// UpdatePendingMonthlyAmounts rewrites the waiver fields on every row of the
// student's session that is still pending. The status predicate lives in the
// statement itself so a payment committed by a concurrent transaction can
// never be overwritten.
func (s *Store) UpdatePendingMonthlyAmounts(studentID, sessionYearID string, upd services.MonthlyWaiverUpdate) (int, error) {
	query := `UPDATE monthly_fee_tracking
		SET monthly_amount = $1,
			original_monthly_amount = $2,
			fee_waiver_percentage = $3,
			waiver_reason = $4,
			updated_at = NOW()
		WHERE student_id = $5 AND session_year_id = $6 AND payment_status = 'pending'`

	result, err := s.q.Exec(query,
		upd.MonthlyAmount, upd.OriginalMonthlyAmount, upd.WaiverPercentage, upd.WaiverReason,
		studentID, sessionYearID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update pending monthly tracking: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// GetMonthlyTrackedStudentIDs lists students with an active monthly-tracked
// fee record in the session, for the nightly recomputation sweep.
func (s *Store) GetMonthlyTrackedStudentIDs(sessionYearID string) ([]string, error) {
	query := `SELECT student_id FROM fee_records
		WHERE session_year_id = $1 AND is_monthly_tracked = true AND deleted_at IS NULL
		ORDER BY student_id`

	rows, err := s.q.Query(query, sessionYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
