package database

import (
	"fmt"

	"github.com/google/uuid"

	"sunrise-school/app/models"
)

func (s *Store) GetFeeStructure(classID, sessionYearID string) (*models.FeeStructure, error) {
	fs := &models.FeeStructure{}
	query := `SELECT id, class_id, session_year_id, annual_tuition, admission_fee, exam_fee,
			created_at, updated_at
		FROM fee_structures
		WHERE class_id = $1 AND session_year_id = $2 AND deleted_at IS NULL`

	err := s.q.QueryRow(query, classID, sessionYearID).Scan(
		&fs.ID, &fs.ClassID, &fs.SessionYearID, &fs.AnnualTuition,
		&fs.AdmissionFee, &fs.ExamFee, &fs.CreatedAt, &fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *Store) GetFeeRecord(studentID, sessionYearID string) (*models.FeeRecord, error) {
	fr := &models.FeeRecord{}
	query := `SELECT id, student_id, session_year_id, total_amount, paid_amount, balance_amount,
			original_total_amount, has_sibling_waiver, sibling_waiver_percentage,
			is_monthly_tracked, created_at, updated_at
		FROM fee_records
		WHERE student_id = $1 AND session_year_id = $2 AND deleted_at IS NULL`

	err := s.q.QueryRow(query, studentID, sessionYearID).Scan(
		&fr.ID, &fr.StudentID, &fr.SessionYearID, &fr.TotalAmount, &fr.PaidAmount,
		&fr.BalanceAmount, &fr.OriginalTotalAmount, &fr.HasSiblingWaiver,
		&fr.SiblingWaiverPercentage, &fr.IsMonthlyTracked, &fr.CreatedAt, &fr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fr, nil
}

func (s *Store) CreateFeeRecord(rec *models.FeeRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.RecalculateBalance()
	query := `INSERT INTO fee_records (id, student_id, session_year_id, total_amount, paid_amount,
			balance_amount, original_total_amount, has_sibling_waiver,
			sibling_waiver_percentage, is_monthly_tracked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`

	_, err := s.q.Exec(query,
		rec.ID, rec.StudentID, rec.SessionYearID, rec.TotalAmount, rec.PaidAmount,
		rec.BalanceAmount, rec.OriginalTotalAmount, rec.HasSiblingWaiver,
		rec.SiblingWaiverPercentage, rec.IsMonthlyTracked,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fee record: %v", err)
	}
	return nil
}

// UpdateFeeRecordAmounts writes the engine-owned amount and waiver fields.
// paid_amount belongs to the payment service and is deliberately left alone;
// balance_amount is always recomputed from total and paid.
func (s *Store) UpdateFeeRecordAmounts(rec *models.FeeRecord) error {
	rec.RecalculateBalance()
	query := `UPDATE fee_records
		SET total_amount = $1,
			balance_amount = $1 - paid_amount,
			original_total_amount = $2,
			has_sibling_waiver = $3,
			sibling_waiver_percentage = $4,
			is_monthly_tracked = $5,
			updated_at = NOW()
		WHERE id = $6`

	_, err := s.q.Exec(query,
		rec.TotalAmount, rec.OriginalTotalAmount, rec.HasSiblingWaiver,
		rec.SiblingWaiverPercentage, rec.IsMonthlyTracked, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee record: %v", err)
	}
	return nil
}
