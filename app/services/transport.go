package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sunrise-school/app/models"
)

// TransportTrackingResult reports how many transport tracking rows an
// enrollment sweep created and updated.
type TransportTrackingResult struct {
	EnrollmentID string `json:"enrollment_id"`
	StudentID    string `json:"student_id"`
	RowsCreated  int    `json:"rows_created"`
	RowsUpdated  int    `json:"rows_updated"`
}

// EnableTransportTracking generates or refreshes the twelve transport
// obligation rows for one enrollment. Months before the enrollment month are
// kept with the service disabled and a zero amount. Rows that already exist
// are always repointed at this enrollment, but their amount, service flag and
// due date move only while the row is unpaid, so a re-enrollment or transport
// type change never disturbs billing history.
func (s *TrackingService) EnableTransportTracking(enrollmentID string, startMonth, startYear int) (*TransportTrackingResult, error) {
	res := &TransportTrackingResult{EnrollmentID: enrollmentID}

	err := s.store.InTransaction(func(st EngineStore) error {
		enrollment, err := st.GetTransportEnrollment(enrollmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("transport enrollment %s not found", enrollmentID)
			}
			return fmt.Errorf("failed to load transport enrollment: %v", err)
		}
		res.StudentID = enrollment.StudentID

		session, err := st.GetSessionYearByID(enrollment.SessionYearID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("session year %s not found", enrollment.SessionYearID)
			}
			return fmt.Errorf("failed to resolve session year: %v", err)
		}
		if startMonth == 0 {
			startMonth = 4
		}
		if startYear == 0 {
			startYear = session.StartYear()
		}

		rows, err := st.GetTransportTracking(enrollment.StudentID, enrollment.SessionYearID)
		if err != nil {
			return fmt.Errorf("failed to load transport tracking: %v", err)
		}
		existing := make(map[int]*models.TransportMonthlyTracking, len(rows))
		for _, row := range rows {
			existing[row.AcademicMonth] = row
		}

		enrollYear := enrollment.EnrollmentDate.Year()
		enrollMonth := int(enrollment.EnrollmentDate.Month())

		for _, month := range academicMonthsFrom(startMonth) {
			year := AcademicYearFor(startYear, month)
			enabled := serviceActive(year, month, enrollYear, enrollMonth)
			amount := 0.0
			if enabled {
				amount = enrollment.MonthlyFee
			}
			dueDate := TransportDueDate(year, month)

			if row, ok := existing[month]; ok {
				if err := st.RepointTransportEnrollment(row.ID, enrollment.ID); err != nil {
					return fmt.Errorf("failed to repoint tracking row: %v", err)
				}
				changed, err := st.UpdatePendingTransportMonth(row.ID, amount, enabled, dueDate)
				if err != nil {
					return fmt.Errorf("failed to update tracking row: %v", err)
				}
				if changed {
					res.RowsUpdated++
				}
				continue
			}

			if err := st.InsertTransportTracking(&models.TransportMonthlyTracking{
				EnrollmentID:     enrollment.ID,
				StudentID:        enrollment.StudentID,
				SessionYearID:    enrollment.SessionYearID,
				AcademicMonth:    month,
				AcademicYear:     year,
				MonthName:        time.Month(month).String(),
				MonthlyAmount:    amount,
				IsServiceEnabled: enabled,
				DueDate:          models.CustomDate{Time: dueDate},
				PaymentStatus:    models.PaymentPending,
			}); err != nil {
				return fmt.Errorf("failed to insert tracking row: %v", err)
			}
			res.RowsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// serviceActive reports whether the billed month falls on or after the
// enrollment month.
func serviceActive(year, month, enrollYear, enrollMonth int) bool {
	if year != enrollYear {
		return year > enrollYear
	}
	return month >= enrollMonth
}
