package services

import (
	"time"

	"sunrise-school/app/models"
)

// MonthlyWaiverUpdate describes the amount fields written onto pending
// monthly tracking rows when a waiver changes.
type MonthlyWaiverUpdate struct {
	MonthlyAmount         float64
	OriginalMonthlyAmount *float64
	WaiverPercentage      float64
	WaiverReason          *string
}

// EngineStore is the persistence contract of the fee tracking engine. The
// Postgres implementation lives in app/database; tests run against an
// in-memory fake. Lookups report a missing row with sql.ErrNoRows.
type EngineStore interface {
	// InTransaction runs fn against a store bound to a single database
	// transaction. Each student's read-modify-write cycle goes through
	// here so a concurrent payment posting cannot interleave.
	InTransaction(fn func(EngineStore) error) error

	GetSessionYearByID(id string) (*models.SessionYear, error)
	GetCurrentSessionYear() (*models.SessionYear, error)

	GetStudentByID(id string) (*models.Student, error)
	GetActiveSiblings(studentID, sessionYearID string) ([]*models.Student, error)

	GetFeeStructure(classID, sessionYearID string) (*models.FeeStructure, error)

	GetFeeRecord(studentID, sessionYearID string) (*models.FeeRecord, error)
	CreateFeeRecord(rec *models.FeeRecord) error
	UpdateFeeRecordAmounts(rec *models.FeeRecord) error

	GetMonthlyTracking(studentID, sessionYearID string) ([]*models.MonthlyFeeTracking, error)
	InsertMonthlyTracking(rows []*models.MonthlyFeeTracking) error
	// UpdatePendingMonthlyAmounts applies upd to rows of the student's
	// session that are still pending and returns how many rows changed.
	UpdatePendingMonthlyAmounts(studentID, sessionYearID string, upd MonthlyWaiverUpdate) (int, error)
	GetMonthlyTrackedStudentIDs(sessionYearID string) ([]string, error)

	GetTransportEnrollment(id string) (*models.TransportEnrollment, error)
	GetTransportTracking(studentID, sessionYearID string) ([]*models.TransportMonthlyTracking, error)
	InsertTransportTracking(row *models.TransportMonthlyTracking) error
	// RepointTransportEnrollment swaps the enrollment reference on a
	// tracking row regardless of payment status.
	RepointTransportEnrollment(rowID, enrollmentID string) error
	// UpdatePendingTransportMonth refreshes amount, service flag and due
	// date on one row only while it is unpaid. Reports whether it changed.
	UpdatePendingTransportMonth(rowID string, amount float64, enabled bool, dueDate time.Time) (bool, error)
}
