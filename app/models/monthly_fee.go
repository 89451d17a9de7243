package models

import "time"

// MonthlyFeeTracking is one month's billing obligation for a student, twelve
// rows per session year spanning the April-March academic calendar.
// Amount fields are mutated by the engine only while the row is pending; once
// paid the row belongs to the payment service and is never touched again.
type MonthlyFeeTracking struct {
	ID                    string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID             string        `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SessionYearID         string        `json:"session_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicMonth         int           `json:"academic_month" gorm:"not null" validate:"required,min=1,max=12"`
	AcademicYear          int           `json:"academic_year" gorm:"not null" validate:"required"`
	MonthName             string        `json:"month_name" gorm:"not null"`
	MonthlyAmount         float64       `json:"monthly_amount" gorm:"not null;type:numeric"`
	OriginalMonthlyAmount *float64      `json:"original_monthly_amount,omitempty" gorm:"type:numeric"`
	FeeWaiverPercentage   float64       `json:"fee_waiver_percentage" gorm:"type:numeric;default:0"`
	WaiverReason          *string       `json:"waiver_reason,omitempty" gorm:"type:text"`
	PaidAmount            float64       `json:"paid_amount" gorm:"type:numeric;default:0"`
	DueDate               CustomDate    `json:"due_date" gorm:"not null;type:date"`
	PaymentStatus         PaymentStatus `json:"payment_status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	LateFee               float64       `json:"late_fee" gorm:"type:numeric;default:0"`
	DiscountAmount        float64       `json:"discount_amount" gorm:"type:numeric;default:0"`
	CreatedAt             time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt             time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsPending reports whether the engine may still adjust this row.
func (m *MonthlyFeeTracking) IsPending() bool {
	return m.PaymentStatus == PaymentPending
}

// BaselineAmount returns the pre-waiver amount on file, falling back to the
// current amount when no waiver was ever applied.
func (m *MonthlyFeeTracking) BaselineAmount() float64 {
	if m.OriginalMonthlyAmount != nil && *m.OriginalMonthlyAmount > 0 {
		return *m.OriginalMonthlyAmount
	}
	return m.MonthlyAmount
}
