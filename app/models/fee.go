package models

import "time"

// FeeStructure holds the static fee configuration for one class in one
// session year. Read-only input to the fee engine.
type FeeStructure struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClassID       string     `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SessionYearID string     `json:"session_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AnnualTuition float64    `json:"annual_tuition" gorm:"not null;type:numeric" validate:"required,gt=0"`
	AdmissionFee  float64    `json:"admission_fee" gorm:"type:numeric;default:0"`
	ExamFee       float64    `json:"exam_fee" gorm:"type:numeric;default:0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// FeeRecord is the per-student annual ledger aggregate, one per
// (student, session year). The engine owns the amount fields; paid_amount is
// advanced by the payment service when collections are posted.
type FeeRecord struct {
	ID                      string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID               string     `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SessionYearID           string     `json:"session_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	TotalAmount             float64    `json:"total_amount" gorm:"not null;type:numeric"`
	PaidAmount              float64    `json:"paid_amount" gorm:"type:numeric;default:0"`
	BalanceAmount           float64    `json:"balance_amount" gorm:"type:numeric;default:0"`
	OriginalTotalAmount     *float64   `json:"original_total_amount,omitempty" gorm:"type:numeric"`
	HasSiblingWaiver        bool       `json:"has_sibling_waiver" gorm:"default:false"`
	SiblingWaiverPercentage float64    `json:"sibling_waiver_percentage" gorm:"type:numeric;default:0"`
	IsMonthlyTracked        bool       `json:"is_monthly_tracked" gorm:"default:false;index"`
	CreatedAt               time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt               time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt               *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// RecalculateBalance keeps balance_amount consistent with total and paid.
// Every write path through the engine calls this before persisting.
func (fr *FeeRecord) RecalculateBalance() {
	fr.BalanceAmount = fr.TotalAmount - fr.PaidAmount
}
