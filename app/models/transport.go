package models

import "time"

// TransportEnrollment records a student signing up for a transport route in a
// session year. A student may re-enroll (new row) after a gap or a route
// change; unpaid tracking months follow the newest enrollment.
type TransportEnrollment struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID      string     `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SessionYearID  string     `json:"session_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	RouteName      string     `json:"route_name" gorm:"not null"`
	TransportType  string     `json:"transport_type" gorm:"type:varchar(30)"`
	MonthlyFee     float64    `json:"monthly_fee" gorm:"not null;type:numeric" validate:"required,gt=0"`
	EnrollmentDate CustomDate `json:"enrollment_date" gorm:"not null;type:date" validate:"required"`
	IsActive       bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// TransportMonthlyTracking is the transport counterpart of MonthlyFeeTracking.
// Months before the enrollment month are kept with the service disabled and a
// zero amount so the twelve-row shape of a session is always complete.
type TransportMonthlyTracking struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EnrollmentID     string        `json:"enrollment_id" gorm:"not null;index;type:uuid"`
	StudentID        string        `json:"student_id" gorm:"not null;index;type:uuid"`
	SessionYearID    string        `json:"session_year_id" gorm:"not null;index;type:uuid"`
	AcademicMonth    int           `json:"academic_month" gorm:"not null"`
	AcademicYear     int           `json:"academic_year" gorm:"not null"`
	MonthName        string        `json:"month_name" gorm:"not null"`
	MonthlyAmount    float64       `json:"monthly_amount" gorm:"not null;type:numeric"`
	IsServiceEnabled bool          `json:"is_service_enabled" gorm:"default:true"`
	PaidAmount       float64       `json:"paid_amount" gorm:"type:numeric;default:0"`
	DueDate          CustomDate    `json:"due_date" gorm:"not null;type:date"`
	PaymentStatus    PaymentStatus `json:"payment_status" gorm:"not null;default:'pending';index;type:varchar(20)"`
	LateFee          float64       `json:"late_fee" gorm:"type:numeric;default:0"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsPending reports whether the engine may still adjust this row.
func (t *TransportMonthlyTracking) IsPending() bool {
	return t.PaymentStatus == PaymentPending
}
