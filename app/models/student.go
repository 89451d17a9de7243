package models

import "time"

// Student represents a pupil enrolled in a class for a session year. The fee
// engine only ever reads students; the directory endpoints own writes.
type Student struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	AdmissionNumber string     `json:"admission_number" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName       string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string     `json:"last_name" gorm:"not null" validate:"required"`
	Gender          Gender     `json:"gender" gorm:"type:varchar(10)"`
	DateOfBirth     CustomDate `json:"date_of_birth" gorm:"not null;type:date" validate:"required"`
	ClassID         string     `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SessionYearID   string     `json:"session_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	IsActive        bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// SiblingLink is a directed relation from a student to one sibling. Waiver
// computation only counts links whose sibling is active, non-deleted and
// enrolled in the same session year as the student.
type SiblingLink struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID        string     `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	SiblingStudentID string     `json:"sibling_student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	IsActive         bool       `json:"is_active" gorm:"default:true"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Sibling *Student `json:"sibling,omitempty" gorm:"foreignKey:SiblingStudentID;references:ID"`
}
