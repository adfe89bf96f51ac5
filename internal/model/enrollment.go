package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	StudentID   uint             `gorm:"uniqueIndex:idx_student_course;type:bigint unsigned" json:"studentId"`
	CourseID    uint             `gorm:"uniqueIndex:idx_student_course;type:bigint unsigned" json:"courseId"`
	Status      EnrollmentStatus `gorm:"type:enum('active','completed','dropped');default:'active'" json:"status"`
	Grade       *float64         `json:"grade,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
