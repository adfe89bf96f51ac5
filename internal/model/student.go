package model

// Student is the academic profile behind a user account. GPA is kept on the
// 0-100 scale used by grades and the prediction bands.
// swagger:model Student
type Student struct {
	BaseModel
	UserID    uint    `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	GPA       float64 `gorm:"default:0" json:"gpa"`
	Interests string  `gorm:"type:text" json:"interests"`

	Enrollments []Enrollment `gorm:"foreignKey:StudentID" json:"enrollments,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
