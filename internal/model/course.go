package model

// swagger:model Course
type Course struct {
	BaseModel
	Name          string   `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Description   string   `gorm:"type:text" json:"description"`
	Category      string   `gorm:"size:100" json:"category"`
	Difficulty    string   `gorm:"size:20;default:'intermediate'" json:"difficulty"`
	Prerequisites []string `gorm:"serializer:json;type:json" json:"prerequisites"`
	Objectives    []string `gorm:"serializer:json;type:json" json:"objectives"`
}

func (Course) TableName() string {
	return "courses"
}
