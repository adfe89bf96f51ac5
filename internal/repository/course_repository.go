package repository

import (
	"student_portal_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByName(name string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("name = ?", name).First(&course).Error
	return &course, err
}

func (r *CourseRepository) List(category, difficulty string, limit, offset int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.DB.Model(&model.Course{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if difficulty != "" {
		db = db.Where("difficulty = ?", difficulty)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&courses).Error
	return courses, total, err
}

// ListAll loads the full catalog ordered by ID. Recommendation requests
// always score against the complete catalog.
func (r *CourseRepository) ListAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id ASC").Find(&courses).Error
	return courses, err
}
