package repository

import (
	"student_portal_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	return &student, err
}

func (r *StudentRepository) FindByUserID(userID uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("user_id = ?", userID).First(&student).Error
	return &student, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

func (r *StudentRepository) UpdateGPA(studentID uint, gpa float64) error {
	return r.DB.Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("gpa", gpa).
		Error
}

func (r *StudentRepository) List(limit, offset int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.DB.Model(&model.Student{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&students).Error
	return students, total, err
}

// ListAll loads every student profile. The cohort for collaborative
// scoring is built from this set.
func (r *StudentRepository) ListAll() ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Order("id ASC").Find(&students).Error
	return students, err
}
