package repository

import (
	"errors"
	"time"

	"student_portal_backend/internal/model"
	"student_portal_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Enroll creates an active enrollment. Re-enrolling in a course the student
// already has a row for returns util.ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Enrollment{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrAlreadyEnrolled
		}
		return tx.Create(enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *EnrollmentRepository) FindByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) FindByStudentAndStatus(studentID uint, status model.EnrollmentStatus) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("student_id = ? AND status = ?", studentID, status).
		Order("id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Preload("Course").
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

// Complete marks an enrollment finished with its final grade.
func (r *EnrollmentRepository) Complete(studentID, courseID uint, grade float64) error {
	now := time.Now()
	result := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Updates(map[string]interface{}{
			"status":       model.EnrollmentCompleted,
			"grade":        grade,
			"completed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *EnrollmentRepository) Drop(studentID, courseID uint) error {
	result := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, model.EnrollmentActive).
		Update("status", model.EnrollmentDropped)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CompletedCourseNames returns the names of a student's completed courses.
// Collaborative filtering identifies courses by name, so this join feeds the
// cohort lookup without loading full rows.
func (r *EnrollmentRepository) CompletedCourseNames(studentID uint) ([]string, error) {
	var names []string
	err := r.DB.Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.student_id = ? AND enrollments.status = ?", studentID, model.EnrollmentCompleted).
		Order("enrollments.id ASC").
		Pluck("courses.name", &names).Error
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		var count int64
		if err := r.DB.Model(&model.Student{}).Where("id = ?", studentID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return names, nil
}

// AverageGrade returns the mean final grade over completed courses, and
// whether the student has any graded history at all.
func (r *EnrollmentRepository) AverageGrade(studentID uint) (float64, bool, error) {
	var avg *float64
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND status = ? AND grade IS NOT NULL", studentID, model.EnrollmentCompleted).
		Select("AVG(grade)").
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

// CountByStatus returns enrollment counts keyed by status for one student.
func (r *EnrollmentRepository) CountByStatus(studentID uint) (map[model.EnrollmentStatus]int64, error) {
	type row struct {
		Status model.EnrollmentStatus
		Total  int64
	}
	var rows []row
	err := r.DB.Model(&model.Enrollment{}).
		Select("status, COUNT(*) AS total").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.EnrollmentStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// IsNotFound reports whether err is the gorm missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
