package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"student_portal_backend/internal/model"
	"student_portal_backend/internal/recommend"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/util"
)

// StudentService serves student profiles, course lists, performance views
// and enrollment changes. Enrollment changes invalidate the student's cached
// recommendations.
type StudentService struct {
	StudentRepo     *repository.StudentRepository
	UserRepo        *repository.UserRepository
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	Prediction      *PredictionService
	Recommendations *RecommendationService
}

func NewStudentService(
	studentRepo *repository.StudentRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	prediction *PredictionService,
	recommendations *RecommendationService,
) *StudentService {
	return &StudentService{
		StudentRepo:     studentRepo,
		UserRepo:        userRepo,
		CourseRepo:      courseRepo,
		EnrollmentRepo:  enrollmentRepo,
		Prediction:      prediction,
		Recommendations: recommendations,
	}
}

// StudentProfileView is the public shape of one student record.
type StudentProfileView struct {
	StudentID        uint      `json:"student_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	GPA              *float64  `json:"gpa"`
	CompletedCourses []string  `json:"completed_courses"`
	EnrolledCourses  []string  `json:"enrolled_courses"`
	TotalCourses     int       `json:"total_courses"`
	Interests        string    `json:"interests,omitempty"`
	JoinedAt         time.Time `json:"joined_at"`
}

// CourseGrade is one course on a student's record.
type CourseGrade struct {
	Course string   `json:"course"`
	Grade  *float64 `json:"grade"`
	Status string   `json:"status"`
}

// StudentPerformance is the grades view with risk and prediction attached.
type StudentPerformance struct {
	StudentID           uint                `json:"student_id"`
	GPA                 *float64            `json:"gpa"`
	TotalCredits        int                 `json:"total_credits"`
	CourseGrades        []CourseGrade       `json:"course_grades"`
	RiskLevel           recommend.RiskLevel `json:"risk_level"`
	PredictedFinalGrade *float64            `json:"predicted_final_grade,omitempty"`
}

// StudentStats aggregates one student's record.
type StudentStats struct {
	StudentID        uint     `json:"student_id"`
	Name             string   `json:"name"`
	Email            string   `json:"email,omitempty"`
	GPA              *float64 `json:"gpa"`
	TotalCourses     int      `json:"total_courses"`
	CompletedCourses []string `json:"completed_courses"`
	EnrolledCourses  []string `json:"enrolled_courses"`
	DroppedCount     int      `json:"dropped_count"`
	CompletionRate   float64  `json:"completion_rate"`
}

// StudentListItem is one row of the student index.
type StudentListItem struct {
	StudentID uint    `json:"student_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	GPA       float64 `json:"gpa"`
}

// Profile assembles the public view of one student.
func (s *StudentService) Profile(studentID uint) (*StudentProfileView, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	completed, enrolled, _, err := s.courseNames(studentID)
	if err != nil {
		return nil, err
	}

	view := &StudentProfileView{
		StudentID:        student.ID,
		Name:             student.Name,
		CompletedCourses: completed,
		EnrolledCourses:  enrolled,
		TotalCourses:     len(completed) + len(enrolled),
		Interests:        student.Interests,
		JoinedAt:         student.CreatedAt,
	}
	if avg, ok, err := s.EnrollmentRepo.AverageGrade(studentID); err == nil && ok {
		rounded := round2(avg)
		view.GPA = &rounded
	}
	if user, err := s.UserRepo.FindByID(student.UserID); err == nil {
		view.Email = user.Email
	}
	return view, nil
}

// Courses lists a student's courses, optionally filtered by status
// ("completed", "enrolled", "dropped" or "all").
func (s *StudentService) Courses(studentID uint, status string) ([]CourseGrade, error) {
	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	results := make([]CourseGrade, 0, len(enrollments))
	for _, e := range enrollments {
		entry := CourseGrade{Course: e.Course.Name, Grade: e.Grade}
		switch e.Status {
		case model.EnrollmentCompleted:
			entry.Status = "completed"
		case model.EnrollmentActive:
			entry.Status = "enrolled"
		default:
			entry.Status = "dropped"
		}
		if status != "" && status != "all" && entry.Status != status {
			continue
		}
		results = append(results, entry)
	}
	return results, nil
}

// Performance returns the grades view plus the model's read on it.
func (s *StudentService) Performance(ctx context.Context, studentID uint) (*StudentPerformance, error) {
	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	var grades []CourseGrade
	for _, e := range enrollments {
		switch e.Status {
		case model.EnrollmentCompleted:
			grades = append(grades, CourseGrade{Course: e.Course.Name, Grade: e.Grade, Status: "completed"})
		case model.EnrollmentActive:
			grades = append(grades, CourseGrade{Course: e.Course.Name, Grade: nil, Status: "in_progress"})
		}
	}

	performance := &StudentPerformance{
		StudentID:    studentID,
		TotalCredits: len(grades) * 3,
		CourseGrades: grades,
		RiskLevel:    recommend.RiskAverage,
	}

	if avg, ok, err := s.EnrollmentRepo.AverageGrade(studentID); err == nil && ok {
		rounded := round2(avg)
		performance.GPA = &rounded
		performance.RiskLevel = recommend.RiskFromGrade(avg)
	}

	if prediction, err := s.Prediction.PredictPerformance(ctx, studentID, ""); err == nil {
		predicted := round2(prediction.PredictedGrade)
		performance.PredictedFinalGrade = &predicted
	}
	return performance, nil
}

// Stats aggregates one student's record.
func (s *StudentService) Stats(studentID uint) (*StudentStats, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	completed, enrolled, dropped, err := s.courseNames(studentID)
	if err != nil {
		return nil, err
	}

	stats := &StudentStats{
		StudentID:        student.ID,
		Name:             student.Name,
		TotalCourses:     len(completed) + len(enrolled),
		CompletedCourses: completed,
		EnrolledCourses:  enrolled,
		DroppedCount:     dropped,
	}
	if total := len(completed) + len(enrolled) + dropped; total > 0 {
		stats.CompletionRate = round2(float64(len(completed)) / float64(total) * 100)
	}
	if avg, ok, err := s.EnrollmentRepo.AverageGrade(studentID); err == nil && ok {
		rounded := round2(avg)
		stats.GPA = &rounded
	}
	if user, err := s.UserRepo.FindByID(student.UserID); err == nil {
		stats.Email = user.Email
	}
	return stats, nil
}

// List pages through the student index.
func (s *StudentService) List(limit, offset int) ([]StudentListItem, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	students, total, err := s.StudentRepo.List(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	items := make([]StudentListItem, len(students))
	for i, st := range students {
		items[i] = StudentListItem{StudentID: st.ID, Name: st.Name, GPA: st.GPA}
		if user, err := s.UserRepo.FindByID(st.UserID); err == nil {
			items[i].Email = user.Email
		}
	}
	return items, total, nil
}

// Enroll adds an active enrollment and drops the student's cached
// recommendations.
func (s *StudentService) Enroll(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.Enroll(studentID, courseID)
	if err != nil {
		return nil, err
	}
	enrollment.Course = *course

	s.Recommendations.InvalidateCache(ctx, studentID)
	return enrollment, nil
}

// CompleteCourse records a final grade, refreshes the stored GPA and drops
// the student's cached recommendations.
func (s *StudentService) CompleteCourse(ctx context.Context, studentID, courseID uint, grade float64) error {
	if grade < 0 || grade > 100 {
		return fmt.Errorf("grade %.2f out of range [0,100]", grade)
	}

	if err := s.EnrollmentRepo.Complete(studentID, courseID, grade); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if avg, ok, err := s.EnrollmentRepo.AverageGrade(studentID); err == nil && ok {
		s.StudentRepo.UpdateGPA(studentID, avg)
	}

	s.Recommendations.InvalidateCache(ctx, studentID)
	return nil
}

// DropCourse marks an active enrollment dropped and drops the student's
// cached recommendations.
func (s *StudentService) DropCourse(ctx context.Context, studentID, courseID uint) error {
	if err := s.EnrollmentRepo.Drop(studentID, courseID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrCourseNotFound
		}
		return err
	}
	s.Recommendations.InvalidateCache(ctx, studentID)
	return nil
}

func (s *StudentService) courseNames(studentID uint) (completed, enrolled []string, dropped int, err error) {
	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, nil, 0, err
	}
	for _, e := range enrollments {
		switch e.Status {
		case model.EnrollmentCompleted:
			completed = append(completed, e.Course.Name)
		case model.EnrollmentActive:
			enrolled = append(enrolled, e.Course.Name)
		case model.EnrollmentDropped:
			dropped++
		}
	}
	return completed, enrolled, dropped, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
