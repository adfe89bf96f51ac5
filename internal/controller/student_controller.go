package controller

import (
	"errors"
	"strconv"

	"student_portal_backend/internal/service"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
	AuthService    *service.AuthService
}

func NewStudentController(studentService *service.StudentService, authService *service.AuthService) *StudentController {
	return &StudentController{StudentService: studentService, AuthService: authService}
}

// ListStudents godoc
// @Summary List students
// @Description Returns a paginated roster of student profiles
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "page size (max 100)" default(50)
// @Param   offset query int false "offset" default(0)
// @Success 200 {object} util.Response "roster page"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 403 {object} util.Response "forbidden"
// @Router /api/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	students, total, err := c.StudentService.List(limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"students": students,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"has_more": int64(offset+len(students)) < total,
	})
}

// GetStudent godoc
// @Summary Student profile
// @Description Returns a student profile with completed and enrolled course names
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Success 200 {object} util.Response{data=service.StudentProfileView} "profile"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	profile, err := c.StudentService.Profile(studentID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// GetStudentCourses godoc
// @Summary Student courses
// @Description Returns the student's courses with grades, optionally filtered by status
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Param   status query string false "filter: completed, enrolled or dropped"
// @Success 200 {object} util.Response "course list"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/students/{id}/courses [get]
func (c *StudentController) GetStudentCourses(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	courses, err := c.StudentService.Courses(studentID, ctx.Query("status"))
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"student_id": studentID,
		"courses":    courses,
		"total":      len(courses),
	})
}

// GetStudentPerformance godoc
// @Summary Student performance
// @Description Returns GPA, credits, per-course grades, risk level and a predicted final grade
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Success 200 {object} util.Response{data=service.StudentPerformance} "performance"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/students/{id}/performance [get]
func (c *StudentController) GetStudentPerformance(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	perf, err := c.StudentService.Performance(ctx.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, perf)
}

// GetStudentStats godoc
// @Summary Student statistics
// @Description Returns enrollment counts, GPA and completion rate
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Success 200 {object} util.Response{data=service.StudentStats} "stats"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/students/{id}/stats [get]
func (c *StudentController) GetStudentStats(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	stats, err := c.StudentService.Stats(studentID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, stats)
}

// swagger:model EnrollRequest
type EnrollRequest struct {
	CourseID uint `json:"course_id" binding:"required"`
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Creates an active enrollment for the student
// @Tags students
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Param   body body EnrollRequest true "course to enroll in"
// @Success 201 {object} util.Response "enrollment"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 404 {object} util.Response "student or course not found"
// @Failure 409 {object} util.Response "already enrolled"
// @Router /api/students/{id}/enrollments [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.StudentService.Enroll(ctx.Request.Context(), studentID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrStudentNotFound), errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Error(ctx, 409, "Already enrolled in this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

// swagger:model CompleteCourseRequest
type CompleteCourseRequest struct {
	Grade float64 `json:"grade" binding:"min=0,max=100"`
}

// CompleteCourse godoc
// @Summary Complete a course
// @Description Marks an active enrollment as completed with a final grade
// @Tags students
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Param   courseId path int true "course ID"
// @Param   body body CompleteCourseRequest true "final grade"
// @Success 200 {object} util.Response "completed"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 404 {object} util.Response "no active enrollment"
// @Router /api/students/{id}/enrollments/{courseId}/complete [put]
func (c *StudentController) CompleteCourse(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("courseId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	var req CompleteCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.StudentService.CompleteCourse(ctx.Request.Context(), studentID, uint(courseID), req.Grade); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"student_id": studentID, "course_id": courseID, "grade": req.Grade})
}

// DropCourse godoc
// @Summary Drop a course
// @Description Marks an active enrollment as dropped
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "student ID"
// @Param   courseId path int true "course ID"
// @Success 200 {object} util.Response "dropped"
// @Failure 404 {object} util.Response "no active enrollment"
// @Router /api/students/{id}/enrollments/{courseId} [delete]
func (c *StudentController) DropCourse(ctx *gin.Context) {
	id, ok := pathStudentID(ctx)
	if !ok {
		return
	}
	studentID, err := scopedStudent(ctx, c.AuthService, id)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("courseId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	if err := c.StudentService.DropCourse(ctx.Request.Context(), studentID, uint(courseID)); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"student_id": studentID, "course_id": courseID, "status": "dropped"})
}
