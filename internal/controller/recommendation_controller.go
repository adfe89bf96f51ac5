package controller

import (
	"errors"
	"strconv"

	"student_portal_backend/internal/recommend"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/service"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
	CourseRepo            *repository.CourseRepository
	AuthService           *service.AuthService
}

func NewRecommendationController(
	recommendationService *service.RecommendationService,
	courseRepo *repository.CourseRepository,
	authService *service.AuthService,
) *RecommendationController {
	return &RecommendationController{
		RecommendationService: recommendationService,
		CourseRepo:            courseRepo,
		AuthService:           authService,
	}
}

// RecommendRequest selects how many courses to recommend and, optionally,
// a custom component weighting. Advisors may set student_id to run the
// engine for another student.
// swagger:model RecommendRequest
type RecommendRequest struct {
	StudentID uint               `json:"student_id"`
	TopN      int                `json:"top_n" binding:"omitempty,min=1,max=20"`
	Weights   *recommend.Weights `json:"weights"`
}

// Recommend godoc
// @Summary Course recommendations
// @Description Scores the catalog with the hybrid engine and returns the top courses
// @Tags recommendations
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body RecommendRequest true "recommendation options"
// @Success 200 {object} util.Response{data=recommend.Result} "ranked courses"
// @Failure 400 {object} util.Response "invalid request"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/recommend [post]
func (c *RecommendationController) Recommend(ctx *gin.Context) {
	var req RecommendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	studentID, err := scopedStudent(ctx, c.AuthService, req.StudentID)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	result, err := c.RecommendationService.Recommend(ctx.Request.Context(), studentID, req.TopN, req.Weights)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrInvalidRequest):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrStudentNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// ListCourses godoc
// @Summary Course catalog
// @Description Returns catalog courses, optionally filtered by category and difficulty
// @Tags recommendations
// @Produce  json
// @Security ApiKeyAuth
// @Param   category query string false "category filter"
// @Param   difficulty query string false "difficulty filter"
// @Param   limit query int false "page size" default(50)
// @Param   offset query int false "offset" default(0)
// @Success 200 {object} util.Response "catalog page"
// @Router /api/recommend/courses [get]
func (c *RecommendationController) ListCourses(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	courses, total, err := c.CourseRepo.List(ctx.Query("category"), ctx.Query("difficulty"), limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"courses": courses,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ExplainCourse godoc
// @Summary Explain a recommendation
// @Description Explains why a catalog course does or does not suit the student
// @Tags recommendations
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "course ID"
// @Param   student_id query int false "student ID (advisors only)"
// @Success 200 {object} util.Response{data=service.CourseExplanation} "explanation"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "course or student not found"
// @Router /api/recommend/explain/{courseId} [get]
func (c *RecommendationController) ExplainCourse(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("courseId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	explicit, _ := strconv.Atoi(ctx.DefaultQuery("student_id", "0"))
	studentID, err := scopedStudent(ctx, c.AuthService, uint(explicit))
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	course, err := c.CourseRepo.FindByID(uint(courseID))
	if err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	explanation, err := c.RecommendationService.Explain(ctx.Request.Context(), studentID, course.Name)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrStudentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, recommend.ErrInvalidRequest):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, explanation)
}

// swagger:model LearningPathRequest
type LearningPathRequest struct {
	StudentID  uint   `json:"student_id"`
	Goal       string `json:"goal"`
	NumCourses int    `json:"num_courses" binding:"omitempty,min=1,max=20"`
}

// LearningPath godoc
// @Summary Plan a learning path
// @Description Orders recommended courses into a multi-step study plan
// @Tags recommendations
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body LearningPathRequest true "path options"
// @Success 200 {object} util.Response{data=service.LearningPath} "ordered plan"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/recommend/learning-path [post]
func (c *RecommendationController) LearningPath(ctx *gin.Context) {
	var req LearningPathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	studentID, err := scopedStudent(ctx, c.AuthService, req.StudentID)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	path, err := c.RecommendationService.LearningPath(ctx.Request.Context(), studentID, req.Goal, req.NumCourses)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrStudentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, recommend.ErrInvalidRequest):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, path)
}
