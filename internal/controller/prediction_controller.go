package controller

import (
	"strconv"

	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/service"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PredictionController struct {
	PredictionService *service.PredictionService
	StudentRepo       *repository.StudentRepository
	AuthService       *service.AuthService
}

func NewPredictionController(
	predictionService *service.PredictionService,
	studentRepo *repository.StudentRepository,
	authService *service.AuthService,
) *PredictionController {
	return &PredictionController{
		PredictionService: predictionService,
		StudentRepo:       studentRepo,
		AuthService:       authService,
	}
}

// resolveStudent scopes the request and confirms the student exists.
func (c *PredictionController) resolveStudent(ctx *gin.Context) (uint, bool) {
	explicit, _ := strconv.Atoi(ctx.DefaultQuery("student_id", "0"))
	studentID, err := scopedStudent(ctx, c.AuthService, uint(explicit))
	if err != nil {
		respondScopeError(ctx, err)
		return 0, false
	}
	if _, err := c.StudentRepo.FindByID(studentID); err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return 0, false
	}
	return studentID, true
}

// PredictPerformance godoc
// @Summary Predict course performance
// @Description Predicts the final grade for one course, with risk level and confidence
// @Tags predictions
// @Produce  json
// @Security ApiKeyAuth
// @Param   course query string false "course name; empty predicts overall performance"
// @Param   student_id query int false "student ID (advisors only)"
// @Success 200 {object} util.Response{data=service.PerformancePrediction} "prediction"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/predict/performance [get]
func (c *PredictionController) PredictPerformance(ctx *gin.Context) {
	studentID, ok := c.resolveStudent(ctx)
	if !ok {
		return
	}

	prediction, err := c.PredictionService.PredictPerformance(ctx.Request.Context(), studentID, ctx.Query("course"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, prediction)
}

// GetInsights godoc
// @Summary Performance insights
// @Description Returns the prediction plus trend, recommended actions and a summary
// @Tags predictions
// @Produce  json
// @Security ApiKeyAuth
// @Param   student_id query int false "student ID (advisors only)"
// @Success 200 {object} util.Response{data=service.StudentInsights} "insights"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/predict/insights [get]
func (c *PredictionController) GetInsights(ctx *gin.Context) {
	explicit, _ := strconv.Atoi(ctx.DefaultQuery("student_id", "0"))
	studentID, err := scopedStudent(ctx, c.AuthService, uint(explicit))
	if err != nil {
		respondScopeError(ctx, err)
		return
	}

	insights, err := c.PredictionService.GenerateInsights(ctx.Request.Context(), studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, insights)
}

// GetFeatures godoc
// @Summary Predictor inputs
// @Description Exposes the feature vector the grade predictor sees for a student
// @Tags predictions
// @Produce  json
// @Security ApiKeyAuth
// @Param   student_id query int false "student ID (advisors only)"
// @Success 200 {object} util.Response{data=recommend.Features} "features"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/predict/features [get]
func (c *PredictionController) GetFeatures(ctx *gin.Context) {
	studentID, ok := c.resolveStudent(ctx)
	if !ok {
		return
	}

	features, err := c.PredictionService.Features(studentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"student_id": studentID, "features": features})
}

// swagger:model PredictBatchRequest
type PredictBatchRequest struct {
	StudentID uint     `json:"student_id"`
	Courses   []string `json:"courses" binding:"required,min=1,max=50"`
}

// PredictBatch godoc
// @Summary Batch grade predictions
// @Description Predicts final grades for several courses in one call
// @Tags predictions
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body PredictBatchRequest true "courses to predict"
// @Success 200 {object} util.Response "predictions keyed by course"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 403 {object} util.Response "forbidden"
// @Failure 404 {object} util.Response "student not found"
// @Router /api/predict/batch [post]
func (c *PredictionController) PredictBatch(ctx *gin.Context) {
	var req PredictBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	explicit := req.StudentID
	studentID, err := scopedStudent(ctx, c.AuthService, explicit)
	if err != nil {
		respondScopeError(ctx, err)
		return
	}
	if _, err := c.StudentRepo.FindByID(studentID); err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	predictions, err := c.PredictionService.PredictBatch(ctx.Request.Context(), studentID, req.Courses)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"student_id": studentID, "predictions": predictions})
}
