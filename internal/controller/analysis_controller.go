package controller

import (
	"encoding/json"
	"errors"
	"strconv"

	"student_portal_backend/internal/service"
	"student_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	AnalysisService *service.AnalysisService
}

func NewAnalysisController(analysisService *service.AnalysisService) *AnalysisController {
	return &AnalysisController{AnalysisService: analysisService}
}

// swagger:model SentimentRequest
type SentimentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnalyzeSentiment godoc
// @Summary Sentiment of one text
// @Description Scores a feedback text on a -1..1 scale with the dominant emotion
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SentimentRequest true "text to analyze"
// @Success 200 {object} util.Response{data=service.SentimentResult} "sentiment"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 502 {object} util.Response "model unavailable"
// @Router /api/analysis/sentiment [post]
func (c *AnalysisController) AnalyzeSentiment(ctx *gin.Context) {
	var req SentimentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalysisService.AnalyzeSentiment(ctx.Request.Context(), req.Text)
	if err != nil {
		util.Error(ctx, 502, "Sentiment analysis unavailable")
		return
	}

	util.Success(ctx, result)
}

// swagger:model BatchSentimentRequest
type BatchSentimentRequest struct {
	Texts     []string `json:"texts" binding:"required,min=1,max=200"`
	Threshold float64  `json:"threshold" binding:"omitempty,gt=0,lte=1"`
	Save      bool     `json:"save"`
}

// AnalyzeSentimentBatch godoc
// @Summary Sentiment of a batch
// @Description Scores each text, aggregates the batch and flags extreme feedback; optionally persists a report
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BatchSentimentRequest true "texts to analyze"
// @Success 200 {object} util.Response "summary, details and extremes"
// @Failure 400 {object} util.Response "invalid payload"
// @Router /api/analysis/batch-sentiment [post]
func (c *AnalysisController) AnalyzeSentimentBatch(ctx *gin.Context) {
	var req BatchSentimentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	results, err := c.AnalysisService.AnalyzeSentimentBatch(ctx.Request.Context(), req.Texts, true)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = 0.7
	}

	summary := service.SummarizeSentiments(results)
	extremes := service.IdentifyExtremeSentiments(results, threshold)

	resp := gin.H{
		"summary":  summary,
		"details":  results,
		"extremes": extremes,
	}

	if req.Save {
		claims := util.GetUserFromContext(ctx)
		report, err := c.AnalysisService.SaveSentimentReport(ctx.Request.Context(), results, summary, claims.UserID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		resp["report_id"] = report.ID
	}

	util.Success(ctx, resp)
}

// swagger:model ClassifyRequest
type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// Classify godoc
// @Summary Classify a message
// @Description Routes a student message into a support category with priority
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ClassifyRequest true "message to classify"
// @Success 200 {object} util.Response{data=service.Classification} "classification"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 502 {object} util.Response "model unavailable"
// @Router /api/analysis/classify [post]
func (c *AnalysisController) Classify(ctx *gin.Context) {
	var req ClassifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalysisService.Classify(ctx.Request.Context(), req.Text)
	if err != nil {
		util.Error(ctx, 502, "Classification unavailable")
		return
	}

	util.Success(ctx, result)
}

// swagger:model ClassifyBatchRequest
type ClassifyBatchRequest struct {
	Texts []string `json:"texts" binding:"required,min=1,max=200"`
}

// ClassifyBatch godoc
// @Summary Classify a batch
// @Description Classifies each message and returns the routing summary with action items
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ClassifyBatchRequest true "messages to classify"
// @Success 200 {object} util.Response{data=service.ClassificationReport} "report"
// @Failure 400 {object} util.Response "invalid payload"
// @Router /api/analysis/batch-classify [post]
func (c *AnalysisController) ClassifyBatch(ctx *gin.Context) {
	var req ClassifyBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	results, err := c.AnalysisService.ClassifyBatch(ctx.Request.Context(), req.Texts, true)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, service.ClassificationReport{
		Summary:      service.SummarizeClassifications(results),
		Details:      results,
		HighPriority: service.ActionItems(results),
	})
}

// swagger:model TopicsRequest
type TopicsRequest struct {
	Texts     []string `json:"texts" binding:"required,min=1,max=500"`
	MaxTopics int      `json:"max_topics" binding:"omitempty,min=1,max=20"`
}

// ExtractTopics godoc
// @Summary Recurring topics
// @Description Identifies the main themes across a batch of feedback texts
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body TopicsRequest true "texts to mine"
// @Success 200 {object} util.Response "topics"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 502 {object} util.Response "model unavailable"
// @Router /api/analysis/topics [post]
func (c *AnalysisController) ExtractTopics(ctx *gin.Context) {
	var req TopicsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	maxTopics := req.MaxTopics
	if maxTopics == 0 {
		maxTopics = 5
	}

	topics, err := c.AnalysisService.ExtractTopics(ctx.Request.Context(), req.Texts, maxTopics)
	if err != nil {
		util.Error(ctx, 502, "Topic extraction unavailable")
		return
	}

	util.Success(ctx, gin.H{"topics": topics, "total_texts": len(req.Texts)})
}

// swagger:model KeywordsRequest
type KeywordsRequest struct {
	Text string `json:"text" binding:"required"`
	TopK int    `json:"top_k" binding:"omitempty,min=1,max=50"`
}

// ExtractKeywords godoc
// @Summary Keywords of one text
// @Description Pulls the most important keywords and phrases from a text
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body KeywordsRequest true "text to mine"
// @Success 200 {object} util.Response "keywords"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 502 {object} util.Response "model unavailable"
// @Router /api/analysis/keywords [post]
func (c *AnalysisController) ExtractKeywords(ctx *gin.Context) {
	var req KeywordsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	keywords, err := c.AnalysisService.ExtractKeywords(ctx.Request.Context(), req.Text, req.TopK)
	if err != nil {
		util.Error(ctx, 502, "Keyword extraction unavailable")
		return
	}

	util.Success(ctx, gin.H{"keywords": keywords})
}

// swagger:model FeedbackRequest
type FeedbackRequest struct {
	Items []service.FeedbackItem `json:"items" binding:"required,min=1,max=200"`
	Save  bool                   `json:"save"`
}

// AnalyzeFeedback godoc
// @Summary Full feedback pipeline
// @Description Runs sentiment, classification and topics over a feedback batch and raises alerts
// @Tags analysis
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body FeedbackRequest true "feedback batch"
// @Success 200 {object} util.Response{data=service.FeedbackAnalysis} "analysis"
// @Failure 400 {object} util.Response "invalid payload"
// @Router /api/analysis/feedback [post]
func (c *AnalysisController) AnalyzeFeedback(ctx *gin.Context) {
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	analysis, err := c.AnalysisService.AnalyzeFeedback(ctx.Request.Context(), req.Items)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if req.Save {
		claims := util.GetUserFromContext(ctx)
		report, err := c.AnalysisService.SaveFeedbackReport(ctx.Request.Context(), analysis, claims.UserID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"report_id": report.ID, "analysis": analysis})
		return
	}

	util.Success(ctx, analysis)
}

// ListReports godoc
// @Summary List saved reports
// @Description Returns the caller's persisted analysis reports, newest first
// @Tags analysis
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "page size" default(20)
// @Param   offset query int false "offset" default(0)
// @Success 200 {object} util.Response "report list"
// @Router /api/analysis/reports [get]
func (c *AnalysisController) ListReports(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	reports, total, err := c.AnalysisService.ReportRepo.ListByUser(claims.UserID, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"reports": reports, "total": total, "limit": limit, "offset": offset})
}

// GetReport godoc
// @Summary Fetch a saved report
// @Description Returns the report record with the stored analysis payload
// @Tags analysis
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "report ID"
// @Success 200 {object} util.Response "report and payload"
// @Failure 404 {object} util.Response "report not found"
// @Router /api/analysis/reports/{id} [get]
func (c *AnalysisController) GetReport(ctx *gin.Context) {
	report, payload, err := c.AnalysisService.GetReport(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrReportNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"report": report, "analysis": json.RawMessage(payload)})
}
