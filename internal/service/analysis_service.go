package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"student_portal_backend/internal/model"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/util"
	"student_portal_backend/pkg/logger"

	"go.uber.org/zap"
)

// QueryCategories maps each classification category to its description. The
// list is embedded in the classification prompt.
var QueryCategories = map[string]string{
	"technical_support":     "Issues with platform, login, submission, technical problems",
	"academic_difficulty":   "Content too hard, need help understanding concepts, struggling with coursework",
	"administrative":        "Deadlines, schedules, policies, enrollment, grades questions",
	"feedback_positive":     "Praise, satisfaction, appreciation, positive comments",
	"feedback_negative":     "Complaints, suggestions for improvement, dissatisfaction",
	"career_guidance":       "Job prospects, career paths, industry questions, internships",
	"course_recommendation": "What courses to take next, prerequisites, learning paths",
	"at_risk_alert":         "Signs of dropping out, severe distress, mental health concerns, giving up",
	"general_question":      "Other inquiries that don't fit above categories",
}

// categoryOrder keeps the prompt listing stable across calls.
var categoryOrder = []string{
	"technical_support",
	"academic_difficulty",
	"administrative",
	"feedback_positive",
	"feedback_negative",
	"career_guidance",
	"course_recommendation",
	"at_risk_alert",
	"general_question",
}

// AnalysisService runs LLM-backed text analytics over student feedback:
// sentiment, classification, topics and the combined feedback pipeline.
type AnalysisService struct {
	AI         *AIService
	ReportRepo *repository.ReportRepository
	Storage    *StorageService
}

func NewAnalysisService(ai *AIService, reportRepo *repository.ReportRepository, storage *StorageService) *AnalysisService {
	return &AnalysisService{AI: ai, ReportRepo: reportRepo, Storage: storage}
}

// SentimentResult is the outcome of analyzing one text.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Text       string  `json:"text,omitempty"`
}

// EmotionCount pairs an emotion with how often it appeared.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// SentimentSummary aggregates a batch of sentiment results.
type SentimentSummary struct {
	TotalCount         int            `json:"total_count"`
	PositiveCount      int            `json:"positive_count"`
	NegativeCount      int            `json:"negative_count"`
	NeutralCount       int            `json:"neutral_count"`
	PositivePercentage float64        `json:"positive_percentage"`
	NegativePercentage float64        `json:"negative_percentage"`
	NeutralPercentage  float64        `json:"neutral_percentage"`
	AverageScore       float64        `json:"average_score"`
	CommonEmotions     []EmotionCount `json:"common_emotions"`
	OverallSentiment   string         `json:"overall_sentiment"`
}

// ExtremeSentiments lists feedback past the intensity threshold on each side.
type ExtremeSentiments struct {
	VeryPositive []SentimentResult `json:"very_positive"`
	VeryNegative []SentimentResult `json:"very_negative"`
}

// Classification is the outcome of routing one message.
type Classification struct {
	Category              string  `json:"category"`
	Confidence            float64 `json:"confidence"`
	Priority              string  `json:"priority"`
	RequiresAction        bool    `json:"requires_action"`
	SuggestedResponseTime string  `json:"suggested_response_time"`
	Reasoning             string  `json:"reasoning"`
	Text                  string  `json:"text,omitempty"`
}

// CategoryCount pairs a category with its message count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ClassificationSummary aggregates a batch of classifications.
type ClassificationSummary struct {
	TotalCount               int             `json:"total_count"`
	ByCategory               []CategoryCount `json:"by_category"`
	ByPriority               map[string]int  `json:"by_priority"`
	RequiresActionCount      int             `json:"requires_action_count"`
	RequiresActionPercentage float64         `json:"requires_action_percentage"`
}

// ClassificationReport bundles the batch details with the summary and the
// items that need a response.
type ClassificationReport struct {
	Summary      ClassificationSummary `json:"summary"`
	Details      []Classification      `json:"details"`
	HighPriority []Classification      `json:"high_priority"`
}

// Topic is one recurring theme identified across a feedback batch.
type Topic struct {
	Topic     string   `json:"topic"`
	Frequency float64  `json:"frequency"`
	Sentiment string   `json:"sentiment"`
	Examples  []string `json:"examples"`
	Keywords  []string `json:"keywords"`
}

// FeedbackItem is one raw feedback message entering the pipeline.
type FeedbackItem struct {
	StudentID uint   `json:"student_id"`
	Course    string `json:"course,omitempty"`
	Text      string `json:"text"`
}

// FeedbackAlert flags one student needing attention, with the evidence and a
// suggested action.
type FeedbackAlert struct {
	AlertID           int             `json:"alert_id"`
	StudentID         uint            `json:"student_id"`
	Course            string          `json:"course"`
	Text              string          `json:"text"`
	Sentiment         SentimentResult `json:"sentiment"`
	Classification    Classification  `json:"classification"`
	Priority          string          `json:"priority"`
	RecommendedAction string          `json:"recommended_action"`
}

// FeedbackAnalysis is the complete output of the feedback pipeline.
type FeedbackAnalysis struct {
	TotalFeedback    int                  `json:"total_feedback"`
	AnalyzedAt       time.Time            `json:"analysis_timestamp"`
	Sentiment        SentimentSummary     `json:"sentiment_analysis"`
	SentimentDetails []SentimentResult    `json:"sentiment_details"`
	Classifications  ClassificationReport `json:"classifications"`
	Topics           []Topic              `json:"topics"`
	Alerts           []FeedbackAlert      `json:"alerts"`
	Insights         []string             `json:"insights"`
	Recommendations  []string             `json:"recommendations"`
}

// AnalyzeSentiment scores one text. An empty text is neutral by definition; a
// malformed model response degrades to neutral with zero confidence.
func (s *AnalysisService) AnalyzeSentiment(ctx context.Context, text string) (*SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return &SentimentResult{
			Sentiment:  "neutral",
			Score:      0.0,
			Emotion:    "none",
			Confidence: 0.0,
			Reasoning:  "Empty text provided",
		}, nil
	}

	prompt := fmt.Sprintf(`Analyze the sentiment of this student feedback:

Text: "%s"

Respond in JSON format:
{
    "sentiment": "positive|negative|neutral",
    "score": -1.0 to +1.0 (where -1=very negative, 0=neutral, +1=very positive),
    "emotion": "primary emotion (joy, frustration, confusion, anxiety, satisfaction, disappointment, anger, excitement, boredom, etc.)",
    "confidence": 0.0 to 1.0,
    "reasoning": "brief explanation of the sentiment assessment"
}

Be precise and analytical. Consider tone, word choice, and context.`, text)

	messages := []AIChatMessage{
		{Role: "system", Content: "You are an expert sentiment analyzer specializing in educational feedback. Always respond with valid JSON."},
		{Role: "user", Content: prompt},
	}

	content, err := s.AI.Complete(ctx, messages, 0.3)
	if err != nil {
		return nil, err
	}

	var result SentimentResult
	if err := json.Unmarshal([]byte(stripMarkdownFences(content)), &result); err != nil {
		logger.Log.Warn("sentiment response parse failed", zap.Error(err))
		return &SentimentResult{
			Sentiment:  "neutral",
			Score:      0.0,
			Emotion:    "unknown",
			Confidence: 0.0,
			Reasoning:  fmt.Sprintf("Error parsing response: %v", err),
		}, nil
	}

	if result.Sentiment == "" {
		result.Sentiment = "unknown"
	}
	if result.Emotion == "" {
		result.Emotion = "unknown"
	}
	return &result, nil
}

// AnalyzeSentimentBatch scores each text. A failed call degrades that item to
// neutral instead of aborting the batch.
func (s *AnalysisService) AnalyzeSentimentBatch(ctx context.Context, texts []string, includeText bool) ([]SentimentResult, error) {
	results := make([]SentimentResult, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := s.AnalyzeSentiment(ctx, text)
		if err != nil {
			logger.Log.Warn("sentiment analysis failed for batch item", zap.Error(err))
			r = &SentimentResult{
				Sentiment:  "neutral",
				Score:      0.0,
				Emotion:    "error",
				Confidence: 0.0,
				Reasoning:  fmt.Sprintf("Error: %v", err),
			}
		}
		if includeText {
			r.Text = text
		}
		results = append(results, *r)
	}
	return results, nil
}

// SummarizeSentiments reduces a batch to counts, percentages, the average
// score and the dominant emotions.
func SummarizeSentiments(results []SentimentResult) SentimentSummary {
	if len(results) == 0 {
		return SentimentSummary{OverallSentiment: "neutral", CommonEmotions: []EmotionCount{}}
	}

	total := len(results)
	var positive, negative, neutral int
	var sum float64
	emotions := make(map[string]int)
	for _, r := range results {
		switch r.Sentiment {
		case "positive":
			positive++
		case "negative":
			negative++
		case "neutral":
			neutral++
		}
		sum += r.Score

		emotion := r.Emotion
		if emotion == "" {
			emotion = "unknown"
		}
		emotions[emotion]++
	}

	avg := sum / float64(total)
	overall := "neutral"
	if avg > 0.3 {
		overall = "positive"
	} else if avg < -0.3 {
		overall = "negative"
	}

	common := make([]EmotionCount, 0, len(emotions))
	for e, c := range emotions {
		common = append(common, EmotionCount{Emotion: e, Count: c})
	}
	sort.Slice(common, func(i, j int) bool {
		if common[i].Count != common[j].Count {
			return common[i].Count > common[j].Count
		}
		return common[i].Emotion < common[j].Emotion
	})
	if len(common) > 5 {
		common = common[:5]
	}

	return SentimentSummary{
		TotalCount:         total,
		PositiveCount:      positive,
		NegativeCount:      negative,
		NeutralCount:       neutral,
		PositivePercentage: float64(positive) / float64(total) * 100,
		NegativePercentage: float64(negative) / float64(total) * 100,
		NeutralPercentage:  float64(neutral) / float64(total) * 100,
		AverageScore:       avg,
		CommonEmotions:     common,
		OverallSentiment:   overall,
	}
}

// IdentifyExtremeSentiments picks out feedback past the given score
// threshold on either side, most intense first.
func IdentifyExtremeSentiments(results []SentimentResult, threshold float64) ExtremeSentiments {
	var extremes ExtremeSentiments
	for _, r := range results {
		if r.Score > threshold {
			extremes.VeryPositive = append(extremes.VeryPositive, r)
		} else if r.Score < -threshold {
			extremes.VeryNegative = append(extremes.VeryNegative, r)
		}
	}
	sort.Slice(extremes.VeryPositive, func(i, j int) bool {
		return extremes.VeryPositive[i].Score > extremes.VeryPositive[j].Score
	})
	sort.Slice(extremes.VeryNegative, func(i, j int) bool {
		return extremes.VeryNegative[i].Score < extremes.VeryNegative[j].Score
	})
	return extremes
}

// Classify routes one message into a category with priority and response
// guidance.
func (s *AnalysisService) Classify(ctx context.Context, text string) (*Classification, error) {
	if strings.TrimSpace(text) == "" {
		return &Classification{
			Category:              "general_question",
			Confidence:            0.0,
			Priority:              "low",
			RequiresAction:        false,
			SuggestedResponseTime: "N/A",
			Reasoning:             "Empty text provided",
		}, nil
	}

	var categories strings.Builder
	for _, cat := range categoryOrder {
		fmt.Fprintf(&categories, "- %s: %s\n", cat, QueryCategories[cat])
	}

	prompt := fmt.Sprintf(`Classify this student message into one category:

Message: "%s"

Available categories:
%s
Respond in JSON format:
{
    "category": "category_name",
    "confidence": 0.0-1.0,
    "priority": "critical|high|medium|low",
    "requires_action": true/false,
    "suggested_response_time": "< 1 hour | < 4 hours | < 24 hours | < 48 hours | standard",
    "reasoning": "brief explanation of why this category and priority"
}

Priority rules:
- CRITICAL: at_risk_alert (dropping out, severe distress)
- HIGH: academic_difficulty with strong negative tone, urgent technical issues
- MEDIUM: standard academic_difficulty, administrative questions, technical_support
- LOW: feedback_positive, general_question`, text, categories.String())

	messages := []AIChatMessage{
		{Role: "system", Content: "You are an expert at classifying student support requests. Always respond with valid JSON."},
		{Role: "user", Content: prompt},
	}

	content, err := s.AI.Complete(ctx, messages, 0.3)
	if err != nil {
		return nil, err
	}

	var result Classification
	if err := json.Unmarshal([]byte(stripMarkdownFences(content)), &result); err != nil {
		logger.Log.Warn("classification response parse failed", zap.Error(err))
		return &Classification{
			Category:              "general_question",
			Confidence:            0.0,
			Priority:              "low",
			RequiresAction:        false,
			SuggestedResponseTime: "standard",
			Reasoning:             fmt.Sprintf("Error parsing response: %v", err),
		}, nil
	}

	if result.Category == "" {
		result.Category = "general_question"
	}
	if result.Priority == "" {
		result.Priority = "low"
	}
	if result.SuggestedResponseTime == "" {
		result.SuggestedResponseTime = "standard"
	}
	return &result, nil
}

// ClassifyBatch routes each message. A failed call degrades that item to
// general_question instead of aborting the batch.
func (s *AnalysisService) ClassifyBatch(ctx context.Context, texts []string, includeText bool) ([]Classification, error) {
	results := make([]Classification, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := s.Classify(ctx, text)
		if err != nil {
			logger.Log.Warn("classification failed for batch item", zap.Error(err))
			c = &Classification{
				Category:              "general_question",
				Confidence:            0.0,
				Priority:              "low",
				RequiresAction:        false,
				SuggestedResponseTime: "standard",
				Reasoning:             fmt.Sprintf("Error: %v", err),
			}
		}
		if includeText {
			c.Text = text
		}
		results = append(results, *c)
	}
	return results, nil
}

// SummarizeClassifications reduces a batch to counts per category and
// priority.
func SummarizeClassifications(results []Classification) ClassificationSummary {
	if len(results) == 0 {
		return ClassificationSummary{ByCategory: []CategoryCount{}, ByPriority: map[string]int{}}
	}

	total := len(results)
	byCategory := make(map[string]int)
	byPriority := make(map[string]int)
	requiresAction := 0
	for _, r := range results {
		byCategory[r.Category]++
		byPriority[r.Priority]++
		if r.RequiresAction {
			requiresAction++
		}
	}

	categories := make([]CategoryCount, 0, len(byCategory))
	for cat, count := range byCategory {
		categories = append(categories, CategoryCount{Category: cat, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Category < categories[j].Category
	})

	return ClassificationSummary{
		TotalCount:               total,
		ByCategory:               categories,
		ByPriority:               byPriority,
		RequiresActionCount:      requiresAction,
		RequiresActionPercentage: float64(requiresAction) / float64(total) * 100,
	}
}

// ActionItems filters the classifications that need a response, most urgent
// first.
func ActionItems(results []Classification) []Classification {
	var items []Classification
	for _, r := range results {
		if r.RequiresAction || r.Priority == "critical" || r.Priority == "high" {
			items = append(items, r)
		}
	}
	order := map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}
	sort.SliceStable(items, func(i, j int) bool {
		return priorityRank(order, items[i].Priority) < priorityRank(order, items[j].Priority)
	})
	return items
}

func priorityRank(order map[string]int, priority string) int {
	if rank, ok := order[priority]; ok {
		return rank
	}
	return 3
}

// ExtractTopics finds recurring themes across a batch of texts. Up to 50
// messages are sampled, each truncated, to keep the prompt bounded.
func (s *AnalysisService) ExtractTopics(ctx context.Context, texts []string, maxTopics int) ([]Topic, error) {
	if len(texts) == 0 {
		return []Topic{}, nil
	}
	if maxTopics <= 0 {
		maxTopics = 5
	}

	sampleSize := len(texts)
	if sampleSize > 50 {
		sampleSize = 50
	}
	var combined strings.Builder
	for i, text := range texts[:sampleSize] {
		if len(text) > 200 {
			text = text[:200]
		}
		fmt.Fprintf(&combined, "%d. %s\n", i+1, text)
	}
	sample := strings.TrimRight(combined.String(), "\n")
	if len(sample) > 8000 {
		sample = sample[:8000] + "..."
	}

	prompt := fmt.Sprintf(`Analyze these %d student feedback messages and extract the %d most common topics/themes:

%s

Identify the main recurring topics. For each topic provide:
1. Topic name (short, descriptive)
2. Estimated frequency (what percentage of messages mention this)
3. Overall sentiment about this topic (positive/negative/neutral)
4. 2-3 example quotes from the feedback
5. Key words/phrases associated with this topic

Respond as a JSON array:
[
    {
        "topic": "Topic Name",
        "frequency": 0.35,
        "sentiment": "negative",
        "examples": ["quote 1", "quote 2"],
        "keywords": ["keyword1", "keyword2", "keyword3"]
    },
    ...
]

Focus on actionable topics that educators can address.`, sampleSize, maxTopics, sample)

	messages := []AIChatMessage{
		{Role: "system", Content: "You are an expert at identifying themes in student feedback. Always respond with valid JSON array."},
		{Role: "user", Content: prompt},
	}

	content, err := s.AI.Complete(ctx, messages, 0.5)
	if err != nil {
		return nil, err
	}

	var topics []Topic
	if err := json.Unmarshal([]byte(stripMarkdownFences(content)), &topics); err != nil {
		logger.Log.Warn("topics response parse failed", zap.Error(err))
		return []Topic{}, nil
	}

	for i := range topics {
		if topics[i].Topic == "" {
			topics[i].Topic = "Unknown Topic"
		}
		if topics[i].Sentiment == "" {
			topics[i].Sentiment = "neutral"
		}
	}
	return topics, nil
}

// ExtractKeywords pulls the key terms from one text.
func (s *AnalysisService) ExtractKeywords(ctx context.Context, text string, topK int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	if topK <= 0 {
		topK = 10
	}

	prompt := fmt.Sprintf(`Extract the %d most important keywords or phrases from this text:

"%s"

Return as a JSON array of strings: ["keyword1", "keyword2", ...]

Focus on meaningful terms (nouns, key concepts), not common words.`, topK, text)

	messages := []AIChatMessage{
		{Role: "system", Content: "You are an expert at keyword extraction. Always respond with valid JSON array."},
		{Role: "user", Content: prompt},
	}

	content, err := s.AI.Complete(ctx, messages, 0.3)
	if err != nil {
		return nil, err
	}

	var keywords []string
	if err := json.Unmarshal([]byte(stripMarkdownFences(content)), &keywords); err != nil {
		logger.Log.Warn("keywords response parse failed", zap.Error(err))
		return []string{}, nil
	}
	return keywords, nil
}

// AnalyzeFeedback runs the full pipeline over a batch: sentiment,
// classification, topics, alerts, insights and recommendations.
func (s *AnalysisService) AnalyzeFeedback(ctx context.Context, items []FeedbackItem) (*FeedbackAnalysis, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no feedback data provided")
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}

	sentiments, err := s.AnalyzeSentimentBatch(ctx, texts, false)
	if err != nil {
		return nil, err
	}

	classifications, err := s.ClassifyBatch(ctx, texts, false)
	if err != nil {
		return nil, err
	}

	topics, err := s.ExtractTopics(ctx, texts, 5)
	if err != nil {
		logger.Log.Warn("topic extraction failed", zap.Error(err))
		topics = []Topic{}
	}

	analysis := &FeedbackAnalysis{
		TotalFeedback:    len(items),
		AnalyzedAt:       time.Now(),
		Sentiment:        SummarizeSentiments(sentiments),
		SentimentDetails: sentiments,
		Classifications: ClassificationReport{
			Summary:      SummarizeClassifications(classifications),
			Details:      classifications,
			HighPriority: ActionItems(classifications),
		},
		Topics: topics,
	}

	for i := range items {
		sent := sentiments[i]
		classif := classifications[i]
		if !isAlert(sent, classif) {
			continue
		}
		analysis.Alerts = append(analysis.Alerts, FeedbackAlert{
			AlertID:           i + 1,
			StudentID:         items[i].StudentID,
			Course:            courseOrUnknown(items[i].Course),
			Text:              items[i].Text,
			Sentiment:         sent,
			Classification:    classif,
			Priority:          classif.Priority,
			RecommendedAction: recommendedAction(sent, classif),
		})
	}

	order := map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}
	sort.SliceStable(analysis.Alerts, func(i, j int) bool {
		return priorityRank(order, analysis.Alerts[i].Priority) < priorityRank(order, analysis.Alerts[j].Priority)
	})

	analysis.Insights = feedbackInsights(analysis)
	analysis.Recommendations = feedbackRecommendations(analysis)
	return analysis, nil
}

// isAlert decides whether one piece of feedback needs human attention.
func isAlert(sentiment SentimentResult, classification Classification) bool {
	if sentiment.Score < -0.7 {
		return true
	}
	if classification.Category == "at_risk_alert" {
		return true
	}
	if (classification.Priority == "critical" || classification.Priority == "high") && classification.RequiresAction {
		return true
	}
	switch sentiment.Emotion {
	case "anxiety", "anger", "despair":
		return true
	}
	return false
}

func recommendedAction(sentiment SentimentResult, classification Classification) string {
	category := classification.Category
	priority := classification.Priority
	score := sentiment.Score

	switch {
	case category == "at_risk_alert" || priority == "critical":
		return "URGENT: Contact student immediately via email/phone. Schedule emergency advisor meeting within 24 hours."
	case category == "academic_difficulty" && score < -0.6:
		return "HIGH PRIORITY: Reach out within 24-48 hours. Offer tutoring resources and academic support. Schedule check-in meeting."
	case category == "academic_difficulty":
		return "Offer tutoring resources and study groups. Check in within 3-5 days to monitor progress."
	case category == "technical_support":
		return "Forward to technical support team. Ensure issue is resolved within 24 hours."
	case category == "administrative":
		return "Respond with requested information within 24-48 hours."
	case score < -0.8:
		return "Very negative sentiment detected. Priority follow-up needed within 24 hours to address concerns."
	default:
		return "Standard follow-up. Respond within 48 hours."
	}
}

func feedbackInsights(analysis *FeedbackAnalysis) []string {
	var insights []string

	sent := analysis.Sentiment
	switch {
	case sent.AverageScore > 0.5:
		insights = append(insights, fmt.Sprintf("Overall sentiment is very positive (%.1f%% positive feedback)", sent.PositivePercentage))
	case sent.AverageScore > 0.2:
		insights = append(insights, fmt.Sprintf("Sentiment is generally positive (%.1f%% positive)", sent.PositivePercentage))
	case sent.AverageScore < -0.3:
		insights = append(insights, fmt.Sprintf("Overall sentiment is negative (%.1f%% negative feedback) - immediate attention needed", sent.NegativePercentage))
	default:
		insights = append(insights, "Sentiment is mixed or neutral")
	}

	if len(sent.CommonEmotions) > 0 {
		top := sent.CommonEmotions[0]
		insights = append(insights, fmt.Sprintf("Most common emotion: %s (%d occurrences)", top.Emotion, top.Count))
	}

	classif := analysis.Classifications.Summary
	if len(classif.ByCategory) > 0 {
		top := classif.ByCategory[0]
		insights = append(insights, fmt.Sprintf("Most common category: %s (%d messages)", top.Category, top.Count))
	}
	if classif.RequiresActionCount > 0 {
		insights = append(insights, fmt.Sprintf("%d messages require follow-up action", classif.RequiresActionCount))
	}

	if len(analysis.Alerts) > 0 {
		critical := 0
		for _, a := range analysis.Alerts {
			if a.Priority == "critical" {
				critical++
			}
		}
		if critical > 0 {
			insights = append(insights, fmt.Sprintf("CRITICAL: %d students show signs of severe distress or dropping out", critical))
		}
		insights = append(insights, fmt.Sprintf("%d total students need attention", len(analysis.Alerts)))
	} else {
		insights = append(insights, "No critical alerts - all students appear to be managing well")
	}

	var negativeTopics []string
	for _, t := range analysis.Topics {
		if t.Sentiment == "negative" {
			negativeTopics = append(negativeTopics, t.Topic)
		}
	}
	if len(negativeTopics) > 0 {
		if len(negativeTopics) > 3 {
			negativeTopics = negativeTopics[:3]
		}
		insights = append(insights, fmt.Sprintf("Topics with negative sentiment: %s", strings.Join(negativeTopics, ", ")))
	}

	return insights
}

func feedbackRecommendations(analysis *FeedbackAnalysis) []string {
	var recommendations []string

	if len(analysis.Alerts) > 5 {
		recommendations = append(recommendations, "High alert volume detected. Consider creating a systematic intervention plan.")
	}

	if analysis.Sentiment.NegativePercentage > 30 {
		recommendations = append(recommendations, "Over 30% negative feedback. Schedule course review meeting to address concerns.")
	}

	topics := analysis.Topics
	if len(topics) > 3 {
		topics = topics[:3]
	}
	for _, t := range topics {
		if t.Sentiment == "negative" && t.Frequency > 0.2 {
			recommendations = append(recommendations, fmt.Sprintf("'%s' is a major concern (%.0f%% of feedback). Prioritize addressing this.", t.Topic, t.Frequency*100))
		}
	}

	byCategory := make(map[string]int)
	for _, c := range analysis.Classifications.Summary.ByCategory {
		byCategory[c.Category] = c.Count
	}
	if float64(byCategory["academic_difficulty"]) > float64(analysis.TotalFeedback)*0.3 {
		recommendations = append(recommendations, "Many students report academic difficulty. Consider adjusting pace or providing additional resources.")
	}
	if byCategory["technical_support"] > 5 {
		recommendations = append(recommendations, "Multiple technical issues reported. Conduct system review and user training.")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No major issues identified. Continue current approach and monitor feedback regularly.")
	}
	return recommendations
}

// SaveFeedbackReport stores the full analysis as a JSON artifact and records
// it in the reports table.
func (s *AnalysisService) SaveFeedbackReport(ctx context.Context, analysis *FeedbackAnalysis, requestedBy uint) (*model.AnalysisReport, error) {
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}

	summary, err := json.Marshal(map[string]interface{}{
		"total_feedback":    analysis.TotalFeedback,
		"overall_sentiment": analysis.Sentiment.OverallSentiment,
		"alerts":            len(analysis.Alerts),
	})
	if err != nil {
		return nil, err
	}

	objectKey := util.ReportObjectPrefix + model.GenerateUUID() + ".json"
	if _, err := s.Storage.Upload(ctx, objectKey, bytes.NewReader(data), int64(len(data)), util.MimeJSON); err != nil {
		return nil, err
	}

	report := &model.AnalysisReport{
		Type:        model.ReportFeedback,
		RequestedBy: requestedBy,
		ItemCount:   analysis.TotalFeedback,
		ObjectKey:   objectKey,
		Summary:     summary,
	}
	if err := s.ReportRepo.Create(report); err != nil {
		s.Storage.Delete(ctx, objectKey)
		return nil, err
	}
	return report, nil
}

// SaveSentimentReport stores a batch sentiment run as a JSON artifact and
// records it in the reports table.
func (s *AnalysisService) SaveSentimentReport(ctx context.Context, results []SentimentResult, summary SentimentSummary, requestedBy uint) (*model.AnalysisReport, error) {
	artifact, err := json.Marshal(map[string]interface{}{
		"summary": summary,
		"details": results,
	})
	if err != nil {
		return nil, err
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	objectKey := util.ReportObjectPrefix + model.GenerateUUID() + ".json"
	if _, err := s.Storage.Upload(ctx, objectKey, bytes.NewReader(artifact), int64(len(artifact)), util.MimeJSON); err != nil {
		return nil, err
	}

	report := &model.AnalysisReport{
		Type:        model.ReportSentimentBatch,
		RequestedBy: requestedBy,
		ItemCount:   len(results),
		ObjectKey:   objectKey,
		Summary:     summaryJSON,
	}
	if err := s.ReportRepo.Create(report); err != nil {
		s.Storage.Delete(ctx, objectKey)
		return nil, err
	}
	return report, nil
}

// GetReport loads a report row and its stored artifact.
func (s *AnalysisService) GetReport(ctx context.Context, id string) (*model.AnalysisReport, []byte, error) {
	report, err := s.ReportRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, util.ErrReportNotFound
		}
		return nil, nil, err
	}

	reader, err := s.Storage.Download(ctx, report.ObjectKey)
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, err
	}
	return report, data, nil
}

func courseOrUnknown(course string) string {
	if course == "" {
		return "Unknown"
	}
	return course
}

// stripMarkdownFences unwraps a response the model wrapped in a ``` block.
func stripMarkdownFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	parts := strings.SplitN(content, "```", 3)
	if len(parts) < 2 {
		return content
	}
	inner := strings.TrimPrefix(parts[1], "json")
	return strings.TrimSpace(inner)
}
