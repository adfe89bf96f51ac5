package service

import (
	"math"
	"strings"
	"testing"
)

func TestStripMarkdownFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain json untouched", content: `{"sentiment": "positive"}`, want: `{"sentiment": "positive"}`},
		{name: "json fence", content: "```json\n{\"score\": 0.5}\n```", want: `{"score": 0.5}`},
		{name: "bare fence", content: "```\n[1, 2]\n```", want: `[1, 2]`},
		{name: "surrounding whitespace", content: "  \n{\"a\": 1}\n  ", want: `{"a": 1}`},
		{name: "unclosed fence", content: "```json\n{\"a\": 1}", want: `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := stripMarkdownFences(tt.content); got != tt.want {
			t.Errorf("%s: stripMarkdownFences() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSummarizeSentiments_Empty(t *testing.T) {
	t.Parallel()

	summary := SummarizeSentiments(nil)
	if summary.OverallSentiment != "neutral" {
		t.Errorf("OverallSentiment = %q, want neutral", summary.OverallSentiment)
	}
	if summary.CommonEmotions == nil || len(summary.CommonEmotions) != 0 {
		t.Errorf("CommonEmotions = %v, want empty slice", summary.CommonEmotions)
	}
}

func TestSummarizeSentiments_MixedBatch(t *testing.T) {
	t.Parallel()

	results := []SentimentResult{
		{Sentiment: "positive", Score: 0.8, Emotion: "joy"},
		{Sentiment: "positive", Score: 0.6, Emotion: "joy"},
		{Sentiment: "negative", Score: -0.9, Emotion: "frustration"},
		{Sentiment: "neutral", Score: 0, Emotion: ""},
	}
	summary := SummarizeSentiments(results)

	if summary.TotalCount != 4 || summary.PositiveCount != 2 || summary.NegativeCount != 1 || summary.NeutralCount != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want 4/2/1/1",
			summary.TotalCount, summary.PositiveCount, summary.NegativeCount, summary.NeutralCount)
	}
	if summary.PositivePercentage != 50 || summary.NegativePercentage != 25 {
		t.Errorf("percentages = %v/%v, want 50/25", summary.PositivePercentage, summary.NegativePercentage)
	}
	if math.Abs(summary.AverageScore-0.125) > 1e-9 {
		t.Errorf("AverageScore = %v, want 0.125", summary.AverageScore)
	}
	// 0.125 sits inside the neutral band.
	if summary.OverallSentiment != "neutral" {
		t.Errorf("OverallSentiment = %q, want neutral", summary.OverallSentiment)
	}

	if len(summary.CommonEmotions) != 3 {
		t.Fatalf("CommonEmotions = %v, want 3 entries", summary.CommonEmotions)
	}
	if summary.CommonEmotions[0].Emotion != "joy" || summary.CommonEmotions[0].Count != 2 {
		t.Errorf("top emotion = %+v, want joy x2", summary.CommonEmotions[0])
	}
	// Ties break alphabetically; empty emotions count as unknown.
	if summary.CommonEmotions[1].Emotion != "frustration" || summary.CommonEmotions[2].Emotion != "unknown" {
		t.Errorf("emotion order = %+v", summary.CommonEmotions)
	}
}

func TestSummarizeSentiments_OverallBands(t *testing.T) {
	t.Parallel()

	positive := SummarizeSentiments([]SentimentResult{
		{Sentiment: "positive", Score: 0.8, Emotion: "joy"},
		{Sentiment: "positive", Score: 0.4, Emotion: "joy"},
	})
	if positive.OverallSentiment != "positive" {
		t.Errorf("OverallSentiment = %q, want positive", positive.OverallSentiment)
	}

	negative := SummarizeSentiments([]SentimentResult{
		{Sentiment: "negative", Score: -0.9, Emotion: "anger"},
		{Sentiment: "negative", Score: -0.5, Emotion: "anger"},
	})
	if negative.OverallSentiment != "negative" {
		t.Errorf("OverallSentiment = %q, want negative", negative.OverallSentiment)
	}
}

func TestSummarizeSentiments_TopFiveEmotions(t *testing.T) {
	t.Parallel()

	results := make([]SentimentResult, 0, 7)
	for _, e := range []string{"joy", "anger", "fear", "boredom", "anxiety", "relief", "pride"} {
		results = append(results, SentimentResult{Sentiment: "neutral", Emotion: e})
	}
	summary := SummarizeSentiments(results)
	if len(summary.CommonEmotions) != 5 {
		t.Errorf("CommonEmotions = %d entries, want 5", len(summary.CommonEmotions))
	}
}

func TestIdentifyExtremeSentiments(t *testing.T) {
	t.Parallel()

	results := []SentimentResult{
		{Text: "loved it", Score: 0.9},
		{Text: "pretty good", Score: 0.75},
		{Text: "at the line", Score: 0.7},
		{Text: "meh", Score: 0},
		{Text: "bad", Score: -0.8},
		{Text: "awful", Score: -0.95},
	}
	extremes := IdentifyExtremeSentiments(results, 0.7)

	if len(extremes.VeryPositive) != 2 {
		t.Fatalf("VeryPositive = %d entries, want 2 (threshold is exclusive)", len(extremes.VeryPositive))
	}
	if extremes.VeryPositive[0].Text != "loved it" {
		t.Errorf("most positive = %q, want loved it", extremes.VeryPositive[0].Text)
	}

	if len(extremes.VeryNegative) != 2 {
		t.Fatalf("VeryNegative = %d entries, want 2", len(extremes.VeryNegative))
	}
	if extremes.VeryNegative[0].Text != "awful" {
		t.Errorf("most negative = %q, want awful", extremes.VeryNegative[0].Text)
	}
}

func TestSummarizeClassifications(t *testing.T) {
	t.Parallel()

	empty := SummarizeClassifications(nil)
	if empty.ByCategory == nil || empty.ByPriority == nil {
		t.Error("empty summary should carry empty containers, not nil")
	}

	results := []Classification{
		{Category: "academic_difficulty", Priority: "high", RequiresAction: true},
		{Category: "academic_difficulty", Priority: "medium"},
		{Category: "academic_difficulty", Priority: "medium"},
		{Category: "technical_support", Priority: "low", RequiresAction: true},
	}
	summary := SummarizeClassifications(results)

	if summary.TotalCount != 4 {
		t.Errorf("TotalCount = %d, want 4", summary.TotalCount)
	}
	if summary.ByCategory[0].Category != "academic_difficulty" || summary.ByCategory[0].Count != 3 {
		t.Errorf("top category = %+v, want academic_difficulty x3", summary.ByCategory[0])
	}
	if summary.ByPriority["medium"] != 2 || summary.ByPriority["high"] != 1 {
		t.Errorf("ByPriority = %v", summary.ByPriority)
	}
	if summary.RequiresActionCount != 2 || summary.RequiresActionPercentage != 50 {
		t.Errorf("requires action = %d (%v%%), want 2 (50%%)",
			summary.RequiresActionCount, summary.RequiresActionPercentage)
	}
}

func TestActionItems(t *testing.T) {
	t.Parallel()

	results := []Classification{
		{Text: "a", Priority: "low", RequiresAction: true},
		{Text: "b", Priority: "critical"},
		{Text: "c", Priority: "medium"},
		{Text: "d", Priority: "high"},
	}
	items := ActionItems(results)

	if len(items) != 3 {
		t.Fatalf("ActionItems = %d entries, want 3", len(items))
	}
	got := []string{items[0].Text, items[1].Text, items[2].Text}
	want := []string{"b", "d", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q (order %v)", i, got[i], want[i], got)
		}
	}
}

func TestActionItems_StableWithinPriority(t *testing.T) {
	t.Parallel()

	results := []Classification{
		{Text: "first", Priority: "high"},
		{Text: "second", Priority: "high"},
	}
	items := ActionItems(results)
	if items[0].Text != "first" || items[1].Text != "second" {
		t.Errorf("equal priorities reordered: %q, %q", items[0].Text, items[1].Text)
	}
}

func TestIsAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		sentiment      SentimentResult
		classification Classification
		want           bool
	}{
		{
			name:      "very negative score",
			sentiment: SentimentResult{Score: -0.71},
			want:      true,
		},
		{
			name:           "at risk category",
			classification: Classification{Category: "at_risk_alert"},
			want:           true,
		},
		{
			name:           "critical and actionable",
			classification: Classification{Priority: "critical", RequiresAction: true},
			want:           true,
		},
		{
			name:           "critical but nothing to do",
			classification: Classification{Priority: "critical"},
			want:           false,
		},
		{
			name:      "flagged emotion",
			sentiment: SentimentResult{Score: -0.2, Emotion: "anxiety"},
			want:      true,
		},
		{
			name:           "benign feedback",
			sentiment:      SentimentResult{Score: 0.4, Emotion: "joy"},
			classification: Classification{Category: "feedback_positive", Priority: "low"},
			want:           false,
		},
	}
	for _, tt := range tests {
		if got := isAlert(tt.sentiment, tt.classification); got != tt.want {
			t.Errorf("%s: isAlert() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRecommendedAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		sentiment      SentimentResult
		classification Classification
		wantPrefix     string
	}{
		{
			name:           "at risk is urgent",
			classification: Classification{Category: "at_risk_alert"},
			wantPrefix:     "URGENT:",
		},
		{
			name:           "critical priority is urgent regardless of category",
			classification: Classification{Category: "general_question", Priority: "critical"},
			wantPrefix:     "URGENT:",
		},
		{
			name:           "struggling and upset",
			sentiment:      SentimentResult{Score: -0.7},
			classification: Classification{Category: "academic_difficulty"},
			wantPrefix:     "HIGH PRIORITY:",
		},
		{
			name:           "struggling but calm",
			sentiment:      SentimentResult{Score: -0.2},
			classification: Classification{Category: "academic_difficulty"},
			wantPrefix:     "Offer tutoring resources",
		},
		{
			name:           "technical issue",
			classification: Classification{Category: "technical_support"},
			wantPrefix:     "Forward to technical support",
		},
		{
			name:           "administrative question",
			classification: Classification{Category: "administrative"},
			wantPrefix:     "Respond with requested information",
		},
		{
			name:           "very negative without a category match",
			sentiment:      SentimentResult{Score: -0.9},
			classification: Classification{Category: "general_question"},
			wantPrefix:     "Very negative sentiment detected",
		},
		{
			name:           "everything else",
			classification: Classification{Category: "feedback_positive", Priority: "low"},
			wantPrefix:     "Standard follow-up",
		},
	}
	for _, tt := range tests {
		got := recommendedAction(tt.sentiment, tt.classification)
		if !strings.HasPrefix(got, tt.wantPrefix) {
			t.Errorf("%s: recommendedAction() = %q, want prefix %q", tt.name, got, tt.wantPrefix)
		}
	}
}

func TestFeedbackInsights(t *testing.T) {
	t.Parallel()

	analysis := &FeedbackAnalysis{
		TotalFeedback: 4,
		Sentiment: SentimentSummary{
			AverageScore:       -0.5,
			NegativePercentage: 75,
			CommonEmotions:     []EmotionCount{{Emotion: "frustration", Count: 3}},
		},
		Classifications: ClassificationReport{
			Summary: ClassificationSummary{
				ByCategory:          []CategoryCount{{Category: "academic_difficulty", Count: 3}},
				RequiresActionCount: 2,
			},
		},
		Alerts: []FeedbackAlert{
			{Priority: "critical"},
			{Priority: "high"},
		},
		Topics: []Topic{
			{Topic: "Pacing", Sentiment: "negative"},
			{Topic: "Labs", Sentiment: "positive"},
		},
	}

	insights := feedbackInsights(analysis)
	joined := strings.Join(insights, "\n")

	for _, want := range []string{
		"immediate attention needed",
		"Most common emotion: frustration (3 occurrences)",
		"Most common category: academic_difficulty (3 messages)",
		"2 messages require follow-up action",
		"CRITICAL: 1 students show signs of severe distress",
		"2 total students need attention",
		"Topics with negative sentiment: Pacing",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("insights missing %q in:\n%s", want, joined)
		}
	}
}

func TestFeedbackInsights_AllClear(t *testing.T) {
	t.Parallel()

	analysis := &FeedbackAnalysis{
		TotalFeedback: 2,
		Sentiment:     SentimentSummary{AverageScore: 0.6, PositivePercentage: 100},
	}
	insights := feedbackInsights(analysis)
	joined := strings.Join(insights, "\n")

	if !strings.Contains(joined, "very positive") {
		t.Errorf("insights missing positive note in:\n%s", joined)
	}
	if !strings.Contains(joined, "No critical alerts") {
		t.Errorf("insights missing all-clear note in:\n%s", joined)
	}
}

func TestFeedbackRecommendations(t *testing.T) {
	t.Parallel()

	analysis := &FeedbackAnalysis{
		TotalFeedback: 10,
		Sentiment:     SentimentSummary{NegativePercentage: 40},
		Alerts:        make([]FeedbackAlert, 6),
		Topics: []Topic{
			{Topic: "Slow grading", Sentiment: "negative", Frequency: 0.3},
		},
		Classifications: ClassificationReport{
			Summary: ClassificationSummary{
				ByCategory: []CategoryCount{
					{Category: "academic_difficulty", Count: 4},
					{Category: "technical_support", Count: 6},
				},
			},
		},
	}

	recs := feedbackRecommendations(analysis)
	joined := strings.Join(recs, "\n")

	for _, want := range []string{
		"systematic intervention plan",
		"Over 30% negative feedback",
		"'Slow grading' is a major concern (30% of feedback)",
		"adjusting pace",
		"Conduct system review",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("recommendations missing %q in:\n%s", want, joined)
		}
	}
}

func TestFeedbackRecommendations_NoIssues(t *testing.T) {
	t.Parallel()

	analysis := &FeedbackAnalysis{
		TotalFeedback: 5,
		Sentiment:     SentimentSummary{NegativePercentage: 10},
	}
	recs := feedbackRecommendations(analysis)
	if len(recs) != 1 || !strings.Contains(recs[0], "No major issues identified") {
		t.Errorf("recommendations = %v, want the single all-clear entry", recs)
	}
}
