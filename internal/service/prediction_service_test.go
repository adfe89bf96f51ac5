package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"student_portal_backend/internal/recommend"
)

func TestPredict_DifficultyAdjustments(t *testing.T) {
	t.Parallel()

	s := &PredictionService{}
	tests := []struct {
		name   string
		gpa    float64
		course string
		want   float64
	}{
		{name: "plain course keeps average", gpa: 82, course: "Data Structures", want: 82},
		{name: "advanced course costs five points", gpa: 82, course: "Advanced Python", want: 77},
		{name: "sequel course costs five points", gpa: 82, course: "Calculus II", want: 77},
		{name: "intro course adds five points", gpa: 82, course: "Intro to Programming", want: 87},
		{name: "fundamentals adds five points", gpa: 82, course: "Fundamentals of Databases", want: 87},
		{name: "no history starts from the baseline", gpa: 0, course: "Data Structures", want: 75},
		{name: "clamped at the top", gpa: 98, course: "Intro to Programming", want: 100},
		{name: "clamped at the bottom", gpa: 3, course: "Advanced Python", want: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := s.Predict(context.Background(), recommend.Features{GPA: tt.gpa}, tt.course)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Predict(%q, gpa=%v) = %v, want %v", tt.course, tt.gpa, got, tt.want)
			}
		})
	}
}

func TestPredict_RejectsOutOfRangeGPA(t *testing.T) {
	t.Parallel()

	s := &PredictionService{}
	for _, gpa := range []float64{-1, 100.5} {
		_, err := s.Predict(context.Background(), recommend.Features{GPA: gpa}, "Data Structures")
		if !errors.Is(err, recommend.ErrInvalidFeatures) {
			t.Errorf("Predict(gpa=%v) error = %v, want ErrInvalidFeatures", gpa, err)
		}
	}
}

func TestPredict_HonorsCancellation(t *testing.T) {
	t.Parallel()

	s := &PredictionService{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Predict(ctx, recommend.Features{GPA: 80}, "Data Structures"); !errors.Is(err, context.Canceled) {
		t.Errorf("Predict() error = %v, want context.Canceled", err)
	}
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current   float64
		predicted float64
		want      float64
	}{
		{current: 80, predicted: 83, want: 0.95},
		{current: 83, predicted: 80, want: 0.95},
		{current: 80, predicted: 85, want: 0.85},
		{current: 80, predicted: 89.9, want: 0.85},
		{current: 80, predicted: 90, want: 0.75},
		{current: 80, predicted: 95, want: 0.65},
		{current: 80, predicted: 100, want: 0.50},
		{current: 60, predicted: 95, want: 0.50},
	}
	for _, tt := range tests {
		if got := confidenceFor(tt.current, tt.predicted); got != tt.want {
			t.Errorf("confidenceFor(%v, %v) = %v, want %v", tt.current, tt.predicted, got, tt.want)
		}
	}
}

func TestRecommendedActions(t *testing.T) {
	t.Parallel()

	atRisk := RecommendedActions(recommend.RiskAtRisk, 0)
	if len(atRisk) != 8 {
		t.Fatalf("at-risk actions = %d, want 8", len(atRisk))
	}
	if atRisk[0] != "Schedule a meeting with an academic advisor immediately" {
		t.Errorf("at-risk lead action = %q", atRisk[0])
	}
	if atRisk[len(atRisk)-1] != "Focus on building a strong foundation in early courses" {
		t.Errorf("new-student extra = %q", atRisk[len(atRisk)-1])
	}

	average := RecommendedActions(recommend.RiskAverage, 3)
	if len(average) != 7 {
		t.Errorf("average actions = %d, want 7 with no extras", len(average))
	}

	excelling := RecommendedActions(recommend.RiskExcelling, 6)
	if len(excelling) != 8 {
		t.Fatalf("excelling actions = %d, want 8", len(excelling))
	}
	if excelling[len(excelling)-1] != "Consider planning for graduation requirements" {
		t.Errorf("senior extra = %q", excelling[len(excelling)-1])
	}
}

func TestPerformanceSummary(t *testing.T) {
	t.Parallel()

	got := performanceSummary("Dana", 72.5, 80, recommend.RiskAverage, "improving")
	want := "Dana currently has a GPA of 72.5 and is performing adequately. ML model predicts a final grade of 80.0, showing signs of improvement."
	if got != want {
		t.Errorf("performanceSummary() = %q, want %q", got, want)
	}

	got = performanceSummary("Eli", 55, 52, recommend.RiskAtRisk, "stable")
	want = "Eli currently has a GPA of 55.0 and needs immediate intervention. ML model predicts a final grade of 52.0, maintaining steady performance."
	if got != want {
		t.Errorf("performanceSummary() = %q, want %q", got, want)
	}
}
