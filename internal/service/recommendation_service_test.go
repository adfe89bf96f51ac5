package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"student_portal_backend/internal/model"
	"student_portal_backend/internal/recommend"
)

func TestOutcomeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *recommend.Result
		err    error
		want   string
	}{
		{name: "success", result: &recommend.Result{}, want: "ok"},
		{name: "insufficient data", result: &recommend.Result{InsufficientData: true}, want: "insufficient_data"},
		{name: "invalid request", err: recommend.ErrInvalidRequest, want: "invalid_request"},
		{name: "wrapped invalid request", err: fmt.Errorf("%w: top_n", recommend.ErrInvalidRequest), want: "invalid_request"},
		{name: "anything else", err: errors.New("boom"), want: "error"},
	}
	for _, tt := range tests {
		if got := outcomeLabel(tt.result, tt.err); got != tt.want {
			t.Errorf("%s: outcomeLabel() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRecommendCacheKey(t *testing.T) {
	t.Parallel()

	if got := recommendCacheKey(42, 5); got != "recommend:42:5" {
		t.Errorf("recommendCacheKey(42, 5) = %q", got)
	}
}

func TestToRecommendCourse(t *testing.T) {
	t.Parallel()

	course := model.Course{
		Name:          "Machine Learning Basics",
		Description:   "Introduction to ML concepts",
		Category:      "data_science",
		Difficulty:    "advanced",
		Prerequisites: []string{"Intro to Programming"},
		Objectives:    []string{"Understand supervised learning"},
	}
	got := toRecommendCourse(course)

	// The engine keys courses by name.
	if got.ID != "Machine Learning Basics" {
		t.Errorf("ID = %q, want course name", got.ID)
	}
	if got.Difficulty != recommend.Advanced {
		t.Errorf("Difficulty = %q, want advanced", got.Difficulty)
	}
	if len(got.Prerequisites) != 1 || got.Prerequisites[0] != "Intro to Programming" {
		t.Errorf("Prerequisites = %v", got.Prerequisites)
	}
}

func TestExplainRecommendation(t *testing.T) {
	t.Parallel()

	rec := recommend.Recommendation{
		Course: recommend.Course{
			ID:          "Web Development",
			Description: "Full-stack web development with modern tooling",
			Difficulty:  recommend.Intermediate,
			Objectives:  []string{"HTML", "CSS", "JavaScript", "HTTP", "Deployment"},
		},
		FinalScore: 0.82,
		Reasoning:  "Builds on your completed programming courses",
		ComponentScores: map[recommend.Source]float64{
			recommend.SourceSemantic:      0.9,
			recommend.SourceML:            0.8,
			recommend.SourceCollaborative: 0.7,
		},
	}
	got := explainRecommendation(rec)

	for _, want := range []string{
		"**Web Development** (Score: 0.82)",
		"Builds on your completed programming courses",
		"**Prerequisites:** None - perfect for starting!",
		"**Difficulty:** Intermediate",
		"- Content Similarity: 0.90",
		"- Predicted Success: 0.80",
		"- Peer Patterns: 0.70",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("explanation missing %q in:\n%s", want, got)
		}
	}

	// Objectives list is capped at four entries.
	if strings.Contains(got, "- Deployment") {
		t.Error("explanation lists a fifth objective, want at most four")
	}
	if !strings.Contains(got, "- HTTP") {
		t.Error("explanation dropped the fourth objective")
	}
}

func TestExplainRecommendation_WithPrerequisites(t *testing.T) {
	t.Parallel()

	rec := recommend.Recommendation{
		Course: recommend.Course{
			ID:            "Advanced Python",
			Difficulty:    recommend.Advanced,
			Prerequisites: []string{"Intro to Programming", "Data Structures"},
		},
		ComponentScores: map[recommend.Source]float64{},
	}
	got := explainRecommendation(rec)

	if !strings.Contains(got, "**Prerequisites:** Intro to Programming, Data Structures") {
		t.Errorf("explanation missing joined prerequisites:\n%s", got)
	}
}

func TestExplainCourse(t *testing.T) {
	t.Parallel()

	course := &model.Course{
		Name:        "Database Systems",
		Description: "Relational modelling and SQL",
		Category:    "data_science",
		Difficulty:  "intermediate",
		Objectives:  []string{"Normalize schemas", "Write efficient queries"},
	}
	got := explainCourse(course)

	for _, want := range []string{
		"**Database Systems**",
		"Relational modelling and SQL",
		"- Normalize schemas",
		"**Prerequisites:** None - perfect for beginners!",
		"**Difficulty:** Intermediate",
		"**Category:** Data Science",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("explanation missing %q in:\n%s", want, got)
		}
	}
}

func TestTitleWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "web", want: "Web"},
		{in: "data science", want: "Data Science"},
		{in: "machine learning basics", want: "Machine Learning Basics"},
	}
	for _, tt := range tests {
		if got := titleWords(tt.in); got != tt.want {
			t.Errorf("titleWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
