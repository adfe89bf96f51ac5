package recommend

import (
	"context"
	"errors"
	"fmt"
)

// Source identifies a scoring component in the hybrid blend.
type Source string

const (
	SourceSemantic      Source = "semantic"
	SourceML            Source = "ml"
	SourceCollaborative Source = "collaborative"
)

// Difficulty is the ordered course difficulty scale.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Course is one catalog entry. The ID doubles as the human-readable course
// name ("Python Fundamentals"); it is the unique key everywhere.
type Course struct {
	ID            string     `json:"id"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Prerequisites []string   `json:"prerequisites"`
	Objectives    []string   `json:"objectives,omitempty"`
}

// CompletedCourse pairs a course id with the grade earned (0-100).
type CompletedCourse struct {
	CourseID string  `json:"course_id"`
	Grade    float64 `json:"grade"`
}

// StudentProfile is the read-only input describing the requesting student.
// GPA is on the 0-100 scale, matching grades.
type StudentProfile struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Completed []CompletedCourse `json:"completed"`
	Enrolled  []string          `json:"enrolled"`
	GPA       float64           `json:"gpa"`
	Interests string            `json:"interests,omitempty"`
}

// CompletedIDs returns the completed course ids in history order.
func (p StudentProfile) CompletedIDs() []string {
	ids := make([]string, len(p.Completed))
	for i, c := range p.Completed {
		ids[i] = c.CourseID
	}
	return ids
}

// AverageGrade returns the mean grade over completed courses, or 0 when the
// student has no history.
func (p StudentProfile) AverageGrade() float64 {
	if len(p.Completed) == 0 {
		return 0
	}
	var sum float64
	for _, c := range p.Completed {
		sum += c.Grade
	}
	return sum / float64(len(p.Completed))
}

// ComponentScore is a tagged score: either a present value in [0,1] or an
// explicit abstention. A zero score and a missing score are different things;
// the blender redistributes weight only for abstentions.
type ComponentScore struct {
	value   float64
	present bool
}

// Present wraps a concrete score.
func Present(v float64) ComponentScore {
	return ComponentScore{value: v, present: true}
}

// Abstained marks a component as having no valid score for a course.
func Abstained() ComponentScore {
	return ComponentScore{}
}

// Value returns the score and whether one is present.
func (s ComponentScore) Value() (float64, bool) {
	return s.value, s.present
}

// IsPresent reports whether the component produced a score.
func (s ComponentScore) IsPresent() bool {
	return s.present
}

// Weights holds the blend weights per component. They are renormalized over
// the available components at scoring time, so they need not sum to 1.0.
type Weights struct {
	Semantic      float64 `json:"semantic"`
	ML            float64 `json:"ml"`
	Collaborative float64 `json:"collaborative"`
}

// DefaultWeights returns the standard 0.40/0.35/0.25 blend.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.40, ML: 0.35, Collaborative: 0.25}
}

// Validate rejects negative weights and all-zero weight sets.
func (w Weights) Validate() error {
	if w.Semantic < 0 || w.ML < 0 || w.Collaborative < 0 {
		return fmt.Errorf("%w: weights must be non-negative", ErrInvalidRequest)
	}
	if w.Semantic+w.ML+w.Collaborative <= 0 {
		return fmt.Errorf("%w: weights must have a positive sum", ErrInvalidRequest)
	}
	return nil
}

func (w Weights) of(src Source) float64 {
	switch src {
	case SourceSemantic:
		return w.Semantic
	case SourceML:
		return w.ML
	case SourceCollaborative:
		return w.Collaborative
	}
	return 0
}

// Request carries one recommendation call. Cohort lists the other students
// considered for collaborative filtering; their completed sets are fetched
// through the CohortStore.
type Request struct {
	Student StudentProfile
	Catalog []Course
	Cohort  []StudentProfile
	TopN    int
	// Weights overrides the default blend when non-nil.
	Weights *Weights
}

// Recommendation is one ranked output row.
type Recommendation struct {
	Course          Course             `json:"course"`
	FinalScore      float64            `json:"final_score"`
	Confidence      float64            `json:"confidence"`
	Reasoning       string             `json:"reasoning"`
	ComponentScores map[Source]float64 `json:"component_scores"`
}

// Result is the outcome of a Recommend call. InsufficientData is set when
// every candidate was dropped because all components abstained; that case is
// an empty list, not an error.
type Result struct {
	Recommendations  []Recommendation `json:"recommendations"`
	TotalCandidates  int              `json:"total_candidates"`
	InsufficientData bool             `json:"insufficient_data"`
}

// Features is the fixed feature vector handed to the grade predictor.
type Features struct {
	GPA            float64 `json:"gpa"`
	CompletedCount int     `json:"completed_count"`
	EnrolledCount  int     `json:"enrolled_count"`
}

// RiskLevel classifies a predicted grade.
type RiskLevel string

const (
	RiskAtRisk    RiskLevel = "at_risk"
	RiskAverage   RiskLevel = "average"
	RiskExcelling RiskLevel = "excelling"
)

// RiskFromGrade buckets a 0-100 grade: <70 at_risk, 70-85 average,
// >85 excelling.
func RiskFromGrade(grade float64) RiskLevel {
	switch {
	case grade < 70:
		return RiskAtRisk
	case grade <= 85:
		return RiskAverage
	default:
		return RiskExcelling
	}
}

// EmbeddingProvider produces a fixed-length vector for a piece of text.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// GradePredictor returns a predicted grade in [0,100] for a student/course
// pair. Implementations signal a missing model with ErrModelUnavailable and
// bad inputs with ErrInvalidFeatures.
type GradePredictor interface {
	Predict(ctx context.Context, features Features, courseID string) (float64, error)
}

// CohortStore resolves a cohort member's completed course set.
type CohortStore interface {
	CompletedCoursesOf(ctx context.Context, studentID int) ([]string, error)
}

// Sentinel errors for the core and its collaborator interfaces.
var (
	// ErrInvalidRequest marks malformed input: non-positive top_n, an empty
	// catalog, unknown course references, bad weights. It is the only error
	// class Recommend returns for request content.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderUnavailable signals the embedding service cannot be reached.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrRateLimited signals the embedding service rejected the call.
	ErrRateLimited = errors.New("embedding provider rate limited")

	// ErrModelUnavailable signals no prediction model is loaded.
	ErrModelUnavailable = errors.New("prediction model unavailable")
	// ErrInvalidFeatures signals a malformed predictor feature vector.
	ErrInvalidFeatures = errors.New("invalid predictor features")

	// ErrNotFound signals a cohort member without stored history.
	ErrNotFound = errors.New("student not found")
)
