package recommend

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
)

func TestGradeToScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		grade float64
		want  float64
	}{
		{grade: 100, want: 1},
		{grade: 88, want: 0.76},
		{grade: 75, want: 0.5},
		{grade: 50, want: 0},
		{grade: 20, want: 0},
		{grade: 0, want: 0},
	}
	for _, tt := range tests {
		if got := GradeToScore(tt.grade); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("GradeToScore(%v) = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestRiskFromGrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		grade float64
		want  RiskLevel
	}{
		{grade: 40, want: RiskAtRisk},
		{grade: 69.9, want: RiskAtRisk},
		{grade: 70, want: RiskAverage},
		{grade: 85, want: RiskAverage},
		{grade: 85.1, want: RiskExcelling},
		{grade: 100, want: RiskExcelling},
	}
	for _, tt := range tests {
		if got := RiskFromGrade(tt.grade); got != tt.want {
			t.Errorf("RiskFromGrade(%v) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestPredictorScorer_Scores(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	predictor := &mockGradePredictor{grades: map[string]float64{
		"Advanced Python": 88,
		"Data Structures": 45,
	}}
	scorer := &predictorScorer{predictor: predictor, log: testLogger()}
	req := &Request{Student: testStudent(), Catalog: catalog}

	scores := scorer.Score(context.Background(), req, catalog[1:])

	ap, ok := scores["Advanced Python"].Value()
	if !ok {
		t.Fatal("Advanced Python abstained, want present")
	}
	if math.Abs(ap-0.76) > 1e-9 {
		t.Errorf("Advanced Python = %v, want 0.76", ap)
	}

	// A failing grade clamps to zero but is still a present score.
	ds, ok := scores["Data Structures"].Value()
	if !ok {
		t.Fatal("Data Structures abstained, want present")
	}
	if ds != 0 {
		t.Errorf("Data Structures = %v, want 0", ds)
	}
}

func TestPredictorScorer_ModelUnavailableAbortsBatch(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	predictor := &mockGradePredictor{err: ErrModelUnavailable}
	scorer := &predictorScorer{predictor: predictor, log: testLogger()}
	req := &Request{Student: testStudent(), Catalog: catalog}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}
	for id, score := range scores {
		if score.IsPresent() {
			t.Errorf("course %q scored without a model", id)
		}
	}
	if got := atomic.LoadInt32(&predictor.calls); got != 1 {
		t.Errorf("predictor calls = %d, want 1", got)
	}
}

func TestPredictorScorer_SkipsFailedCourse(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	// No grade for Data Structures; that prediction fails per-course.
	predictor := &mockGradePredictor{grades: map[string]float64{"Advanced Python": 90}}
	scorer := &predictorScorer{predictor: predictor, log: testLogger()}
	req := &Request{Student: testStudent(), Catalog: catalog}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	if _, ok := scores["Advanced Python"].Value(); !ok {
		t.Error("Advanced Python abstained, want present")
	}
	if scores["Data Structures"].IsPresent() {
		t.Error("Data Structures scored after a failed prediction")
	}
	if got := atomic.LoadInt32(&predictor.calls); got != 2 {
		t.Errorf("predictor calls = %d, want 2", got)
	}
}
