package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// mockEmbeddingProvider returns canned vectors keyed by normalized text.
type mockEmbeddingProvider struct {
	vectors map[string][]float64
	err     error
	calls   int32
}

func (m *mockEmbeddingProvider) add(c Course, vec []float64) {
	m.vectors[NormalizeText(CourseText(c))] = vec
}

func (m *mockEmbeddingProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	vec, ok := m.vectors[NormalizeText(text)]
	if !ok {
		return nil, fmt.Errorf("no embedding for %q", text)
	}
	return vec, nil
}

// mockGradePredictor returns canned grades keyed by course id.
type mockGradePredictor struct {
	grades       map[string]float64
	err          error
	calls        int32
	lastFeatures Features
}

func (m *mockGradePredictor) Predict(ctx context.Context, features Features, courseID string) (float64, error) {
	atomic.AddInt32(&m.calls, 1)
	m.lastFeatures = features
	if m.err != nil {
		return 0, m.err
	}
	grade, ok := m.grades[courseID]
	if !ok {
		return 0, fmt.Errorf("no grade for %q", courseID)
	}
	return grade, nil
}

// mockCohortStore returns canned completed sets keyed by student id.
type mockCohortStore struct {
	sets  map[int][]string
	err   error
	calls int32
}

func (m *mockCohortStore) CompletedCoursesOf(ctx context.Context, studentID int) ([]string, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	set, ok := m.sets[studentID]
	if !ok {
		return nil, ErrNotFound
	}
	return set, nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

const testDim = 4

func testCatalog() []Course {
	return []Course{
		{ID: "Python Fundamentals", Description: "Variables, control flow, functions", Category: "programming", Difficulty: Beginner},
		{ID: "Advanced Python", Description: "Decorators, concurrency, profiling", Category: "programming", Difficulty: Advanced, Prerequisites: []string{"Python Fundamentals"}},
		{ID: "Data Structures", Description: "Lists, trees, graphs", Category: "computer science", Difficulty: Intermediate},
	}
}

func testStudent() StudentProfile {
	return StudentProfile{
		ID:        1,
		Name:      "Alice",
		Completed: []CompletedCourse{{CourseID: "Python Fundamentals", Grade: 90}},
		GPA:       88,
	}
}

// testProvider maps the fixture catalog onto unit vectors: the completed
// course sits at e1, "Advanced Python" at cosine 0.88 from it and
// "Data Structures" at cosine 0.2 (below the 0.30 centroid floor).
func testProvider(catalog []Course) *mockEmbeddingProvider {
	p := &mockEmbeddingProvider{vectors: make(map[string][]float64)}
	p.add(catalog[0], []float64{1, 0, 0, 0})
	p.add(catalog[1], []float64{0.88, math.Sqrt(1 - 0.88*0.88), 0, 0})
	p.add(catalog[2], []float64{0.2, math.Sqrt(1 - 0.2*0.2), 0, 0})
	return p
}

// testCohortStore holds five members whose Jaccard similarities to the
// fixture student are 0.5, 0.5, 0.5, 0.5 and 0.25, giving "Advanced Python"
// an aggregate of 1.0 and "Data Structures" the batch maximum of 1.25.
func testCohortStore() *mockCohortStore {
	return &mockCohortStore{sets: map[int][]string{
		2: {"Python Fundamentals", "Advanced Python"},
		3: {"Python Fundamentals", "Advanced Python"},
		4: {"Python Fundamentals", "Data Structures"},
		5: {"Python Fundamentals", "Data Structures"},
		6: {"Python Fundamentals", "Data Structures", "ML Basics", "Web Development"},
	}}
}

func testCohort() []StudentProfile {
	return []StudentProfile{{ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}}
}

func testEngine(provider EmbeddingProvider, predictor GradePredictor, cohort CohortStore) *Engine {
	return NewEngine(Config{EmbeddingDim: testDim}, provider, predictor, cohort, testLogger())
}

// --- Test: Recommend ---

func TestEngine_Recommend(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	engine := testEngine(
		testProvider(catalog),
		&mockGradePredictor{grades: map[string]float64{"Advanced Python": 88, "Data Structures": 70}},
		testCohortStore(),
	)

	result, err := engine.Recommend(context.Background(), &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  testCohort(),
		TopN:    5,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if result.InsufficientData {
		t.Fatal("Recommend() InsufficientData = true, want false")
	}
	if result.TotalCandidates != 2 {
		t.Errorf("TotalCandidates = %d, want 2", result.TotalCandidates)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(result.Recommendations))
	}

	top := result.Recommendations[0]
	if top.Course.ID != "Advanced Python" {
		t.Fatalf("top course = %q, want %q", top.Course.ID, "Advanced Python")
	}

	// 0.40*0.88 + 0.35*0.76 + 0.25*0.80 with all three components present.
	wantScore := 0.40*0.88 + 0.35*0.76 + 0.25*0.80
	if math.Abs(top.FinalScore-wantScore) > 1e-9 {
		t.Errorf("FinalScore = %v, want %v", top.FinalScore, wantScore)
	}
	if top.Confidence <= 0.99 || top.Confidence > 1 {
		t.Errorf("Confidence = %v, want in (0.99, 1]", top.Confidence)
	}
	if len(top.ComponentScores) != 3 {
		t.Errorf("len(ComponentScores) = %d, want 3", len(top.ComponentScores))
	}
	if v := top.ComponentScores[SourceCollaborative]; math.Abs(v-0.80) > 1e-9 {
		t.Errorf("collaborative score = %v, want 0.80", v)
	}

	wantReason := "Recommended because it's similar to courses you've completed" +
		" and you're predicted to perform well" +
		" and popular among similar students" +
		" and builds on Python Fundamentals" +
		" and an advanced challenge"
	if top.Reasoning != wantReason {
		t.Errorf("Reasoning = %q, want %q", top.Reasoning, wantReason)
	}

	second := result.Recommendations[1]
	if second.Course.ID != "Data Structures" {
		t.Fatalf("second course = %q, want %q", second.Course.ID, "Data Structures")
	}
	if second.FinalScore >= top.FinalScore {
		t.Errorf("results not sorted: %v >= %v", second.FinalScore, top.FinalScore)
	}
	if second.Reasoning != "Recommended because it's popular among similar students" {
		t.Errorf("second Reasoning = %q", second.Reasoning)
	}
}

func TestEngine_Recommend_WeightRenormalization(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	engine := testEngine(
		testProvider(catalog),
		&mockGradePredictor{grades: map[string]float64{"Advanced Python": 88, "Data Structures": 70}},
		&mockCohortStore{},
	)

	result, err := engine.Recommend(context.Background(), &Request{
		Student: testStudent(),
		Catalog: catalog,
		TopN:    5,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("Recommend() returned no results with two components available")
	}

	top := result.Recommendations[0]
	if top.Course.ID != "Advanced Python" {
		t.Fatalf("top course = %q, want %q", top.Course.ID, "Advanced Python")
	}
	if _, ok := top.ComponentScores[SourceCollaborative]; ok {
		t.Error("ComponentScores contains collaborative despite abstention")
	}

	// 0.40/0.35 renormalized over 0.75 once collaborative drops out.
	wantScore := (0.40*0.88 + 0.35*0.76) / 0.75
	if math.Abs(top.FinalScore-wantScore) > 1e-9 {
		t.Errorf("FinalScore = %v, want %v", top.FinalScore, wantScore)
	}

	// One missing component and a 0.88/0.76 spread.
	wantConfidence := 1 - 0.15 - 0.5*0.0036
	if math.Abs(top.Confidence-wantConfidence) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", top.Confidence, wantConfidence)
	}
}

func TestEngine_Recommend_PrerequisiteGate(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	student := StudentProfile{
		ID:        1,
		Name:      "Bob",
		Completed: []CompletedCourse{{CourseID: "Data Structures", Grade: 75}},
		GPA:       75,
	}
	engine := testEngine(
		testProvider(catalog),
		&mockGradePredictor{grades: map[string]float64{"Python Fundamentals": 80}},
		&mockCohortStore{},
	)

	result, err := engine.Recommend(context.Background(), &Request{
		Student: student,
		Catalog: catalog,
		TopN:    10,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if result.TotalCandidates != 1 {
		t.Errorf("TotalCandidates = %d, want 1", result.TotalCandidates)
	}
	for _, rec := range result.Recommendations {
		if rec.Course.ID == "Advanced Python" {
			t.Error("course with unmet prerequisites was recommended")
		}
	}
}

func TestEngine_Recommend_InsufficientData(t *testing.T) {
	t.Parallel()

	engine := testEngine(
		&mockEmbeddingProvider{vectors: map[string][]float64{}},
		&mockGradePredictor{err: ErrModelUnavailable},
		&mockCohortStore{},
	)

	result, err := engine.Recommend(context.Background(), &Request{
		Student: StudentProfile{ID: 7, Name: "Carol"},
		Catalog: testCatalog(),
		TopN:    5,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if !result.InsufficientData {
		t.Error("InsufficientData = false, want true")
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("len(Recommendations) = %d, want 0", len(result.Recommendations))
	}
}

func TestEngine_Recommend_InvalidRequest(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	badWeights := Weights{Semantic: -1, ML: 0.5, Collaborative: 0.5}

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil request", req: nil},
		{
			name: "non-positive top_n",
			req:  &Request{Student: testStudent(), Catalog: catalog, TopN: 0},
		},
		{
			name: "empty catalog",
			req:  &Request{Student: testStudent(), TopN: 5},
		},
		{
			name: "completed course not in catalog",
			req: &Request{
				Student: StudentProfile{ID: 1, Completed: []CompletedCourse{{CourseID: "Quantum Basket Weaving", Grade: 99}}},
				Catalog: catalog,
				TopN:    5,
			},
		},
		{
			name: "enrolled course not in catalog",
			req: &Request{
				Student: StudentProfile{ID: 1, Enrolled: []string{"Quantum Basket Weaving"}},
				Catalog: catalog,
				TopN:    5,
			},
		},
		{
			name: "negative weight",
			req:  &Request{Student: testStudent(), Catalog: catalog, TopN: 5, Weights: &badWeights},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := testEngine(
				testProvider(catalog),
				&mockGradePredictor{grades: map[string]float64{}},
				&mockCohortStore{},
			)
			result, err := engine.Recommend(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Recommend() error = nil, want ErrInvalidRequest")
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("error = %v, want ErrInvalidRequest", err)
			}
			if result != nil {
				t.Errorf("result = %+v, want nil", result)
			}
		})
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	engine := testEngine(
		testProvider(catalog),
		&mockGradePredictor{grades: map[string]float64{"Advanced Python": 88, "Data Structures": 70}},
		testCohortStore(),
	)
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  testCohort(),
		TopN:    5,
	}

	first, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("first Recommend() error = %v", err)
	}
	second, err := engine.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("second Recommend() error = %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("repeated calls differ:\n%s\n%s", a, b)
	}
}

func TestEngine_Recommend_TopNTruncation(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	engine := testEngine(
		testProvider(catalog),
		&mockGradePredictor{grades: map[string]float64{"Advanced Python": 88, "Data Structures": 70}},
		testCohortStore(),
	)

	result, err := engine.Recommend(context.Background(), &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  testCohort(),
		TopN:    1,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("len(Recommendations) = %d, want 1", len(result.Recommendations))
	}
	if result.Recommendations[0].Course.ID != "Advanced Python" {
		t.Errorf("top course = %q, want %q", result.Recommendations[0].Course.ID, "Advanced Python")
	}
	if result.TotalCandidates != 2 {
		t.Errorf("TotalCandidates = %d, want 2", result.TotalCandidates)
	}
}

func TestEngine_Recommend_TieBreaksByCourseID(t *testing.T) {
	t.Parallel()

	shared := []float64{0.8, 0.6, 0, 0}
	catalog := []Course{
		{ID: "Python Fundamentals", Description: "Basics", Difficulty: Beginner},
		{ID: "Beta Course", Description: "Twin B", Difficulty: Intermediate},
		{ID: "Alpha Course", Description: "Twin A", Difficulty: Intermediate},
	}
	provider := &mockEmbeddingProvider{vectors: make(map[string][]float64)}
	provider.add(catalog[0], []float64{1, 0, 0, 0})
	provider.add(catalog[1], shared)
	provider.add(catalog[2], shared)

	engine := testEngine(
		provider,
		&mockGradePredictor{grades: map[string]float64{"Alpha Course": 80, "Beta Course": 80}},
		&mockCohortStore{},
	)

	result, err := engine.Recommend(context.Background(), &Request{
		Student: testStudent(),
		Catalog: catalog,
		TopN:    5,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if len(result.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(result.Recommendations))
	}
	if got := result.Recommendations[0].Course.ID; got != "Alpha Course" {
		t.Errorf("tie broken wrong: first = %q, want %q", got, "Alpha Course")
	}
}

func TestEngine_Recommend_ModelUnavailable(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	predictor := &mockGradePredictor{err: ErrModelUnavailable}
	engine := testEngine(testProvider(catalog), predictor, testCohortStore())

	result, err := engine.Recommend(context.Background(), &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  testCohort(),
		TopN:    5,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("no results despite two live components")
	}
	for _, rec := range result.Recommendations {
		if _, ok := rec.ComponentScores[SourceML]; ok {
			t.Errorf("course %q has an ml score from an unavailable model", rec.Course.ID)
		}
	}
	// The batch aborts after the first failed call.
	if got := atomic.LoadInt32(&predictor.calls); got != 1 {
		t.Errorf("predictor calls = %d, want 1", got)
	}
}

func TestEngine_Recommend_FeatureVector(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	predictor := &mockGradePredictor{grades: map[string]float64{"Advanced Python": 88, "Data Structures": 70}}
	engine := testEngine(testProvider(catalog), predictor, &mockCohortStore{})

	student := testStudent()
	student.Enrolled = []string{"Data Structures"}

	_, err := engine.Recommend(context.Background(), &Request{
		Student: student,
		Catalog: catalog,
		TopN:    5,
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	want := Features{GPA: 88, CompletedCount: 1, EnrolledCount: 1}
	if predictor.lastFeatures != want {
		t.Errorf("features = %+v, want %+v", predictor.lastFeatures, want)
	}
}
