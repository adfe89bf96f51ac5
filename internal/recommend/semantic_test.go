package recommend

import (
	"context"
	"math"
	"testing"
	"time"
)

func newSemanticScorer(provider EmbeddingProvider, floor float64) *semanticScorer {
	return &semanticScorer{
		cache: NewEmbeddingCache(provider, testDim, time.Second),
		floor: floor,
		log:   testLogger(),
	}
}

func TestCourseText(t *testing.T) {
	t.Parallel()

	c := Course{
		ID:            "Advanced Python",
		Description:   "Decorators, concurrency, profiling",
		Prerequisites: []string{"Python Fundamentals", "Data Structures"},
		Objectives:    []string{"Write decorators", "Profile hot paths"},
	}
	want := "Course: Advanced Python" +
		" | Description: Decorators, concurrency, profiling" +
		" | Objectives: Write decorators Profile hot paths" +
		" | Prerequisites: Python Fundamentals, Data Structures"
	if got := CourseText(c); got != want {
		t.Errorf("CourseText() = %q, want %q", got, want)
	}

	bare := Course{ID: "Intro"}
	if got := CourseText(bare); got != "Course: Intro" {
		t.Errorf("CourseText(bare) = %q, want %q", got, "Course: Intro")
	}
}

func TestSemanticScorer_CentroidSimilarity(t *testing.T) {
	t.Parallel()

	catalog := []Course{
		{ID: "Python Fundamentals"},
		{ID: "ML Basics"},
		{ID: "Applied ML"},
	}
	provider := &mockEmbeddingProvider{vectors: make(map[string][]float64)}
	provider.add(catalog[0], []float64{1, 0, 0, 0})
	provider.add(catalog[1], []float64{0, 1, 0, 0})
	// Equidistant from both history vectors, aligned with their centroid.
	provider.add(catalog[2], []float64{math.Sqrt2 / 2, math.Sqrt2 / 2, 0, 0})

	scorer := newSemanticScorer(provider, 0.30)
	req := &Request{
		Student: StudentProfile{
			ID: 1,
			Completed: []CompletedCourse{
				{CourseID: "Python Fundamentals", Grade: 90},
				{CourseID: "ML Basics", Grade: 85},
			},
		},
		Catalog: catalog,
	}

	scores := scorer.Score(context.Background(), req, catalog[2:])
	v, ok := scores["Applied ML"].Value()
	if !ok {
		t.Fatal("Applied ML abstained, want present")
	}
	if math.Abs(v-1.0) > 1e-9 {
		t.Errorf("score = %v, want 1.0", v)
	}
}

func TestSemanticScorer_PairwiseFallback(t *testing.T) {
	t.Parallel()

	catalog := []Course{
		{ID: "Python Fundamentals"},
		{ID: "ML Basics"},
		{ID: "Deep Python"},
	}
	provider := &mockEmbeddingProvider{vectors: make(map[string][]float64)}
	provider.add(catalog[0], []float64{1, 0, 0, 0})
	provider.add(catalog[1], []float64{0, 1, 0, 0})
	// Identical to one history vector; centroid similarity is only ~0.707.
	provider.add(catalog[2], []float64{1, 0, 0, 0})

	// A floor above 0.707 forces the pairwise fallback.
	scorer := newSemanticScorer(provider, 0.8)
	req := &Request{
		Student: StudentProfile{
			ID: 1,
			Completed: []CompletedCourse{
				{CourseID: "Python Fundamentals", Grade: 90},
				{CourseID: "ML Basics", Grade: 85},
			},
		},
		Catalog: catalog,
	}

	scores := scorer.Score(context.Background(), req, catalog[2:])
	v, ok := scores["Deep Python"].Value()
	if !ok {
		t.Fatal("Deep Python abstained, want present")
	}
	if math.Abs(v-1.0) > 1e-9 {
		t.Errorf("fallback score = %v, want 1.0", v)
	}
}

func TestSemanticScorer_AbstainsWithoutHistory(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	scorer := newSemanticScorer(testProvider(catalog), 0.30)
	req := &Request{
		Student: StudentProfile{ID: 1},
		Catalog: catalog,
	}

	scores := scorer.Score(context.Background(), req, catalog)
	if len(scores) != len(catalog) {
		t.Fatalf("len(scores) = %d, want %d", len(scores), len(catalog))
	}
	for id, score := range scores {
		if score.IsPresent() {
			t.Errorf("course %q scored, want abstention", id)
		}
	}
}

func TestSemanticScorer_AbstainsWhenProviderDown(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	provider := &mockEmbeddingProvider{err: ErrProviderUnavailable}
	scorer := newSemanticScorer(provider, 0.30)
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
	}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	for id, score := range scores {
		if score.IsPresent() {
			t.Errorf("course %q scored with provider down", id)
		}
	}
}

func TestSemanticScorer_SkipsFailedCandidate(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	provider := &mockEmbeddingProvider{vectors: make(map[string][]float64)}
	provider.add(catalog[0], []float64{1, 0, 0, 0})
	provider.add(catalog[1], []float64{0.9, math.Sqrt(1 - 0.81), 0, 0})
	// No vector for catalog[2]; its lookups fail with a per-call error.

	scorer := newSemanticScorer(provider, 0.30)
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
	}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	if _, ok := scores["Advanced Python"].Value(); !ok {
		t.Error("Advanced Python abstained, want present")
	}
	if scores["Data Structures"].IsPresent() {
		t.Error("Data Structures scored without an embedding")
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "mismatched lengths", a: []float64{1, 0}, b: []float64{1, 0, 0}, want: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
