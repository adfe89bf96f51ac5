package recommend

import (
	"context"
	"math"
	"testing"
)

func TestCollaborativeScorer_WeightedPopularity(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	scorer := &collaborativeScorer{store: testCohortStore(), log: testLogger()}
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  testCohort(),
	}

	scores := scorer.Score(context.Background(), req, catalog[1:])

	ap, ok := scores["Advanced Python"].Value()
	if !ok {
		t.Fatal("Advanced Python abstained, want present")
	}
	// Aggregate 1.0 against a batch maximum of 1.25.
	if math.Abs(ap-0.8) > 1e-9 {
		t.Errorf("Advanced Python = %v, want 0.8", ap)
	}

	ds, ok := scores["Data Structures"].Value()
	if !ok {
		t.Fatal("Data Structures abstained, want present")
	}
	if math.Abs(ds-1.0) > 1e-9 {
		t.Errorf("Data Structures = %v, want 1.0", ds)
	}
}

func TestCollaborativeScorer_AbstainsOnEmptyCohort(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	scorer := &collaborativeScorer{store: testCohortStore(), log: testLogger()}
	req := &Request{Student: testStudent(), Catalog: catalog}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	for id, score := range scores {
		if score.IsPresent() {
			t.Errorf("course %q scored with no cohort", id)
		}
	}
}

func TestCollaborativeScorer_AbstainsWithoutOverlap(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	// Members share nothing with the requester, so every similarity is zero.
	store := &mockCohortStore{sets: map[int][]string{
		2: {"Pottery", "Archery"},
		3: {"Pottery"},
	}}
	scorer := &collaborativeScorer{store: store, log: testLogger()}
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  []StudentProfile{{ID: 2}, {ID: 3}},
	}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	for id, score := range scores {
		if score.IsPresent() {
			t.Errorf("course %q scored with zero-similarity cohort", id)
		}
	}
}

func TestCollaborativeScorer_SkipsUnknownMembers(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockCohortStore{sets: map[int][]string{
		2: {"Python Fundamentals", "Advanced Python"},
		// Member 99 has no stored history and resolves to ErrNotFound.
	}}
	scorer := &collaborativeScorer{store: store, log: testLogger()}
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  []StudentProfile{{ID: 2}, {ID: 99}},
	}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	ap, ok := scores["Advanced Python"].Value()
	if !ok {
		t.Fatal("Advanced Python abstained, want present")
	}
	if math.Abs(ap-1.0) > 1e-9 {
		t.Errorf("Advanced Python = %v, want 1.0", ap)
	}
}

func TestCollaborativeScorer_IgnoresRequester(t *testing.T) {
	t.Parallel()

	catalog := testCatalog()
	store := &mockCohortStore{sets: map[int][]string{
		// The requester's own row lists a candidate; it must not count.
		1: {"Python Fundamentals", "Advanced Python"},
		2: {"Python Fundamentals", "Data Structures"},
	}}
	scorer := &collaborativeScorer{store: store, log: testLogger()}
	req := &Request{
		Student: testStudent(),
		Catalog: catalog,
		Cohort:  []StudentProfile{{ID: 1}, {ID: 2}},
	}

	scores := scorer.Score(context.Background(), req, catalog[1:])
	if ap, _ := scores["Advanced Python"].Value(); ap != 0 {
		t.Errorf("Advanced Python = %v, want 0 (only the requester took it)", ap)
	}
	ds, ok := scores["Data Structures"].Value()
	if !ok {
		t.Fatal("Data Structures abstained, want present")
	}
	if math.Abs(ds-1.0) > 1e-9 {
		t.Errorf("Data Structures = %v, want 1.0", ds)
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	set := func(ids ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			m[id] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a    map[string]struct{}
		b    []string
		want float64
	}{
		{name: "identical", a: set("x", "y"), b: []string{"x", "y"}, want: 1},
		{name: "half overlap", a: set("x"), b: []string{"x", "y"}, want: 0.5},
		{name: "disjoint", a: set("x"), b: []string{"y"}, want: 0},
		{name: "both empty", a: set(), b: nil, want: 0},
		{name: "duplicates in list", a: set("x"), b: []string{"x", "x", "y"}, want: 0.5},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := jaccard(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("jaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}
