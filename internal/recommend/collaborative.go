package recommend

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// collaborativeScorer ranks candidates by their popularity among cohort
// members with similar course histories. Each member's vote is weighted by
// the Jaccard index between completed-course sets, and aggregates are min-max
// normalized across the batch.
type collaborativeScorer struct {
	store CohortStore
	log   *zap.Logger
}

func (s *collaborativeScorer) Source() Source {
	return SourceCollaborative
}

func (s *collaborativeScorer) Score(ctx context.Context, req *Request, candidates []Course) map[string]ComponentScore {
	scores := make(map[string]ComponentScore, len(candidates))
	abstainAll := func() map[string]ComponentScore {
		for _, c := range candidates {
			scores[c.ID] = Abstained()
		}
		return scores
	}

	if len(req.Cohort) == 0 {
		return abstainAll()
	}

	mine := make(map[string]struct{}, len(req.Student.Completed))
	for _, done := range req.Student.Completed {
		mine[done.CourseID] = struct{}{}
	}

	agg := make(map[string]float64, len(candidates))
	for _, member := range req.Cohort {
		if member.ID == req.Student.ID {
			continue
		}
		completed, err := s.store.CompletedCoursesOf(ctx, member.ID)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Warn("collaborative scorer timed out on cohort lookup", zap.Error(err))
				return abstainAll()
			}
			if !errors.Is(err, ErrNotFound) {
				s.log.Warn("cohort lookup failed",
					zap.Int("student", member.ID), zap.Error(err))
			}
			continue
		}
		sim := jaccard(mine, completed)
		if sim == 0 {
			continue
		}
		taken := make(map[string]struct{}, len(completed))
		for _, id := range completed {
			taken[id] = struct{}{}
		}
		for _, c := range candidates {
			if _, ok := taken[c.ID]; ok {
				agg[c.ID] += sim
			}
		}
	}

	var max float64
	for _, v := range agg {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		// No similar member took any candidate. A uniform zero would look
		// like a real signal to the blender, so abstain instead.
		return abstainAll()
	}

	for _, c := range candidates {
		scores[c.ID] = Present(agg[c.ID] / max)
	}
	return scores
}

// jaccard returns the Jaccard index of a completed-course set and a course ID
// list: the intersection size over the union size, 0 when both are empty.
func jaccard(a map[string]struct{}, b []string) float64 {
	inter, union := 0, len(a)
	seen := make(map[string]struct{}, len(b))
	for _, id := range b {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := a[id]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
