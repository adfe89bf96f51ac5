package recommend

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
)

// CourseText renders a course into the text that gets embedded. Keeping the
// rendering stable matters: the embedding cache keys off this string.
func CourseText(c Course) string {
	parts := []string{"Course: " + c.ID}
	if c.Description != "" {
		parts = append(parts, "Description: "+c.Description)
	}
	if len(c.Objectives) > 0 {
		parts = append(parts, "Objectives: "+strings.Join(c.Objectives, " "))
	}
	if len(c.Prerequisites) > 0 {
		parts = append(parts, "Prerequisites: "+strings.Join(c.Prerequisites, ", "))
	}
	return strings.Join(parts, " | ")
}

// semanticScorer scores candidates by cosine similarity between the candidate
// embedding and the centroid of the student's completed-course embeddings,
// falling back to the best pairwise similarity when the centroid match is
// below the configured floor.
type semanticScorer struct {
	cache *EmbeddingCache
	floor float64
	log   *zap.Logger
}

func (s *semanticScorer) Source() Source {
	return SourceSemantic
}

func (s *semanticScorer) Score(ctx context.Context, req *Request, candidates []Course) map[string]ComponentScore {
	scores := make(map[string]ComponentScore, len(candidates))
	abstainAll := func() map[string]ComponentScore {
		for _, c := range candidates {
			scores[c.ID] = Abstained()
		}
		return scores
	}

	if len(req.Student.Completed) == 0 {
		return abstainAll()
	}

	byID := make(map[string]Course, len(req.Catalog))
	for _, c := range req.Catalog {
		byID[c.ID] = c
	}

	history := make([][]float64, 0, len(req.Student.Completed))
	for _, done := range req.Student.Completed {
		course, ok := byID[done.CourseID]
		if !ok {
			continue
		}
		vec, err := s.cache.Get(ctx, CourseText(course))
		if err != nil {
			if ctx.Err() != nil {
				s.log.Warn("semantic scorer timed out embedding history", zap.Error(err))
				return abstainAll()
			}
			s.log.Warn("history embedding failed",
				zap.String("course", done.CourseID), zap.Error(err))
			continue
		}
		history = append(history, vec)
	}
	if len(history) == 0 {
		s.log.Warn("semantic scorer abstaining: no computable history embeddings",
			zap.Int("student", req.Student.ID))
		return abstainAll()
	}

	center := centroid(history)

	for i, c := range candidates {
		vec, err := s.cache.Get(ctx, CourseText(c))
		if err != nil {
			scores[c.ID] = Abstained()
			if errors.Is(err, ErrProviderUnavailable) || ctx.Err() != nil {
				// Nothing further will succeed; abstain the rest outright.
				s.log.Warn("semantic scorer abstaining for remaining candidates", zap.Error(err))
				for _, rest := range candidates[i+1:] {
					scores[rest.ID] = Abstained()
				}
				return scores
			}
			s.log.Warn("candidate embedding failed",
				zap.String("course", c.ID), zap.Error(err))
			continue
		}

		sim := cosineSimilarity(vec, center)
		if sim < s.floor {
			best := sim
			for _, h := range history {
				if v := cosineSimilarity(vec, h); v > best {
					best = v
				}
			}
			sim = best
		}
		scores[c.ID] = Present(clamp01(sim))
	}
	return scores
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 for
// mismatched or zero vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func centroid(vectors [][]float64) []float64 {
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i := range v {
			mean[i] += v[i]
		}
	}
	n := float64(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
