package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// scorer is one component of the hybrid blend. Implementations convert their
// own failures into abstentions; Score never returns an error.
type scorer interface {
	Source() Source
	Score(ctx context.Context, req *Request, candidates []Course) map[string]ComponentScore
}

// Engine blends semantic similarity, predicted performance, and collaborative
// popularity into a ranked recommendation list. It holds no per-request
// state; the embedding cache is the only thing shared across calls, so an
// Engine is safe for concurrent use.
type Engine struct {
	cfg     Config
	cache   *EmbeddingCache
	scorers []scorer
	log     *zap.Logger
}

// NewEngine wires the three scorers around the given collaborators. A nil
// logger is replaced with a no-op one.
func NewEngine(cfg Config, provider EmbeddingProvider, predictor GradePredictor, cohort CohortStore, log *zap.Logger) *Engine {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	cache := NewEmbeddingCache(provider, cfg.EmbeddingDim, cfg.EmbedTimeout)
	return &Engine{
		cfg:   cfg,
		cache: cache,
		scorers: []scorer{
			&semanticScorer{cache: cache, floor: cfg.CentroidFloor, log: log},
			&predictorScorer{predictor: predictor, log: log},
			&collaborativeScorer{store: cohort, log: log},
		},
		log: log,
	}
}

// Cache returns the engine's embedding cache, e.g. for catalog warmup.
func (e *Engine) Cache() *EmbeddingCache {
	return e.cache
}

// Recommend ranks eligible catalog courses for the student. Missing component
// data degrades the blend instead of failing it; only a malformed request
// returns an error, and that error wraps ErrInvalidRequest.
func (e *Engine) Recommend(ctx context.Context, req *Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	weights := e.cfg.Weights
	if req.Weights != nil {
		weights = *req.Weights
	}

	candidates := eligibleCourses(req)
	result := &Result{
		Recommendations: []Recommendation{},
		TotalCandidates: len(candidates),
	}
	if len(candidates) == 0 {
		return result, nil
	}

	componentScores := e.scoreAll(ctx, req, candidates)

	for _, c := range candidates {
		available := make(map[Source]float64, len(componentScores))
		for src, scores := range componentScores {
			if v, ok := scores[c.ID].Value(); ok {
				available[src] = v
			}
		}
		if len(available) == 0 {
			// Unscorable course; it cannot be ranked.
			continue
		}
		var weightSum float64
		for src := range available {
			weightSum += weights.of(src)
		}
		if weightSum <= 0 {
			continue
		}
		var final float64
		for src, v := range available {
			final += v * weights.of(src) / weightSum
		}
		missing := len(e.scorers) - len(available)
		confidence := clamp01(1 -
			e.cfg.MissingPenalty*float64(missing) -
			e.cfg.VariancePenalty*variance(available))

		result.Recommendations = append(result.Recommendations, Recommendation{
			Course:          c,
			FinalScore:      final,
			Confidence:      confidence,
			Reasoning:       reasonFor(c, available, weights),
			ComponentScores: available,
		})
	}

	if len(result.Recommendations) == 0 {
		result.InsufficientData = true
		return result, nil
	}

	sort.Slice(result.Recommendations, func(i, j int) bool {
		a, b := result.Recommendations[i], result.Recommendations[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Course.ID < b.Course.ID
	})
	if len(result.Recommendations) > req.TopN {
		result.Recommendations = result.Recommendations[:req.TopN]
	}
	return result, nil
}

// scoreAll fans the request out to the scorers, each under its own timeout,
// and joins the per-source score maps. A slow scorer costs only its own
// component.
func (e *Engine) scoreAll(ctx context.Context, req *Request, candidates []Course) map[Source]map[string]ComponentScore {
	out := make([]map[string]ComponentScore, len(e.scorers))
	var wg sync.WaitGroup
	for i, sc := range e.scorers {
		wg.Add(1)
		go func(i int, sc scorer) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, e.cfg.ComponentTimeout)
			defer cancel()
			out[i] = sc.Score(sctx, req, candidates)
		}(i, sc)
	}
	wg.Wait()

	scores := make(map[Source]map[string]ComponentScore, len(e.scorers))
	for i, sc := range e.scorers {
		scores[sc.Source()] = out[i]
	}
	return scores
}

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if req.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidRequest, req.TopN)
	}
	if len(req.Catalog) == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidRequest)
	}
	if req.Weights != nil {
		if err := req.Weights.Validate(); err != nil {
			return err
		}
	}
	known := make(map[string]struct{}, len(req.Catalog))
	for _, c := range req.Catalog {
		known[c.ID] = struct{}{}
	}
	for _, done := range req.Student.Completed {
		if _, ok := known[done.CourseID]; !ok {
			return fmt.Errorf("%w: completed course %q not in catalog", ErrInvalidRequest, done.CourseID)
		}
	}
	for _, id := range req.Student.Enrolled {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: enrolled course %q not in catalog", ErrInvalidRequest, id)
		}
	}
	return nil
}

// eligibleCourses filters the catalog down to candidates: not completed, not
// currently enrolled, prerequisites satisfied. The slice comes back sorted by
// id so every later step sees a stable order.
func eligibleCourses(req *Request) []Course {
	taken := make(map[string]struct{}, len(req.Student.Completed)+len(req.Student.Enrolled))
	done := make(map[string]struct{}, len(req.Student.Completed))
	for _, c := range req.Student.Completed {
		taken[c.CourseID] = struct{}{}
		done[c.CourseID] = struct{}{}
	}
	for _, id := range req.Student.Enrolled {
		taken[id] = struct{}{}
	}

	out := make([]Course, 0, len(req.Catalog))
	for _, c := range req.Catalog {
		if _, ok := taken[c.ID]; ok {
			continue
		}
		if !prereqsMet(c, done) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func prereqsMet(c Course, completed map[string]struct{}) bool {
	for _, p := range c.Prerequisites {
		if _, ok := completed[p]; !ok {
			return false
		}
	}
	return true
}

// Reasoning phrase thresholds. A component argues for a course only when its
// score clears the bar; below every bar the dominant component supplies a
// fallback phrase.
const (
	semanticReasonFloor = 0.7
	mlReasonFloor       = 0.75
	collabReasonFloor   = 0.5
)

// reasonFor builds the user-facing explanation from the available component
// scores and the course's own attributes. Same inputs, same string.
func reasonFor(c Course, available map[Source]float64, weights Weights) string {
	reasons := make([]string, 0, 4)
	if v, ok := available[SourceSemantic]; ok && v > semanticReasonFloor {
		reasons = append(reasons, "similar to courses you've completed")
	}
	if v, ok := available[SourceML]; ok && v > mlReasonFloor {
		reasons = append(reasons, "you're predicted to perform well")
	}
	if v, ok := available[SourceCollaborative]; ok && v > collabReasonFloor {
		reasons = append(reasons, "popular among similar students")
	}
	if len(reasons) == 0 {
		switch dominantSource(available, weights) {
		case SourceSemantic:
			reasons = append(reasons, "closely matched to your learning path")
		case SourceML:
			reasons = append(reasons, "a good fit based on your performance")
		case SourceCollaborative:
			reasons = append(reasons, "taken by similar students")
		}
	}
	if len(c.Prerequisites) > 0 {
		n := len(c.Prerequisites)
		if n > 2 {
			n = 2
		}
		reasons = append(reasons, "builds on "+strings.Join(c.Prerequisites[:n], ", "))
	}
	switch c.Difficulty {
	case Beginner:
		reasons = append(reasons, "beginner-friendly")
	case Advanced:
		reasons = append(reasons, "an advanced challenge")
	}
	return "Recommended because it's " + strings.Join(reasons, " and ")
}

// dominantSource picks the component with the largest weighted contribution.
// Ties resolve in semantic, ml, collaborative order.
func dominantSource(available map[Source]float64, weights Weights) Source {
	order := [...]Source{SourceSemantic, SourceML, SourceCollaborative}
	var best Source
	bestVal := math.Inf(-1)
	for _, src := range order {
		v, ok := available[src]
		if !ok {
			continue
		}
		if contrib := v * weights.of(src); contrib > bestVal {
			best, bestVal = src, contrib
		}
	}
	return best
}

// variance is the population variance of the available component scores.
func variance(scores map[Source]float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	var mean float64
	for _, v := range scores {
		mean += v
	}
	mean /= float64(len(scores))
	var sum float64
	for _, v := range scores {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(scores))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
