package recommend

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// GradeToScore maps a predicted grade in [0,100] onto [0,1]: grades at or
// below 50 score 0, 100 scores 1, linear in between.
func GradeToScore(grade float64) float64 {
	return clamp01((grade - 50) / 50)
}

// predictorScorer adapts a GradePredictor into a blend component. The model
// stays a black box; this layer only owns the grade-to-score transform and
// the abstention rules around model failures.
type predictorScorer struct {
	predictor GradePredictor
	log       *zap.Logger
}

func (s *predictorScorer) Source() Source {
	return SourceML
}

func (s *predictorScorer) Score(ctx context.Context, req *Request, candidates []Course) map[string]ComponentScore {
	scores := make(map[string]ComponentScore, len(candidates))

	features := Features{
		GPA:            req.Student.GPA,
		CompletedCount: len(req.Student.Completed),
		EnrolledCount:  len(req.Student.Enrolled),
	}

	for i, c := range candidates {
		grade, err := s.predictor.Predict(ctx, features, c.ID)
		if err != nil {
			scores[c.ID] = Abstained()
			if errors.Is(err, ErrModelUnavailable) || ctx.Err() != nil {
				// No model for this request; abstain everywhere.
				s.log.Warn("grade predictor unavailable", zap.Error(err))
				for _, rest := range candidates[i+1:] {
					scores[rest.ID] = Abstained()
				}
				return scores
			}
			// A single bad prediction only costs this course its component.
			s.log.Warn("grade prediction failed",
				zap.String("course", c.ID), zap.Error(err))
			continue
		}
		scores[c.ID] = Present(GradeToScore(grade))
	}
	return scores
}
