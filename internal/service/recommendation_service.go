package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"student_portal_backend/internal/config"
	"student_portal_backend/internal/model"
	"student_portal_backend/internal/recommend"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/util"
	"student_portal_backend/pkg/logger"
	"student_portal_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RecommendationService fronts the hybrid engine: it assembles requests from
// the database, caches results in Redis and records metrics. It implements
// recommend.CohortStore so the collaborative scorer can resolve peer history.
type RecommendationService struct {
	CourseRepo     *repository.CourseRepository
	StudentRepo    *repository.StudentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client

	engine      *recommend.Engine
	cacheTTL    time.Duration
	defaultTopN int
}

func NewRecommendationService(
	cfg *config.Config,
	ai *AIService,
	predictor *PredictionService,
	courseRepo *repository.CourseRepository,
	studentRepo *repository.StudentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	rdb *redis.Client,
) *RecommendationService {
	s := &RecommendationService{
		CourseRepo:     courseRepo,
		StudentRepo:    studentRepo,
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
		cacheTTL:       cfg.Recommend.CacheTTL,
		defaultTopN:    cfg.Recommend.DefaultTopN,
	}
	if s.defaultTopN <= 0 {
		s.defaultTopN = 5
	}

	engineCfg := recommend.Config{
		Weights: recommend.Weights{
			Semantic:      cfg.Recommend.SemanticWeight,
			ML:            cfg.Recommend.MLWeight,
			Collaborative: cfg.Recommend.CollaborativeWeight,
		},
		CentroidFloor:    cfg.Recommend.CentroidFloor,
		MissingPenalty:   cfg.Recommend.MissingPenalty,
		VariancePenalty:  cfg.Recommend.VariancePenalty,
		ComponentTimeout: cfg.Recommend.ComponentTimeout,
		EmbedTimeout:     cfg.Recommend.EmbedTimeout,
		EmbeddingDim:     cfg.Recommend.EmbeddingDim,
	}
	s.engine = recommend.NewEngine(engineCfg, ai, predictor, s, logger.Log)
	return s
}

// CompletedCoursesOf implements recommend.CohortStore.
func (s *RecommendationService) CompletedCoursesOf(ctx context.Context, studentID int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := s.EnrollmentRepo.CompletedCourseNames(uint(studentID))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, recommend.ErrNotFound
		}
		return nil, err
	}
	return names, nil
}

// Recommend runs the hybrid engine for one student. Results for the default
// weight blend are cached per student and top-n until the student's
// enrollments change or the TTL lapses.
func (s *RecommendationService) Recommend(ctx context.Context, studentID uint, topN int, weights *recommend.Weights) (*recommend.Result, error) {
	if topN <= 0 {
		topN = s.defaultTopN
	}

	cacheable := weights == nil && s.Redis != nil
	cacheKey := recommendCacheKey(studentID, topN)
	if cacheable {
		if raw, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached recommend.Result
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	req, err := s.buildRequest(studentID, topN, weights)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.engine.Recommend(ctx, req)
	monitoring.RecommendationDuration.WithLabelValues(outcomeLabel(result, err)).Observe(time.Since(start).Seconds())
	monitoring.EmbeddingCacheSize.Set(float64(s.engine.Cache().Len()))
	if err != nil {
		return nil, err
	}

	if cacheable {
		if data, err := json.Marshal(result); err == nil {
			s.Redis.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return result, nil
}

// InvalidateCache drops a student's cached recommendations. Called whenever
// their enrollments change.
func (s *RecommendationService) InvalidateCache(ctx context.Context, studentID uint) {
	if s.Redis == nil {
		return
	}
	keys, err := s.Redis.Keys(ctx, fmt.Sprintf("recommend:%d:*", studentID)).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	s.Redis.Del(ctx, keys...)
}

// CourseExplanation details why one course was (or was not) recommended.
type CourseExplanation struct {
	CourseName  string                       `json:"course_name"`
	Description string                       `json:"description"`
	Score       float64                      `json:"score,omitempty"`
	Confidence  float64                      `json:"confidence,omitempty"`
	Reasoning   string                       `json:"reasoning,omitempty"`
	Breakdown   map[recommend.Source]float64 `json:"breakdown,omitempty"`
	Explanation string                       `json:"explanation"`
}

// Explain builds a detailed explanation for a single course. When the course
// ranks in the student's recommendations the score breakdown is included;
// otherwise the explanation covers the course on its own.
func (s *RecommendationService) Explain(ctx context.Context, studentID uint, courseName string) (*CourseExplanation, error) {
	course, err := s.CourseRepo.FindByName(courseName)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	catalog, err := s.CourseRepo.ListAll()
	if err != nil {
		return nil, err
	}

	req, err := s.buildRequest(studentID, len(catalog), nil)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, rec := range result.Recommendations {
		if rec.Course.ID == course.Name {
			return &CourseExplanation{
				CourseName:  course.Name,
				Description: course.Description,
				Score:       rec.FinalScore,
				Confidence:  rec.Confidence,
				Reasoning:   rec.Reasoning,
				Breakdown:   rec.ComponentScores,
				Explanation: explainRecommendation(rec),
			}, nil
		}
	}

	return &CourseExplanation{
		CourseName:  course.Name,
		Description: course.Description,
		Explanation: explainCourse(course),
	}, nil
}

// PathStep is one course in a suggested learning path.
type PathStep struct {
	Order         int      `json:"order"`
	CourseName    string   `json:"course_name"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Difficulty    string   `json:"difficulty"`
	Reasoning     string   `json:"reasoning"`
}

// LearningPath is an ordered plan toward a stated goal.
type LearningPath struct {
	Goal      string     `json:"goal"`
	Completed []string   `json:"completed,omitempty"`
	Steps     []PathStep `json:"steps"`
	Tip       string     `json:"tip"`
}

// LearningPath plans the student's next courses toward a goal. The ranking
// comes from the hybrid engine; the path is its order.
func (s *RecommendationService) LearningPath(ctx context.Context, studentID uint, goal string, numCourses int) (*LearningPath, error) {
	if numCourses <= 0 {
		numCourses = 8
	}

	req, err := s.buildRequest(studentID, numCourses, nil)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	path := &LearningPath{
		Goal:      goal,
		Completed: req.Student.CompletedIDs(),
		Tip:       "Focus on one course at a time for best results!",
	}
	for i, rec := range result.Recommendations {
		path.Steps = append(path.Steps, PathStep{
			Order:         i + 1,
			CourseName:    rec.Course.ID,
			Description:   rec.Course.Description,
			Prerequisites: rec.Course.Prerequisites,
			Difficulty:    string(rec.Course.Difficulty),
			Reasoning:     rec.Reasoning,
		})
	}
	return path, nil
}

// WarmCatalog embeds every catalog course so the first student request does
// not pay the provider round trips. Run in the background at startup.
func (s *RecommendationService) WarmCatalog(ctx context.Context) error {
	courses, err := s.CourseRepo.ListAll()
	if err != nil {
		return err
	}

	var failed int
	for _, course := range courses {
		text := recommend.CourseText(toRecommendCourse(course))
		if _, err := s.engine.Cache().Get(ctx, text); err != nil {
			failed++
			logger.Log.Warn("catalog embedding warmup failed",
				zap.String("course", course.Name),
				zap.Error(err))
		}
	}

	monitoring.EmbeddingCacheSize.Set(float64(s.engine.Cache().Len()))
	logger.Log.Info("catalog embedding warmup finished",
		zap.Int("courses", len(courses)),
		zap.Int("failed", failed))
	if failed == len(courses) && len(courses) > 0 {
		return fmt.Errorf("all %d catalog embeddings failed", failed)
	}
	return nil
}

func (s *RecommendationService) buildRequest(studentID uint, topN int, weights *recommend.Weights) (*recommend.Request, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	var completed []recommend.CompletedCourse
	var enrolled []string
	for _, e := range enrollments {
		switch e.Status {
		case model.EnrollmentCompleted:
			grade := 0.0
			if e.Grade != nil {
				grade = *e.Grade
			}
			completed = append(completed, recommend.CompletedCourse{
				CourseID: e.Course.Name,
				Grade:    grade,
			})
		case model.EnrollmentActive:
			enrolled = append(enrolled, e.Course.Name)
		}
	}

	gpa := student.GPA
	if avg, ok, err := s.EnrollmentRepo.AverageGrade(studentID); err == nil && ok {
		gpa = avg
	}

	courses, err := s.CourseRepo.ListAll()
	if err != nil {
		return nil, err
	}
	catalog := make([]recommend.Course, len(courses))
	for i, c := range courses {
		catalog[i] = toRecommendCourse(c)
	}

	peers, err := s.StudentRepo.ListAll()
	if err != nil {
		return nil, err
	}
	var cohort []recommend.StudentProfile
	for _, p := range peers {
		if p.ID == studentID {
			continue
		}
		cohort = append(cohort, recommend.StudentProfile{ID: int(p.ID), Name: p.Name})
	}

	return &recommend.Request{
		Student: recommend.StudentProfile{
			ID:        int(student.ID),
			Name:      student.Name,
			Completed: completed,
			Enrolled:  enrolled,
			GPA:       gpa,
			Interests: student.Interests,
		},
		Catalog: catalog,
		Cohort:  cohort,
		TopN:    topN,
	}, nil
}

func toRecommendCourse(c model.Course) recommend.Course {
	return recommend.Course{
		ID:            c.Name,
		Description:   c.Description,
		Category:      c.Category,
		Difficulty:    recommend.Difficulty(c.Difficulty),
		Prerequisites: c.Prerequisites,
		Objectives:    c.Objectives,
	}
}

func recommendCacheKey(studentID uint, topN int) string {
	return fmt.Sprintf("recommend:%d:%d", studentID, topN)
}

func outcomeLabel(result *recommend.Result, err error) string {
	switch {
	case err == nil && result != nil && result.InsufficientData:
		return "insufficient_data"
	case err == nil:
		return "ok"
	case errors.Is(err, recommend.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "error"
	}
}

func explainRecommendation(rec recommend.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (Score: %.2f)\n\n", rec.Course.ID, rec.FinalScore)
	fmt.Fprintf(&b, "**Why this course?**\n%s\n\n", rec.Reasoning)
	fmt.Fprintf(&b, "**Description:** %s\n\n", rec.Course.Description)

	if len(rec.Course.Prerequisites) > 0 {
		fmt.Fprintf(&b, "**Prerequisites:** %s\n\n", strings.Join(rec.Course.Prerequisites, ", "))
	} else {
		b.WriteString("**Prerequisites:** None - perfect for starting!\n\n")
	}

	if len(rec.Course.Objectives) > 0 {
		b.WriteString("**You'll learn:**\n")
		objectives := rec.Course.Objectives
		if len(objectives) > 4 {
			objectives = objectives[:4]
		}
		for _, obj := range objectives {
			fmt.Fprintf(&b, "- %s\n", obj)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Difficulty:** %s\n\n", titleWord(string(rec.Course.Difficulty)))

	b.WriteString("**Recommendation Breakdown:**\n")
	fmt.Fprintf(&b, "- Content Similarity: %.2f\n", rec.ComponentScores[recommend.SourceSemantic])
	fmt.Fprintf(&b, "- Predicted Success: %.2f\n", rec.ComponentScores[recommend.SourceML])
	fmt.Fprintf(&b, "- Peer Patterns: %.2f\n", rec.ComponentScores[recommend.SourceCollaborative])
	return b.String()
}

func explainCourse(course *model.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", course.Name)
	fmt.Fprintf(&b, "**Description:**\n%s\n\n", course.Description)

	if len(course.Objectives) > 0 {
		b.WriteString("**What you'll learn:**\n")
		for _, obj := range course.Objectives {
			fmt.Fprintf(&b, "- %s\n", obj)
		}
		b.WriteString("\n")
	}

	if len(course.Prerequisites) > 0 {
		fmt.Fprintf(&b, "**Prerequisites:** %s\n\n", strings.Join(course.Prerequisites, ", "))
	} else {
		b.WriteString("**Prerequisites:** None - perfect for beginners!\n\n")
	}

	fmt.Fprintf(&b, "**Difficulty:** %s\n\n", titleWord(course.Difficulty))
	fmt.Fprintf(&b, "**Category:** %s\n", titleWords(strings.ReplaceAll(course.Category, "_", " ")))
	return b.String()
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}
