package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student_portal_backend/internal/config"
	"student_portal_backend/internal/controller"
	"student_portal_backend/internal/repository"
	"student_portal_backend/internal/service"
	"student_portal_backend/pkg/database"
	"student_portal_backend/pkg/logger"
	"student_portal_backend/pkg/monitoring"
	"student_portal_backend/pkg/security"
	"student_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	student    *repository.StudentRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	chat       *repository.ChatRepository
	report     *repository.ReportRepository
}

type services struct {
	auth           *service.AuthService
	storage        *service.StorageService
	ai             *service.AIService
	prediction     *service.PredictionService
	recommendation *service.RecommendationService
	analysis       *service.AnalysisService
	chat           *service.ChatService
	student        *service.StudentService
}

type controllers struct {
	auth           *controller.AuthController
	student        *controller.StudentController
	recommendation *controller.RecommendationController
	prediction     *controller.PredictionController
	analysis       *controller.AnalysisController
	chat           *controller.ChatController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig applies a hot-reloaded configuration. Listener address and
// storage backends need a restart; subscribers handle the rest.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		student:    repository.NewStudentRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		chat:       repository.NewChatRepository(db, rdb),
		report:     repository.NewReportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.student, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.prediction = service.NewPredictionService(repos.student, repos.enrollment)
	s.recommendation = service.NewRecommendationService(cfg, s.ai, s.prediction, repos.course, repos.student, repos.enrollment, rdb)
	s.analysis = service.NewAnalysisService(s.ai, repos.report, s.storage)
	s.chat = service.NewChatService(repos.chat, repos.student, repos.enrollment, s.prediction, s.ai)
	s.student = service.NewStudentService(repos.student, repos.user, repos.course, repos.enrollment, s.prediction, s.recommendation)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		student:        controller.NewStudentController(s.student, s.auth),
		recommendation: controller.NewRecommendationController(s.recommendation, repos.course, s.auth),
		prediction:     controller.NewPredictionController(s.prediction, repos.student, s.auth),
		analysis:       controller.NewAnalysisController(s.analysis),
		chat:           controller.NewChatController(s.chat),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks warms the embedding cache so the first recommendation
// request does not pay for the whole catalog, then keeps it fresh as courses
// are added.
func (a *App) startBackgroundTasks(s *services) {
	warm := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.recommendation.WarmCatalog(ctx); err != nil {
			logger.Log.Warn("catalog warmup failed", zap.Error(err))
		}
	}

	go func() {
		warm()
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			warm()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("student-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
