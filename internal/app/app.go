package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snapquizzer_backend/internal/config"
	"snapquizzer_backend/internal/controller"
	"snapquizzer_backend/internal/repository"
	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/pkg/database"
	"snapquizzer_backend/pkg/logger"
	"snapquizzer_backend/pkg/monitoring"
	"snapquizzer_backend/pkg/security"
	"snapquizzer_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	quiz       *repository.QuizRepository
	submission *repository.SubmissionRepository
	class      *repository.ClassRepository
	draft      *repository.DraftRepository
}

type services struct {
	auth       *service.AuthService
	quiz       *service.QuizService
	extraction *service.ExtractionService
	draft      *service.DraftService
	session    *service.SessionService
	class      *service.ClassService
}

type controllers struct {
	auth    *controller.AuthController
	quiz    *controller.QuizController
	draft   *controller.DraftController
	session *controller.SessionController
	process *controller.ProcessController
	class   *controller.ClassController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded configuration and notifies subscribers.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		quiz:       repository.NewQuizRepository(db),
		submission: repository.NewSubmissionRepository(db),
		class:      repository.NewClassRepository(db),
		draft:      repository.NewDraftRepository(rdb, cfg.Draft.TTL),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	storage, err := service.NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.quiz = service.NewQuizService(repos.quiz, repos.submission)
	s.extraction = service.NewExtractionService(cfg, storage)
	s.draft = service.NewDraftService(repos.draft, repos.quiz, s.extraction)
	s.session = service.NewSessionService(repos.quiz, s.quiz)
	s.class = service.NewClassService(repos.class)
	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		quiz:    controller.NewQuizController(s.quiz),
		draft:   controller.NewDraftController(s.draft),
		session: controller.NewSessionController(s.session),
		process: controller.NewProcessController(s.extraction),
		class:   controller.NewClassController(s.class),
		health:  controller.NewHealthController(a.DB, s.session),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
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

	repos := app.initRepositories(db, rdb, cfg)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
		log.Fatalf("Failed to initialize services: %v", err)
	}
	controllers := app.initControllers(services)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("snapquizzer", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

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

	// Wait for an interrupt and shut down with a 5 second grace period.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
