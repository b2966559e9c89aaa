package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"

	"survey_backend/internal/config"
	"survey_backend/internal/controller"
	"survey_backend/internal/repository"
	"survey_backend/internal/service"
	"survey_backend/internal/validation"
	"survey_backend/pkg/cache"
	"survey_backend/pkg/configwatcher"
	"survey_backend/pkg/database"
	"survey_backend/pkg/lock"
	"survey_backend/pkg/logger"
	"survey_backend/pkg/monitoring"
	"survey_backend/pkg/security"
	"survey_backend/pkg/tracing"
)

const serviceName = "survey-backend"

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracer *sdktrace.TracerProvider
	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	survey   *repository.SurveyRepository
	response *repository.ResponseRepository
}

type services struct {
	survey   *service.SurveyService
	response *service.ResponseService
}

type controllers struct {
	survey   *controller.SurveyController
	response *controller.ResponseController
	health   *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		survey:   repository.NewSurveyRepository(db),
		response: repository.NewResponseRepository(db),
	}
}

// initServices shares one cache and one locker between both services. With
// Redis disabled the lock is process-local and reads are not cached.
func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	var (
		c      cache.Cache = cache.Nop{}
		locker lock.Locker = lock.NewInMemory()
	)
	if rdb != nil {
		c = cache.NewRedisCache(rdb, "survey_backend:")
		locker = lock.NewRedis(rdb, "survey_backend:lock:")
	}

	opts := service.Options{
		SurveyTTL:   cfg.Cache.SurveyTTL,
		ResponseTTL: cfg.Cache.ResponseTTL,
		LockTTL:     cfg.Lock.TTL,
		LockWait:    cfg.Lock.Wait,
	}

	return &services{
		survey:   service.NewSurveyService(repos.survey, db, c, locker, opts),
		response: service.NewResponseService(repos.response, repos.survey, db, c, locker, opts),
	}
}

func initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		survey:   controller.NewSurveyController(s.survey),
		response: controller.NewResponseController(s.response),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New builds the router over an open database. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	if err := validation.Setup(); err != nil {
		return nil, err
	}
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := initRepositories(db)
	controllers := initControllers(initServices(repos, cfg, db, rdb), db, rdb)

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)
	return app, nil
}

// NewApp connects every backing service and exits the process on failure.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully", zap.String("level", cfg.Log.Level))

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(app.ctx, serviceName, cfg.Tracing.CollectorEndpoint, cfg.Tracing.SampleRate)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if cfg.File != "" {
		go func() {
			if err := configwatcher.WatchConfig(app.ctx, cfg.File, configwatcher.LogLevelReloader); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close stops background work and releases connections.
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
