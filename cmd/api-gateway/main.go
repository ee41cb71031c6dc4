package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/coverage-api/api/swagger"
	"github.com/noah-isme/coverage-api/internal/handler"
	"github.com/noah-isme/coverage-api/internal/middleware"
	"github.com/noah-isme/coverage-api/internal/repository"
	"github.com/noah-isme/coverage-api/internal/service"
	"github.com/noah-isme/coverage-api/pkg/cache"
	"github.com/noah-isme/coverage-api/pkg/config"
	"github.com/noah-isme/coverage-api/pkg/database"
	"github.com/noah-isme/coverage-api/pkg/jobs"
	"github.com/noah-isme/coverage-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/coverage-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/coverage-api/pkg/middleware/requestid"
)

// @title Substitute Coverage API
// @version 1.0.0
// @description Absence coverage lifecycle and substitute shift matching
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Coverage.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis, logr)
		if err != nil {
			logr.Warn("redis unavailable, summary cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}
	validate := validator.New()

	absenceRepo := repository.NewAbsenceRepository(db)
	requestRepo := repository.NewCoverageRequestRepository(db)
	assignmentRepo := repository.NewSubAssignmentRepository(db)
	contactRepo := repository.NewSubstituteContactRepository(db)
	scheduleRepo := repository.NewTeacherScheduleRepository(db)
	baselineRepo := repository.NewBaselineUsageRepository(db)
	txManager := repository.NewTxManager(db)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Coverage.CacheTTL, logr, cfg.Coverage.CacheEnabled && redisClient != nil)
	coverageSvc := service.NewCoverageService(absenceRepo, requestRepo, assignmentRepo, txManager, cacheSvc, metricsSvc, validate, logr)

	worker := service.NewCoverageRecomputeWorker(coverageSvc, absenceRepo, cacheSvc, metricsSvc, logr)
	queue := jobs.NewQueue("coverage-recompute", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Coverage.RecomputeWorkers,
		MaxRetries: cfg.Coverage.RecomputeRetries,
		RetryDelay: cfg.Coverage.RecomputeDelay,
		Logger:     logr,
	})
	worker.Attach(queue)
	coverageSvc.UseRefresher(worker)

	absenceSvc := service.NewAbsenceService(absenceRepo, requestRepo, assignmentRepo, scheduleRepo, txManager, worker, metricsSvc, validate, logr)
	responseSvc := service.NewSubstituteResponseService(requestRepo, contactRepo, assignmentRepo, txManager, worker, metricsSvc, validate, logr)
	assignmentSvc := service.NewSubAssignmentService(requestRepo, assignmentRepo, txManager, worker, metricsSvc, validate, logr)
	conflictSvc := service.NewScheduleConflictService(scheduleRepo, metricsSvc, validate, logr)
	placementSvc := service.NewTeacherScheduleService(scheduleRepo, conflictSvc, txManager, validate, logr)
	baselineSvc := service.NewBaselineUsageService(baselineRepo, logr)
	exportSvc := service.NewCoverageExportService(coverageSvc, logr)

	schoolHeader := cfg.School.Header
	if schoolHeader == "" {
		schoolHeader = middleware.DefaultSchoolHeader
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, schoolHeader))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, schoolHeader))
	r.Use(middleware.Metrics(metricsSvc))

	probes := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		probes["redis"] = cacheRepo
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, probes)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.School(schoolHeader), middleware.WithResponseMeta())
	handler.Handlers{
		Absences:         handler.NewAbsenceHandler(absenceSvc),
		Coverage:         handler.NewCoverageHandler(coverageSvc, exportSvc),
		Substitutes:      handler.NewSubstituteHandler(responseSvc, assignmentSvc),
		TeacherSchedules: handler.NewTeacherScheduleHandler(conflictSvc, placementSvc, baselineSvc),
	}.Register(api)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	queue.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	stop()
	queue.Stop()
}
