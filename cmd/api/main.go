package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutoring-reports-api/api/swagger"
	"github.com/noah-isme/tutoring-reports-api/internal/handler"
	internalmiddleware "github.com/noah-isme/tutoring-reports-api/internal/middleware"
	"github.com/noah-isme/tutoring-reports-api/internal/repository"
	"github.com/noah-isme/tutoring-reports-api/internal/service"
	"github.com/noah-isme/tutoring-reports-api/pkg/cache"
	"github.com/noah-isme/tutoring-reports-api/pkg/config"
	"github.com/noah-isme/tutoring-reports-api/pkg/database"
	"github.com/noah-isme/tutoring-reports-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutoring-reports-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutoring-reports-api/pkg/middleware/requestid"
)

// @title Tutoring Reports API
// @version 1.0.0
// @description Read-only attendance, exam, finance and student reports with CSV/PDF export
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Reports.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	location, err := time.LoadLocation(cfg.Reports.Timezone)
	if err != nil {
		logr.Warn("unknown report timezone, using UTC", zap.String("timezone", cfg.Reports.Timezone), zap.Error(err))
		location = time.UTC
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled && redisClient != nil)
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Lookups:     repository.NewLookupRepository(db),
		Attendance:  repository.NewAttendanceRepository(db),
		Exams:       repository.NewExamRepository(db),
		Finances:    repository.NewFinanceRepository(db),
		Students:    repository.NewStudentRepository(db),
		Enrollments: repository.NewEnrollmentRepository(db),
		Cache:       cacheSvc,
		Metrics:     metrics,
		Logger:      logr,
		Config: service.ReportServiceConfig{
			CacheTTL:    cfg.Reports.CacheTTL,
			DefaultTopN: cfg.Reports.DefaultTopN,
			MaxTopN:     cfg.Reports.MaxTopN,
			Location:    location,
		},
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics"))
	r.Use(internalmiddleware.WithResponseMeta())

	observability := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"postgres": db,
		"redis":    handler.PingFunc(cacheRepo.Ping),
	})
	r.GET("/health", observability.Health)
	r.GET("/ready", observability.Ready)
	r.GET("/metrics", observability.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.NewReportHandler(reportSvc).Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
