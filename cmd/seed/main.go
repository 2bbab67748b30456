package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-reports-api/internal/repository"
	"github.com/noah-isme/tutoring-reports-api/internal/seed"
	"github.com/noah-isme/tutoring-reports-api/internal/service"
	"github.com/noah-isme/tutoring-reports-api/pkg/cache"
	"github.com/noah-isme/tutoring-reports-api/pkg/config"
	"github.com/noah-isme/tutoring-reports-api/pkg/database"
	"github.com/noah-isme/tutoring-reports-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	randomSeed := flag.Int64("seed", cfg.Seed.RandomSeed, "random seed; the same seed reproduces the same dataset")
	students := flag.Int("students", cfg.Seed.Students, "number of students to generate")
	teachers := flag.Int("teachers", cfg.Seed.Teachers, "number of teachers to generate")
	weeks := flag.Int("weeks", 16, "weeks of session history to generate")
	migrate := flag.Bool("migrate", true, "apply the schema before seeding")
	flag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	data, err := seed.Generate(seed.Options{
		Seed:     *randomSeed,
		Students: *students,
		Teachers: *teachers,
		Password: cfg.Seed.DefaultPassword,
		Weeks:    *weeks,
	})
	if err != nil {
		logr.Fatal("failed to generate dataset", zap.Error(err))
	}

	if err := seed.NewWriter(db, logr).Write(ctx, data); err != nil {
		logr.Fatal("failed to write dataset", zap.Error(err))
	}

	if cfg.Reports.CacheEnabled {
		invalidateReports(ctx, cfg, logr)
	}

	logr.Info("seed complete",
		zap.Int64("seed", *randomSeed),
		zap.Int("students", len(data.Children)),
		zap.Int("sessions", len(data.Sessions)),
		zap.Int("attendances", len(data.Attendances)),
		zap.Int("invoices", len(data.Invoices)),
	)
}

// invalidateReports drops cached report payloads computed from the replaced data.
func invalidateReports(ctx context.Context, cfg *config.Config, logr *zap.Logger) {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, cached reports not invalidated", zap.Error(err))
		return
	}
	repo := repository.NewCacheRepository(client)
	defer repo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(repo, nil, cfg.Reports.CacheTTL, logr, true)
	if err := cacheSvc.Invalidate(ctx, service.ReportCachePattern); err == nil {
		logr.Info("cached reports invalidated")
	}
}
