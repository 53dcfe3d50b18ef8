package main

import (
	"log"
	"log/slog"

	"github.com/nishmeets/research-digest/internal/analytics"
	"github.com/nishmeets/research-digest/internal/arxiv"
	"github.com/nishmeets/research-digest/internal/config"
	"github.com/nishmeets/research-digest/internal/database"
	"github.com/nishmeets/research-digest/internal/papers"
	"github.com/nishmeets/research-digest/internal/server"
	"github.com/nishmeets/research-digest/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		// Start anyway: /health reports the degraded state instead of the
		// process crash-looping while the database comes up.
		slog.Error("Database unavailable, serving degraded", "error", err)
	} else {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		if err := database.SeedCategories(db); err != nil {
			log.Fatalf("category seeding failed: %v", err)
		}
		if cfg.SeedDevData {
			if err := database.SeedDevData(db); err != nil {
				log.Fatalf("dev data seeding failed: %v", err)
			}
		}
		defer database.Close(db)
	}

	source := arxiv.NewClient(cfg.ArxivBaseURL)
	recorder := analytics.NewRecorder(db, logger)
	svc := papers.NewService(db, source, recorder, logger)

	// Background fetching needs Redis; without it the service is
	// HTTP-only and ingestion happens via POST /papers/fetch-new.
	if cfg.RedisURL != "" && db != nil {
		stopWorker, err := worker.Start(cfg, svc)
		if err != nil {
			log.Fatalf("worker failed to start: %v", err)
		}
		defer stopWorker()

		stopScheduler, err := worker.StartScheduler(cfg)
		if err != nil {
			log.Fatalf("scheduler failed to start: %v", err)
		}
		defer stopScheduler()
	}

	router := server.NewRouter(cfg, db, svc)
	slog.Info("Starting server", "port", cfg.Port, "env", cfg.Env)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
