package worker

import (
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/nishmeets/research-digest/internal/config"
)

// StartScheduler creates and starts an Asynq Scheduler that enqueues one
// papers:fetch task per configured category on the fetch schedule.
// Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	for _, category := range cfg.FetchCategories {
		task, err := NewFetchTask(category, cfg.FetchMaxResults)
		if err != nil {
			return nil, fmt.Errorf("failed to build fetch task for %s: %w", category, err)
		}

		entryID, err := scheduler.Register(cfg.FetchSchedule, task)
		if err != nil {
			return nil, fmt.Errorf("failed to register fetch schedule for %s: %w", category, err)
		}

		slog.Info(
			"Registered scheduled fetch",
			"category", category,
			"schedule", cfg.FetchSchedule,
			"entry_id", entryID,
		)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	return func() { scheduler.Shutdown() }, nil
}
