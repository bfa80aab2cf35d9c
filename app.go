package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/medlearn/internal/config"
	"github.com/example/medlearn/internal/database"
	"github.com/example/medlearn/internal/logging"
	"github.com/example/medlearn/internal/review"
	sr "github.com/example/medlearn/internal/spaced_repetition"
)

// app holds what every command needs, opened lazily
type app struct {
	envFile string
	cfg     config.Config
	logger  *zap.Logger
	db      *sqlx.DB
}

func (a *app) open() error {
	if a.db != nil {
		return nil
	}

	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	a.db = db

	a.logger.Debug("database opened", zap.String("driver", cfg.Database.Driver))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) progress() *database.ProgressRepository {
	return database.NewProgressRepository(a.db)
}

func (a *app) reviewService() *review.Service {
	return review.NewService(sr.NewSM2(), a.progress(), a.logger).
		WithLog(database.NewReviewLogRepository(a.db))
}
